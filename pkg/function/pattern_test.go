package function

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Render(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		args []core.Expr
		want string
	}{
		{"single", "abs(?1)", []core.Expr{core.Int(1)}, "abs(1)"},
		{"reordered", "instr(?2,?1)", []core.Expr{core.Str("a"), col("s", core.String)}, "instr(t.s,'a')"},
		{"repeated", "(?1*?1)", []core.Expr{core.Int(3)}, "(3*3)"},
		{"variadic", "coalesce(?1...)", []core.Expr{core.Int(1), core.Int(2), core.Int(3)}, "coalesce(1,2,3)"},
		{"variadic tail", "f(?1,g(?2...))", []core.Expr{core.Int(1), core.Int(2), core.Int(3)}, "f(1,g(2,3))"},
		{"two digit", "f(?10)", []core.Expr{
			core.Int(1), core.Int(2), core.Int(3), core.Int(4), core.Int(5),
			core.Int(6), core.Int(7), core.Int(8), core.Int(9), core.Int(10),
		}, "f(10)"},
		{"question mark literal", "a ? b ?1", []core.Expr{core.Int(1)}, "a ? b 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePattern(tt.tpl)
			require.NoError(t, err)
			buf := newSQLBuffer(nil)
			require.NoError(t, p.Render(buf, tt.args, buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPattern_MaxArg(t *testing.T) {
	p := MustPattern("replace(?3,?1,?2)")
	assert.Equal(t, 3, p.MaxArg())
	assert.Equal(t, "replace(?3,?1,?2)", p.String())
}

func TestPattern_OutOfRange(t *testing.T) {
	p := MustPattern("f(?1,?2)")
	buf := newSQLBuffer(nil)

	err := p.Render(buf, []core.Expr{core.Int(1)}, buf)

	var perr *PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Placeholder)
	assert.Equal(t, 1, perr.Args)
}

func TestPattern_ZeroPlaceholder(t *testing.T) {
	_, err := ParsePattern("f(?0)")
	require.Error(t, err)
	assert.Panics(t, func() { MustPattern("f(?0)") })
}
