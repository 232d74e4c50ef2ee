package function

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lengthRegistry() *Registry {
	r := NewRegistry(nil)
	r.Register(Overloaded("length",
		r.Named("character_length").Exactly(1).Types(StringOrClob).ReturnsType(core.Integer).Descriptor(),
		r.Named("array_length").Exactly(1).Types(Array).ReturnsType(core.Integer).Descriptor(),
		r.Named("octet_length").Exactly(1).Types(AnyType).Validator(ValidatorFunc(
			func(name string, args []core.Expr, _ TypeContext) error {
				if core.TypeOf(args[0]) != core.Binary {
					return &ArgumentError{Function: name, Position: 1, Expected: "VARBINARY", Actual: core.TypeOf(args[0]).String(), Reason: "has the wrong type"}
				}
				return nil
			})).ReturnsType(core.Integer).Descriptor(),
	))
	return r
}

func TestOverload_FirstAcceptingCandidateWins(t *testing.T) {
	r := lengthRegistry()

	call, err := r.Call("length", []core.Expr{col("s", core.String)})
	require.NoError(t, err)
	assert.Equal(t, "character_length", call.Name)

	call, err = r.Call("length", []core.Expr{col("a", core.IntegerArray)})
	require.NoError(t, err)
	assert.Equal(t, "array_length", call.Name)

	buf := newSQLBuffer(r)
	require.NoError(t, buf.Render(call))
	assert.Equal(t, "array_length(t.a)", buf.String())
}

func TestOverload_AggregatedError(t *testing.T) {
	r := lengthRegistry()

	_, err := r.Call("length", []core.Expr{col("n", core.Integer)})

	var oerr *OverloadError
	require.True(t, errors.As(err, &oerr))
	assert.Equal(t, "length", oerr.Function)

	var primary *ArgumentError
	require.True(t, errors.As(oerr.Primary, &primary))
	assert.Equal(t, "character_length", primary.Function)
	assert.Equal(t, "STRING_OR_CLOB", primary.Expected)

	require.Len(t, oerr.Suppressed, 2)
	assert.Contains(t, oerr.Suppressed[0].Error(), "array_length")
	assert.Contains(t, oerr.Suppressed[1].Error(), "octet_length")

	assert.Contains(t, err.Error(), "no overload of length() accepts the arguments")
	assert.Len(t, oerr.Unwrap(), 3)
}

func TestOverload_Signature(t *testing.T) {
	r := lengthRegistry()
	d, ok := r.Find("length")
	require.True(t, ok)
	assert.Equal(t, "(STRING_OR_CLOB arg1) | (ARRAY arg1) | (ANY arg1)", d.Signature())
	assert.Equal(t, "INTEGER | INTEGER | INTEGER", d.ReturnTypeName())
}

func TestCall_Lookup(t *testing.T) {
	r := NewRegistry(&core.DialectConfig{Name: "h2"})
	r.Named("substring").Between(2, 3).Register()
	r.RegisterAlternateKey("substr", "substring")
	r.RegisterAlternateKey("mid", "missing")

	call, err := r.Call("SUBSTR", []core.Expr{core.Str("abc"), core.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "substring", call.Name)
	assert.Equal(t, []string{"substr"}, r.Aliases("substring"))

	_, err = r.Call("mid", nil)
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "function mid() is not registered for dialect h2", err.Error())
}
