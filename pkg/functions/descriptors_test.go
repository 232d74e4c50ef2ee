package functions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/dialect"
	"github.com/leapstack-labs/sqlfn/pkg/function"

	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/h2"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/oracle"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/sqlite"
	_ "github.com/leapstack-labs/sqlfn/pkg/dialects/sqlserver"
)

func untyped(n int) []core.Expr {
	args := make([]core.Expr, n)
	for i := range args {
		args[i] = &core.Param{}
	}
	return args
}

// Every descriptor of every dialect rejects argument counts outside its
// declared range before anything is rendered.
func TestDescriptors_RejectArityOutsideRange(t *testing.T) {
	for _, name := range dialect.List() {
		d, err := dialect.Lookup(name)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			for _, fn := range d.Functions().Names() {
				desc, ok := d.Functions().Find(fn)
				require.True(t, ok)

				candidates := []*function.Descriptor{desc}
				if desc.IsOverloaded() {
					candidates = desc.Candidates
				}
				for _, c := range candidates {
					describer, ok := c.Validator.(function.Describer)
					if !ok {
						continue
					}
					min, max := describer.Arity()

					var counts []int
					if min > 0 {
						counts = append(counts, min-1)
					}
					if max >= 0 {
						counts = append(counts, max+1)
					}
					for _, n := range counts {
						_, err := function.Resolve(c, untyped(n), d.Functions().TypeContext())
						var argErr *function.ArgumentError
						assert.ErrorAs(t, err, &argErr, "%s with %d arguments", c.Name, n)
					}
				}
			}
		})
	}
}

func TestDescriptors_CallRejectsBeforeRendering(t *testing.T) {
	d, err := dialect.Lookup("sqlite")
	require.NoError(t, err)

	rendered := false
	reg := function.NewRegistry(d.Config())
	reg.Named("widen").Exactly(1).
		Render(func(function.Appender, *core.FuncCall, function.Translator) error {
			rendered = true
			return nil
		}).
		Register()

	c, err := reg.Call("widen", untyped(2))
	assert.Nil(t, c)
	var argErr *function.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "widen", argErr.Function)
	assert.False(t, rendered)
}

func TestDescriptors_Signatures(t *testing.T) {
	d, err := dialect.Lookup("postgres")
	require.NoError(t, err)

	lpad, ok := d.Functions().Find("lpad")
	require.True(t, ok)
	assert.Contains(t, lpad.Signature(), "lpad(")

	// aliases resolve to their canonical descriptor
	pos, ok := d.Functions().Find("position")
	require.True(t, ok)
	assert.Equal(t, "locate", pos.Name)
	assert.Equal(t, []string{"position"}, d.Functions().Aliases("locate"))
}
