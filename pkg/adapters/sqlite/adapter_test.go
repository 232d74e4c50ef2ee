package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlfn/pkg/adapter"
	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/function"
)

func connect(t *testing.T, cfg adapter.Config) *Adapter {
	t.Helper()
	adp := New(nil)
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestAdapter_Connect(t *testing.T) {
	t.Run("file with pragmas", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		adp := connect(t, adapter.Config{
			Path:   path,
			Params: map[string]any{"pragmas": []any{"foreign_keys=on"}, "busy_timeout": "250"},
		})
		_, err := os.Stat(path)
		require.NoError(t, err)

		rs, err := adp.Query(context.Background(), "PRAGMA busy_timeout")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(250)}}, rs.Rows)
	})

	t.Run("bad pragma", func(t *testing.T) {
		err := New(nil).Connect(context.Background(), adapter.Config{
			Params: map[string]any{"pragmas": []any{"busy_timeout=("}},
		})
		assert.ErrorContains(t, err, "failed to apply pragma")
	})
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, adapter.Config{})
	require.NoError(t, adp.Exec(ctx, "create table orders(id integer not null, note text)"))
	require.NoError(t, adp.Exec(ctx, "insert into orders values (?, ?), (?, ?)", 1, "a", 2, nil))

	meta, err := adp.GetTableMetadata(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, &adapter.Metadata{
		Schema: "main",
		Name:   "orders",
		Columns: []adapter.Column{
			{Name: "id", Type: "INTEGER", Nullable: false, Position: 1},
			{Name: "note", Type: "TEXT", Nullable: true, Position: 2},
		},
		RowCount: 2,
	}, meta)

	_, err = adp.GetTableMetadata(ctx, "missing")
	var notFound *adapter.TableNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// A hypothetical set rank is emulated with a window over the grouped rows
// and bound parameters reach the driver.
func TestAdapter_Run(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, adapter.Config{})
	require.NoError(t, adp.Exec(ctx, "create table sales(region text, amount integer)"))
	require.NoError(t, adp.Exec(ctx, "insert into sales values ('east',10),('east',20),('west',5)"))

	fns := adp.Dialect().Functions()
	region := &core.ColumnRef{Qualifier: "s", Column: "region", Type: core.String}
	amount := &core.ColumnRef{Qualifier: "s", Column: "amount", Type: core.Integer}

	rank, err := fns.Call("rank", []core.Expr{core.Int(20)}, function.WithinGroup(core.OrderByItem{Expr: amount}))
	require.NoError(t, err)

	q := &core.QuerySpec{
		Select:  []core.SelectItem{{Expr: region, Alias: "region"}, {Expr: rank, Alias: "r"}},
		From:    []*core.TableGroup{{Ref: &core.NamedTable{Name: "sales"}, Alias: "s"}},
		Where:   core.Bin(amount, core.OpGt, &core.Param{Value: int64(1), Type: core.Integer}),
		GroupBy: []core.Expr{region},
		OrderBy: []core.OrderByItem{{Expr: region}},
	}

	res, rs, err := adapter.Run(ctx, adp, core.NewSelectStatement(q))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, res.Params)
	assert.Equal(t, []string{"region", "r"}, rs.Columns)
	// west has no row with amount 20
	assert.Equal(t, [][]any{{"east", int64(2)}, {"west", nil}}, rs.Rows)
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("sqlite"))

	adp, err := adapter.NewAdapter(adapter.Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", adp.Dialect().Name())
}
