package adapter

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/leapstack-labs/sqlfn/pkg/sqlgen"
)

// Run compiles stmt for the dialect of a and runs it with the bound
// parameters the compiler collected.
func Run(ctx context.Context, a Adapter, stmt *core.SelectStatement, opts ...sqlgen.Option) (*sqlgen.Result, *ResultSet, error) {
	res, err := sqlgen.New(a.Dialect(), opts...).Compile(stmt)
	if err != nil {
		return nil, nil, err
	}
	rs, err := a.Query(ctx, res.SQL, res.Params...)
	if err != nil {
		return res, nil, fmt.Errorf("failed to run %s statement: %w", a.Dialect().Name(), err)
	}
	return res, rs, nil
}
