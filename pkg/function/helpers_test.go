package function

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

// sqlBuffer is a minimal emitter rendering literals, columns and nested
// calls. It is enough to exercise renderers without the sqlgen package.
type sqlBuffer struct {
	sb       strings.Builder
	registry *Registry
}

func newSQLBuffer(r *Registry) *sqlBuffer {
	if r == nil {
		r = NewRegistry(nil)
	}
	return &sqlBuffer{registry: r}
}

func (b *sqlBuffer) AppendSQL(s string)           { b.sb.WriteString(s) }
func (b *sqlBuffer) Dialect() *core.DialectConfig { return b.registry.Config() }
func (b *sqlBuffer) Functions() *Registry         { return b.registry }
func (b *sqlBuffer) Clause() core.Clause          { return core.ClauseSelect }
func (b *sqlBuffer) String() string               { return b.sb.String() }

func (b *sqlBuffer) Render(e core.Expr) error {
	switch v := e.(type) {
	case *core.Literal:
		if v.Kind == core.LiteralString {
			b.AppendSQL("'" + v.Value + "'")
		} else {
			b.AppendSQL(v.Value)
		}
	case *core.ColumnRef:
		if v.Qualifier != "" {
			b.AppendSQL(v.Qualifier + ".")
		}
		b.AppendSQL(v.Column)
	case *core.FuncCall:
		d, ok := DescriptorOf(v)
		if !ok {
			return RenderStandard(b, v, b)
		}
		return d.RenderCall(b, v, b)
	default:
		return fmt.Errorf("unsupported node %T", e)
	}
	return nil
}

func col(name string, t *core.Type) *core.ColumnRef {
	return &core.ColumnRef{Qualifier: "t", Column: name, Type: t}
}
