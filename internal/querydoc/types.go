package querydoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfn/pkg/core"
)

var typeNames = map[string]*core.Type{
	"byte":        core.Byte,
	"tinyint":     core.Byte,
	"short":       core.Short,
	"smallint":    core.Short,
	"int":         core.Integer,
	"integer":     core.Integer,
	"long":        core.Long,
	"bigint":      core.Long,
	"biginteger":  core.BigInteger,
	"float":       core.Float,
	"real":        core.Float,
	"double":      core.Double,
	"decimal":     core.BigDecimal,
	"numeric":     core.BigDecimal,
	"string":      core.String,
	"text":        core.String,
	"varchar":     core.String,
	"char":        core.Character,
	"character":   core.Character,
	"clob":        core.Clob,
	"bool":        core.Boolean,
	"boolean":     core.Boolean,
	"date":        core.Date,
	"time":        core.Time,
	"timestamp":   core.Timestamp,
	"timestamptz": core.TimestampTZ,
	"interval":    core.Duration,
	"duration":    core.Duration,
	"binary":      core.Binary,
	"blob":        core.Binary,
}

// ParseType parses a type name such as "long", "varchar(20)",
// "decimal(10,2)" or "string[]".
func ParseType(name string) (*core.Type, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if elem, ok := strings.CutSuffix(s, "[]"); ok {
		t, err := ParseType(elem)
		if err != nil {
			return nil, err
		}
		return core.ArrayOf(t), nil
	}

	base, args, err := splitTypeArgs(s)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", name, err)
	}
	t, ok := typeNames[base]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	switch {
	case len(args) == 0:
		return t, nil
	case base == "varchar" && len(args) == 1:
		return core.Varchar(args[0]), nil
	case t == core.BigDecimal && len(args) <= 2:
		scale := 0
		if len(args) == 2 {
			scale = args[1]
		}
		return core.Decimal(args[0], scale), nil
	}
	return nil, fmt.Errorf("type %q takes no arguments", name)
}

func splitTypeArgs(s string) (string, []int, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("missing closing parenthesis")
	}
	var args []int
	for _, part := range strings.Split(s[open+1:len(s)-1], ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return "", nil, fmt.Errorf("bad type argument %q", part)
		}
		args = append(args, n)
	}
	return strings.TrimSpace(s[:open]), args, nil
}
