package function

import (
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestSumReturnType(t *testing.T) {
	bigIntegerDecimal := &core.Type{Name: "BigInteger", Code: core.CodeDecimal, Kind: core.KindBigInt}

	tests := []struct {
		name string
		arg  *core.Type
		want *core.Type
	}{
		{"integer widens to long", core.Integer, core.Long},
		{"short widens to long", core.Short, core.Long},
		{"byte widens to long", core.Byte, core.Long},
		{"long stays long", core.Long, core.Long},
		{"float widens to double", core.Float, core.Double},
		{"double stays double", core.Double, core.Double},
		{"decimal backed by big integer", bigIntegerDecimal, core.BigInteger},
		{"decimal backed by big decimal", core.Decimal(10, 2), core.BigDecimal},
		{"big integer", core.BigInteger, core.BigInteger},
		{"code smallint", &core.Type{Code: core.CodeSmallInt}, core.Long},
		{"code real", &core.Type{Code: core.CodeReal}, core.Double},
		{"code numeric", &core.Type{Code: core.CodeNumeric}, core.BigDecimal},
		{"vector", core.FloatVector, core.FloatVector},
		{"other falls back to big decimal", core.String, core.BigDecimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SumReturnType.ResolveReturnType(nil, []core.Expr{col("x", tt.arg)}, TypeContext{})
			assert.Same(t, tt.want, got)
		})
	}
}

func TestSumReturnType_UntypedArgument(t *testing.T) {
	args := []core.Expr{&core.Param{}}
	assert.Same(t, core.Double, SumReturnType.ResolveReturnType(core.Double, args, TypeContext{}))
	assert.Nil(t, SumReturnType.ResolveReturnType(core.String, args, TypeContext{}))
}

func TestAvgReturnType(t *testing.T) {
	assert.Same(t, core.Double, AvgReturnType.ResolveReturnType(nil, []core.Expr{col("i", core.Integer)}, TypeContext{}))
	assert.Same(t, core.Double, AvgReturnType.ResolveReturnType(nil, []core.Expr{col("d", core.BigDecimal)}, TypeContext{}))
	assert.Same(t, core.FloatVector, AvgReturnType.ResolveReturnType(nil, []core.Expr{col("v", core.FloatVector)}, TypeContext{}))
}

func TestUseArgType(t *testing.T) {
	r := UseArgType(2)
	args := []core.Expr{core.Int(1), col("d", core.Decimal(10, 2))}
	assert.Equal(t, "DECIMAL(10,2)", r.ResolveReturnType(nil, args, TypeContext{}).String())
	assert.Same(t, core.Long, r.ResolveReturnType(core.Long, []core.Expr{core.Int(1), &core.Param{}}, TypeContext{}))
	assert.Equal(t, "type of argument 2", r.String())
}

func TestInvariantAndImplied(t *testing.T) {
	assert.Same(t, core.Double, Invariant(core.Double).ResolveReturnType(core.Integer, nil, TypeContext{}))

	r := ImpliedOr(core.String)
	v10 := core.Varchar(10)
	assert.Same(t, v10, r.ResolveReturnType(v10, nil, TypeContext{}))
	assert.Same(t, core.String, r.ResolveReturnType(core.Integer, nil, TypeContext{}))
}

func TestArgumentTypeResolvers(t *testing.T) {
	args := []core.Expr{col("ts", core.Timestamp), &core.Param{}}
	assert.Same(t, core.Timestamp, ArgTypeFrom(1)(args, 1, TypeContext{}))
	assert.Nil(t, ArgTypeFrom(1)(args, 0, TypeContext{}))
	assert.Same(t, core.Timestamp, FirstTypedArg(args, 1, TypeContext{}))
	assert.Same(t, core.Integer, ArgTypes(core.String, core.Integer)(args, 1, TypeContext{}))
}

func TestCall_InfersParameterTypes(t *testing.T) {
	r := NewRegistry(nil)
	r.Named("nullif").Exactly(2).Types(Comparable, Comparable).
		ArgumentTypes(FirstTypedArg).Returns(UseArgType(1)).Register()

	p := &core.Param{Value: "x"}
	call, err := r.Call("nullif", []core.Expr{col("s", core.String), p})
	assert.NoError(t, err)
	assert.Same(t, core.String, p.Type)
	assert.Same(t, core.String, call.Type)
}
