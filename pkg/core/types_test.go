package core_test

import (
	"testing"

	"github.com/leapstack-labs/sqlfn/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestType_Categories(t *testing.T) {
	tests := []struct {
		typ      *core.Type
		numeric  bool
		integral bool
		str      bool
		temporal bool
		family   core.Family
	}{
		{core.Integer, true, true, false, false, core.FamilyIntegral},
		{core.Long, true, true, false, false, core.FamilyIntegral},
		{core.BigInteger, true, true, false, false, core.FamilyIntegral},
		{core.BigDecimal, true, false, false, false, core.FamilyExact},
		{core.Double, true, false, false, false, core.FamilyApproximate},
		{core.String, false, false, true, false, core.FamilyString},
		{core.Clob, false, false, false, false, core.FamilyString},
		{core.Date, false, false, false, true, core.FamilyTemporal},
		{core.Timestamp, false, false, false, true, core.FamilyTemporal},
		{core.Duration, false, false, false, false, core.FamilyDuration},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name, func(t *testing.T) {
			assert.Equal(t, tt.numeric, tt.typ.IsNumeric())
			assert.Equal(t, tt.integral, tt.typ.IsIntegral())
			assert.Equal(t, tt.str, tt.typ.IsString())
			assert.Equal(t, tt.temporal, tt.typ.IsTemporal())
			assert.Equal(t, tt.family, tt.typ.Family())
		})
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "VARCHAR(255)", core.Varchar(255).String())
	assert.Equal(t, "DECIMAL(10,2)", core.Decimal(10, 2).String())
	assert.Equal(t, "INTEGER", core.Integer.String())
	assert.Equal(t, "<untyped>", (*core.Type)(nil).String())
}

func TestCastKindOf(t *testing.T) {
	assert.Equal(t, core.CastIntegral, core.CastKindOf(core.Long))
	assert.Equal(t, core.CastString, core.CastKindOf(core.Varchar(10)))
	assert.Equal(t, core.CastArray, core.CastKindOf(core.StringArray))
	assert.Equal(t, core.CastTimestamp, core.CastKindOf(core.TimestampTZ))
	assert.Equal(t, core.CastOther, core.CastKindOf(nil))
}

func TestDialectConfig_Defaults(t *testing.T) {
	cfg := &core.DialectConfig{TypeNames: map[core.SQLTypeCode]string{core.CodeVarchar: "char"}}
	assert.Equal(t, core.DefaultMaxSeriesSize, cfg.SeriesLimit())
	assert.Equal(t, "char", cfg.TypeName(core.CodeVarchar))
	assert.Equal(t, "timestamp", cfg.TypeName(core.CodeTimestamp))

	cfg.MaxSeriesSize = 50
	assert.Equal(t, 50, cfg.SeriesLimit())
}
