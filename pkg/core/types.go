package core

import "strconv"

// SQLTypeCode is the standard SQL type code of a type.
type SQLTypeCode int

// SQL type codes.
const (
	CodeUnknown SQLTypeCode = iota
	CodeTinyInt
	CodeSmallInt
	CodeInteger
	CodeBigInt
	CodeFloat
	CodeReal
	CodeDouble
	CodeDecimal
	CodeNumeric
	CodeChar
	CodeVarchar
	CodeNChar
	CodeNVarchar
	CodeClob
	CodeBlob
	CodeBoolean
	CodeDate
	CodeTime
	CodeTimestamp
	CodeTimestampTZ
	CodeInterval
	CodeArray
	CodeVector
	CodeBinary
)

var codeNames = map[SQLTypeCode]string{
	CodeUnknown:     "UNKNOWN",
	CodeTinyInt:     "TINYINT",
	CodeSmallInt:    "SMALLINT",
	CodeInteger:     "INTEGER",
	CodeBigInt:      "BIGINT",
	CodeFloat:       "FLOAT",
	CodeReal:        "REAL",
	CodeDouble:      "DOUBLE",
	CodeDecimal:     "DECIMAL",
	CodeNumeric:     "NUMERIC",
	CodeChar:        "CHAR",
	CodeVarchar:     "VARCHAR",
	CodeNChar:       "NCHAR",
	CodeNVarchar:    "NVARCHAR",
	CodeClob:        "CLOB",
	CodeBlob:        "BLOB",
	CodeBoolean:     "BOOLEAN",
	CodeDate:        "DATE",
	CodeTime:        "TIME",
	CodeTimestamp:   "TIMESTAMP",
	CodeTimestampTZ: "TIMESTAMP WITH TIME ZONE",
	CodeInterval:    "INTERVAL",
	CodeArray:       "ARRAY",
	CodeVector:      "VECTOR",
	CodeBinary:      "VARBINARY",
}

// String returns the SQL name of the type code.
func (c SQLTypeCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// ValueKind is the runtime representation of values of a type.
// Return type widening keys on it before falling back to the SQL type code.
type ValueKind int

// Value kinds.
const (
	KindUnknown ValueKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindBigInt
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindBool
	KindTime
	KindDuration
	KindBytes
	KindSlice
)

// IsIntegral reports whether the kind is a fixed width integer.
func (k ValueKind) IsIntegral() bool {
	return k >= KindInt8 && k <= KindInt64
}

// IsFloating reports whether the kind is a binary floating point number.
func (k ValueKind) IsFloating() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Type is the logical type of an expression.
type Type struct {
	Name      string
	Code      SQLTypeCode
	Kind      ValueKind
	Length    int
	Precision int
	Scale     int
	Element   *Type // element type for arrays and series
}

// Predefined types.
var (
	Byte         = &Type{Name: "Byte", Code: CodeTinyInt, Kind: KindInt8}
	Short        = &Type{Name: "Short", Code: CodeSmallInt, Kind: KindInt16}
	Integer      = &Type{Name: "Integer", Code: CodeInteger, Kind: KindInt32}
	Long         = &Type{Name: "Long", Code: CodeBigInt, Kind: KindInt64}
	BigInteger   = &Type{Name: "BigInteger", Code: CodeNumeric, Kind: KindBigInt}
	Float        = &Type{Name: "Float", Code: CodeFloat, Kind: KindFloat32}
	Double       = &Type{Name: "Double", Code: CodeDouble, Kind: KindFloat64}
	BigDecimal   = &Type{Name: "BigDecimal", Code: CodeDecimal, Kind: KindDecimal}
	String       = &Type{Name: "String", Code: CodeVarchar, Kind: KindString}
	Character    = &Type{Name: "Character", Code: CodeChar, Kind: KindString, Length: 1}
	Clob         = &Type{Name: "Clob", Code: CodeClob, Kind: KindString}
	Boolean      = &Type{Name: "Boolean", Code: CodeBoolean, Kind: KindBool}
	Date         = &Type{Name: "Date", Code: CodeDate, Kind: KindTime}
	Time         = &Type{Name: "Time", Code: CodeTime, Kind: KindTime}
	Timestamp    = &Type{Name: "Timestamp", Code: CodeTimestamp, Kind: KindTime}
	TimestampTZ  = &Type{Name: "OffsetDateTime", Code: CodeTimestampTZ, Kind: KindTime}
	Duration     = &Type{Name: "Duration", Code: CodeInterval, Kind: KindDuration}
	Binary       = &Type{Name: "Binary", Code: CodeBinary, Kind: KindBytes}
	FloatVector  = &Type{Name: "FloatVector", Code: CodeVector, Kind: KindSlice}
	StringArray  = ArrayOf(String)
	IntegerArray = ArrayOf(Integer)
)

// ArrayOf returns an array type with the given element type.
func ArrayOf(elem *Type) *Type {
	return &Type{Name: elem.Name + "[]", Code: CodeArray, Kind: KindSlice, Element: elem}
}

// Varchar returns a bounded varchar type.
func Varchar(length int) *Type {
	return &Type{Name: "String", Code: CodeVarchar, Kind: KindString, Length: length}
}

// Decimal returns a decimal type with the given precision and scale.
func Decimal(precision, scale int) *Type {
	return &Type{Name: "BigDecimal", Code: CodeDecimal, Kind: KindDecimal, Precision: precision, Scale: scale}
}

// String returns a readable name, including length or precision when set.
func (t *Type) String() string {
	if t == nil {
		return "<untyped>"
	}
	switch {
	case t.Length > 0:
		return t.Code.String() + "(" + strconv.Itoa(t.Length) + ")"
	case t.Precision > 0:
		return t.Code.String() + "(" + strconv.Itoa(t.Precision) + "," + strconv.Itoa(t.Scale) + ")"
	}
	return t.Code.String()
}

// IsIntegral reports whether values of the type are whole numbers.
func (t *Type) IsIntegral() bool {
	if t == nil {
		return false
	}
	if t.Kind == KindBigInt || t.Kind.IsIntegral() {
		return true
	}
	switch t.Code {
	case CodeTinyInt, CodeSmallInt, CodeInteger, CodeBigInt:
		return true
	}
	return false
}

// IsNumeric reports whether the type is any number type.
func (t *Type) IsNumeric() bool {
	if t == nil {
		return false
	}
	switch t.Code {
	case CodeTinyInt, CodeSmallInt, CodeInteger, CodeBigInt,
		CodeFloat, CodeReal, CodeDouble, CodeDecimal, CodeNumeric:
		return true
	}
	return false
}

// IsString reports whether the type is a bounded character type.
func (t *Type) IsString() bool {
	if t == nil {
		return false
	}
	switch t.Code {
	case CodeChar, CodeVarchar, CodeNChar, CodeNVarchar:
		return true
	}
	return false
}

// IsStringOrClob reports whether the type is a character type, bounded or not.
func (t *Type) IsStringOrClob() bool {
	return t.IsString() || (t != nil && t.Code == CodeClob)
}

// IsTemporal reports whether the type is a date, time or timestamp.
func (t *Type) IsTemporal() bool {
	if t == nil {
		return false
	}
	switch t.Code {
	case CodeDate, CodeTime, CodeTimestamp, CodeTimestampTZ:
		return true
	}
	return false
}

// IsLob reports whether the type is a large object type.
func (t *Type) IsLob() bool {
	return t != nil && (t.Code == CodeClob || t.Code == CodeBlob)
}

// Family groups type codes that are interchangeable as series bounds.
type Family int

// Type families.
const (
	FamilyOther Family = iota
	FamilyIntegral
	FamilyExact
	FamilyApproximate
	FamilyString
	FamilyTemporal
	FamilyDuration
	FamilyBoolean
)

// Family returns the family of the type.
func (t *Type) Family() Family {
	switch {
	case t == nil:
		return FamilyOther
	case t.IsIntegral():
		return FamilyIntegral
	case t.Code == CodeDecimal || t.Code == CodeNumeric:
		return FamilyExact
	case t.Code == CodeFloat || t.Code == CodeReal || t.Code == CodeDouble:
		return FamilyApproximate
	case t.IsStringOrClob():
		return FamilyString
	case t.IsTemporal():
		return FamilyTemporal
	case t.Code == CodeInterval:
		return FamilyDuration
	case t.Code == CodeBoolean:
		return FamilyBoolean
	}
	return FamilyOther
}
