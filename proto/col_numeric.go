package proto

// Concrete numeric column aliases. Each is a full instantiation of
// NumericColumn, not a generic type itself, so ordinary zero-value
// composite literals (var c ColInt32) work exactly like the teacher's
// hand-generated columns.
type (
	ColInt8    = NumericColumn[int8]
	ColInt16   = NumericColumn[int16]
	ColInt32   = NumericColumn[int32]
	ColInt64   = NumericColumn[int64]
	ColUInt8   = NumericColumn[uint8]
	ColUInt16  = NumericColumn[uint16]
	ColUInt32  = NumericColumn[uint32]
	ColUInt64  = NumericColumn[uint64]
	ColFloat32 = NumericColumn[float32]
	ColFloat64 = NumericColumn[float64]
	ColBool    = NumericColumn[bool]
)

func NewColInt8() *ColInt8     { return NewNumericColumn[int8](ColumnTypeInt8) }
func NewColInt16() *ColInt16   { return NewNumericColumn[int16](ColumnTypeInt16) }
func NewColInt32() *ColInt32   { return NewNumericColumn[int32](ColumnTypeInt32) }
func NewColInt64() *ColInt64   { return NewNumericColumn[int64](ColumnTypeInt64) }
func NewColUInt8() *ColUInt8   { return NewNumericColumn[uint8](ColumnTypeUInt8) }
func NewColUInt16() *ColUInt16 { return NewNumericColumn[uint16](ColumnTypeUInt16) }
func NewColUInt32() *ColUInt32 { return NewNumericColumn[uint32](ColumnTypeUInt32) }
func NewColUInt64() *ColUInt64 { return NewNumericColumn[uint64](ColumnTypeUInt64) }
func NewColFloat32() *ColFloat32 { return NewNumericColumn[float32](ColumnTypeFloat32) }
func NewColFloat64() *ColFloat64 { return NewNumericColumn[float64](ColumnTypeFloat64) }
func NewColBool() *ColBool     { return NewNumericColumn[bool](ColumnTypeBool) }
