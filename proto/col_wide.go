package proto

import "strconv"

// ColInt128, ColInt256, ColUInt128, ColUInt256 are little-endian
// fixed-width integers wider than a native Go int64; values are exposed
// as raw bytes since Go has no native 128/256-bit integer type.
type (
	ColInt128  struct{ *FixedBytesColumn }
	ColInt256  struct{ *FixedBytesColumn }
	ColUInt128 struct{ *FixedBytesColumn }
	ColUInt256 struct{ *FixedBytesColumn }
)

func NewColInt128() *ColInt128   { return &ColInt128{NewFixedBytesColumn(16, ColumnTypeInt128)} }
func NewColInt256() *ColInt256   { return &ColInt256{NewFixedBytesColumn(32, ColumnTypeInt256)} }
func NewColUInt128() *ColUInt128 { return &ColUInt128{NewFixedBytesColumn(16, ColumnTypeUInt128)} }
func NewColUInt256() *ColUInt256 { return &ColUInt256{NewFixedBytesColumn(32, ColumnTypeUInt256)} }

// ColFixedStr is FixedString(n): n raw bytes per row, null-padded on
// write when the source is shorter.
type ColFixedStr struct {
	*FixedBytesColumn
}

// NewColFixedStr creates a FixedString(n) column.
func NewColFixedStr(n int) *ColFixedStr {
	return &ColFixedStr{NewFixedBytesColumn(n, ColumnTypeFixedString.With(strconv.Itoa(n)))}
}
