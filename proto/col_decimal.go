package proto

import "strconv"

// ColDecimal32/64 are fixed-width scaled integers: the stored integer
// divided by 10^Scale gives the decimal value. Wider Decimal128/256 are
// represented as raw little-endian bytes via FixedBytesColumn since Go
// has no native 128/256-bit integer.
type ColDecimal32 struct {
	*NumericColumn[int32]
	Scale int
}

func NewColDecimal32(scale int) *ColDecimal32 {
	return &ColDecimal32{
		NumericColumn: NewNumericColumn[int32](ColumnTypeDecimal.With("9," + strconv.Itoa(scale))),
		Scale:         scale,
	}
}

type ColDecimal64 struct {
	*NumericColumn[int64]
	Scale int
}

func NewColDecimal64(scale int) *ColDecimal64 {
	return &ColDecimal64{
		NumericColumn: NewNumericColumn[int64](ColumnTypeDecimal.With("18," + strconv.Itoa(scale))),
		Scale:         scale,
	}
}

type ColDecimal128 struct {
	*FixedBytesColumn
	Scale int
}

func NewColDecimal128(scale int) *ColDecimal128 {
	return &ColDecimal128{
		FixedBytesColumn: NewFixedBytesColumn(16, ColumnTypeDecimal.With("38,"+strconv.Itoa(scale))),
		Scale:            scale,
	}
}

type ColDecimal256 struct {
	*FixedBytesColumn
	Scale int
}

func NewColDecimal256(scale int) *ColDecimal256 {
	return &ColDecimal256{
		FixedBytesColumn: NewFixedBytesColumn(32, ColumnTypeDecimal.With("76,"+strconv.Itoa(scale))),
		Scale:            scale,
	}
}

// Float64 renders the i-th Decimal32 row as a float64 approximation.
func (c *ColDecimal32) Float64(i int) float64 {
	return float64(c.Row(i)) / pow10(c.Scale)
}

// Float64 renders the i-th Decimal64 row as a float64 approximation.
func (c *ColDecimal64) Float64(i int) float64 {
	return float64(c.Row(i)) / pow10(c.Scale)
}

func pow10(n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
