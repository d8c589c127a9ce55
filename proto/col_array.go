package proto

import "github.com/go-faster/errors"

// ColArr is Array(T): row_count cumulative UInt64 offsets, then the flat
// child column of total length offsets[rows-1].
type ColArr[T any] struct {
	offsets []uint64
	data    ColumnOf[T]
}

// NewArray wraps data as Array(data.Type()).
func NewArray[T any](data ColumnOf[T]) *ColArr[T] {
	return &ColArr[T]{data: data}
}

func (c *ColArr[T]) Type() ColumnType { return ColumnTypeArray.Sub(c.data.Type()) }
func (c *ColArr[T]) Rows() int        { return len(c.offsets) }
func (c *ColArr[T]) Reset() {
	c.offsets = c.offsets[:0]
	c.data.Reset()
}

// Row returns a copy of the i-th row's elements.
func (c *ColArr[T]) Row(i int) []T {
	start := uint64(0)
	if i > 0 {
		start = c.offsets[i-1]
	}
	end := c.offsets[i]
	out := make([]T, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, c.data.Row(int(j)))
	}
	return out
}

// Append adds one array row.
func (c *ColArr[T]) Append(v []T) {
	for _, e := range v {
		c.data.Append(e)
	}
	c.offsets = append(c.offsets, uint64(c.data.Rows()))
}

func (c *ColArr[T]) DecodeColumn(r *Reader, rows int) error {
	c.offsets = make([]uint64, rows)
	for i := 0; i < rows; i++ {
		v, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "array offset")
		}
		c.offsets[i] = v
	}
	total := 0
	if rows > 0 {
		total = int(c.offsets[rows-1])
	}
	if err := c.data.DecodeColumn(r, total); err != nil {
		return errors.Wrap(err, "array elements")
	}
	return nil
}

func (c *ColArr[T]) EncodeColumn(b *Buffer) {
	for _, off := range c.offsets {
		b.PutUInt64(off)
	}
	c.data.EncodeColumn(b)
}

func (c *ColArr[T]) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// SkipArray advances r past an Array(T) column using innerSkip for the
// flat child.
func SkipArray(r *Reader, rows int, innerSkip func(*Reader, int) error) error {
	var last uint64
	for i := 0; i < rows; i++ {
		v, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "skip array offset")
		}
		last = v
	}
	return innerSkip(r, int(last))
}
