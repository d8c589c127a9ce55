package proto

import "github.com/go-faster/errors"

// ColNullable wraps an inner ColumnOf[T]: a null mask (one byte per row)
// followed by the inner column, decoded unconditionally for every row
// even where masked as null.
type ColNullable[T any] struct {
	nulls []bool
	data  ColumnOf[T]
}

// NewNullable wraps data as Nullable(data.Type()).
func NewNullable[T any](data ColumnOf[T]) *ColNullable[T] {
	return &ColNullable[T]{data: data}
}

func (c *ColNullable[T]) Type() ColumnType { return ColumnTypeNullable.Sub(c.data.Type()) }
func (c *ColNullable[T]) Rows() int        { return len(c.nulls) }
func (c *ColNullable[T]) Reset() {
	c.nulls = c.nulls[:0]
	c.data.Reset()
}

// IsNull reports whether row i is null.
func (c *ColNullable[T]) IsNull(i int) bool { return c.nulls[i] }

// Row returns the i-th value; when IsNull(i), the zero value of T is
// returned (the inner column's payload for a null row is unspecified by
// the wire format).
func (c *ColNullable[T]) Row(i int) T {
	var zero T
	if c.nulls[i] {
		return zero
	}
	return c.data.Row(i)
}

// Append adds a non-null row.
func (c *ColNullable[T]) Append(v T) {
	c.nulls = append(c.nulls, false)
	c.data.Append(v)
}

// AppendNull adds a null row, padding the inner column with its zero
// value to keep row counts aligned.
func (c *ColNullable[T]) AppendNull() {
	var zero T
	c.nulls = append(c.nulls, true)
	c.data.Append(zero)
}

func (c *ColNullable[T]) DecodeColumn(r *Reader, rows int) error {
	c.nulls = make([]bool, rows)
	for i := 0; i < rows; i++ {
		v, err := r.Bool()
		if err != nil {
			return errors.Wrap(err, "null mask")
		}
		c.nulls[i] = v
	}
	if err := c.data.DecodeColumn(r, rows); err != nil {
		return errors.Wrap(err, "nullable inner")
	}
	return nil
}

func (c *ColNullable[T]) EncodeColumn(b *Buffer) {
	for _, n := range c.nulls {
		b.PutBool(n)
	}
	c.data.EncodeColumn(b)
}

func (c *ColNullable[T]) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// SkipNullable advances r past a Nullable(T) column using innerSkip for
// the wrapped type.
func SkipNullable(r *Reader, rows int, innerSkip func(*Reader, int) error) error {
	if err := SkipNumeric(r, rows, 1); err != nil {
		return errors.Wrap(err, "skip null mask")
	}
	return innerSkip(r, rows)
}
