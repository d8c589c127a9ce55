package proto

// Column is the common behavior of every column implementation: a
// row-count, wire codec, and self-describing type.
type Column interface {
	Type() ColumnType
	Rows() int
	Reset()
	DecodeColumn(r *Reader, rows int) error
	EncodeColumn(b *Buffer)
}

// ColumnOf is a typed column supporting random-access reads and appends.
type ColumnOf[T any] interface {
	Column
	Row(i int) T
	Append(v T)
}

// ColInput is a column that additionally knows how to stream itself
// directly into a Writer (used on the INSERT/extractor path to avoid
// building an intermediate Buffer for large blocks).
type ColInput interface {
	Column
	WriteColumn(w *Writer)
}

// Inferable is implemented by columns whose concrete wire type (e.g. an
// Enum's width, or a parameterized Decimal) cannot be known until the
// server reports the authoritative schema.
type Inferable interface {
	Infer(t ColumnType) error
}

// writeColumnViaBuffer is the default ColInput.WriteColumn
// implementation for columns that only implement EncodeColumn: encode
// into the writer's own scratch buffer via ChainBuffer.
func writeColumnViaBuffer(w *Writer, c Column) {
	w.ChainBuffer(func(b *Buffer) {
		c.EncodeColumn(b)
	})
}
