package proto

import "github.com/go-faster/errors"

// NestedField is one member of a Nested(...) column: a flattened name
// and its per-element column.
type NestedField struct {
	Name string
	Data Column
}

// ColNested is sugar over Nested(name1 T1, name2 T2, ...): every field
// is an array with the SAME per-row lengths, so ColNested keeps a single
// offsets slice. On the wire it reads and writes those offsets once,
// followed by each field's flat data in field order (the
// Array(Tuple(...)) shape that Type reports); it does not emit one
// offsets array per field as independent top-level Array columns would.
type ColNested struct {
	offsets []uint64
	Fields  []NestedField
}

// NewNested builds a Nested column from ordered field name/column pairs.
// Each field's Data must start empty; ColNested drives its encoding.
func NewNested(fields ...NestedField) *ColNested {
	return &ColNested{Fields: fields}
}

func (c *ColNested) Type() ColumnType {
	inner := ""
	for i, f := range c.Fields {
		if i > 0 {
			inner += ","
		}
		inner += f.Name + " " + string(f.Data.Type())
	}
	return ColumnTypeArray.Sub(ColumnTypeTuple.Sub(ColumnType(inner)))
}

func (c *ColNested) Rows() int { return len(c.offsets) }

func (c *ColNested) Reset() {
	c.offsets = c.offsets[:0]
	for _, f := range c.Fields {
		f.Data.Reset()
	}
}

// RowLen reports how many nested elements row i has.
func (c *ColNested) RowLen(i int) int {
	start := uint64(0)
	if i > 0 {
		start = c.offsets[i-1]
	}
	return int(c.offsets[i] - start)
}

// AppendLen records the element count of the next row; the caller must
// then Append exactly that many values to every field's Data column.
func (c *ColNested) AppendLen(n int) {
	total := uint64(n)
	if len(c.offsets) > 0 {
		total += c.offsets[len(c.offsets)-1]
	}
	c.offsets = append(c.offsets, total)
}

func (c *ColNested) DecodeColumn(r *Reader, rows int) error {
	c.offsets = make([]uint64, rows)
	for i := 0; i < rows; i++ {
		v, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "nested offset")
		}
		c.offsets[i] = v
	}
	total := 0
	if rows > 0 {
		total = int(c.offsets[rows-1])
	}
	for _, f := range c.Fields {
		if err := f.Data.DecodeColumn(r, total); err != nil {
			return errors.Wrapf(err, "nested field %q", f.Name)
		}
	}
	return nil
}

func (c *ColNested) EncodeColumn(b *Buffer) {
	for _, off := range c.offsets {
		b.PutUInt64(off)
	}
	for _, f := range c.Fields {
		f.Data.EncodeColumn(b)
	}
}

func (c *ColNested) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }
