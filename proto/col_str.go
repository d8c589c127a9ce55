package proto

import "github.com/go-faster/errors"

// ColStr is the String column: a varint length followed by raw bytes,
// per row.
type ColStr struct {
	data   []byte // flat backing storage for all rows
	offset []int  // cumulative end offset of each row into data
}

func NewColStr() *ColStr { return &ColStr{} }

func (c *ColStr) Type() ColumnType { return ColumnTypeString }
func (c *ColStr) Rows() int        { return len(c.offset) }
func (c *ColStr) Reset() {
	c.data = c.data[:0]
	c.offset = c.offset[:0]
}

// Row returns the i-th row as a string (copies out of the flat buffer).
func (c *ColStr) Row(i int) string {
	start := 0
	if i > 0 {
		start = c.offset[i-1]
	}
	return string(c.data[start:c.offset[i]])
}

// RowBytes returns the i-th row without copying; callers must not retain
// or mutate the slice past the column's next mutation.
func (c *ColStr) RowBytes(i int) []byte {
	start := 0
	if i > 0 {
		start = c.offset[i-1]
	}
	return c.data[start:c.offset[i]]
}

// Append adds one row.
func (c *ColStr) Append(v string) {
	c.data = append(c.data, v...)
	c.offset = append(c.offset, len(c.data))
}

// AppendBytes adds one row from a byte slice, avoiding a string copy at
// the call site.
func (c *ColStr) AppendBytes(v []byte) {
	c.data = append(c.data, v...)
	c.offset = append(c.offset, len(c.data))
}

func (c *ColStr) DecodeColumn(r *Reader, rows int) error {
	c.data = c.data[:0]
	c.offset = make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		n, err := r.Int()
		if err != nil {
			return errors.Wrap(err, "string length")
		}
		if n > 0 {
			start := len(c.data)
			c.data = append(c.data, make([]byte, n)...)
			if err := r.ReadFull(c.data[start:]); err != nil {
				return errors.Wrap(err, "string data")
			}
		}
		c.offset = append(c.offset, len(c.data))
	}
	return nil
}

func (c *ColStr) EncodeColumn(b *Buffer) {
	start := 0
	for _, end := range c.offset {
		b.PutUVarInt(uint64(end - start))
		b.PutRaw(c.data[start:end])
		start = end
	}
}

func (c *ColStr) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// SkipStr advances r past rows length-prefixed strings without
// allocating their contents.
func SkipStr(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		if err := r.TrySkipString(); err != nil {
			return errors.Wrap(err, "skip string")
		}
	}
	return nil
}
