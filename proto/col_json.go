package proto

import "github.com/go-faster/errors"

// ColJSON is the experimental JSON type (server >= 25.6): each row is a
// length-prefixed UTF-8 document. The core hands back raw bytes; parsing
// is a caller concern.
type ColJSON struct {
	data   []byte
	offset []int
}

func NewColJSON() *ColJSON { return &ColJSON{} }

func (c *ColJSON) Type() ColumnType { return ColumnTypeJSON }
func (c *ColJSON) Rows() int        { return len(c.offset) }
func (c *ColJSON) Reset() {
	c.data = c.data[:0]
	c.offset = c.offset[:0]
}

func (c *ColJSON) Row(i int) []byte {
	start := 0
	if i > 0 {
		start = c.offset[i-1]
	}
	return c.data[start:c.offset[i]]
}

func (c *ColJSON) Append(doc []byte) {
	c.data = append(c.data, doc...)
	c.offset = append(c.offset, len(c.data))
}

func (c *ColJSON) DecodeColumn(r *Reader, rows int) error {
	c.data = c.data[:0]
	c.offset = make([]int, 0, rows)
	for i := 0; i < rows; i++ {
		n, err := r.Int()
		if err != nil {
			return errors.Wrap(err, "json length")
		}
		start := len(c.data)
		if n > 0 {
			c.data = append(c.data, make([]byte, n)...)
			if err := r.ReadFull(c.data[start:]); err != nil {
				return errors.Wrap(err, "json data")
			}
		}
		c.offset = append(c.offset, len(c.data))
	}
	return nil
}

func (c *ColJSON) EncodeColumn(b *Buffer) {
	start := 0
	for _, end := range c.offset {
		b.PutUVarInt(uint64(end - start))
		b.PutRaw(c.data[start:end])
		start = end
	}
}

func (c *ColJSON) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }
