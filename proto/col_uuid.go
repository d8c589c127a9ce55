package proto

import (
	"encoding/binary"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ColUUID stores UUIDs as two little-endian 64-bit halves (high half
// first, then low half) — not the same byte order as uuid.UUID's
// big-endian RFC 4122 representation, so values are converted on both
// read and write.
type ColUUID struct {
	data []uuid.UUID
}

func NewColUUID() *ColUUID { return &ColUUID{} }

func (c *ColUUID) Type() ColumnType   { return ColumnTypeUUID }
func (c *ColUUID) Rows() int          { return len(c.data) }
func (c *ColUUID) Reset()             { c.data = c.data[:0] }
func (c *ColUUID) Row(i int) uuid.UUID { return c.data[i] }
func (c *ColUUID) Append(v uuid.UUID) { c.data = append(c.data, v) }

func (c *ColUUID) DecodeColumn(r *Reader, rows int) error {
	c.data = make([]uuid.UUID, rows)
	for i := 0; i < rows; i++ {
		high, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "uuid high")
		}
		low, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "uuid low")
		}
		c.data[i] = uuidFromHalves(high, low)
	}
	return nil
}

func (c *ColUUID) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		high, low := uuidToHalves(v)
		b.PutUInt64(high)
		b.PutUInt64(low)
	}
}

func (c *ColUUID) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

func uuidToHalves(v uuid.UUID) (high, low uint64) {
	high = binary.BigEndian.Uint64(v[0:8])
	low = binary.BigEndian.Uint64(v[8:16])
	return high, low
}

func uuidFromHalves(high, low uint64) uuid.UUID {
	var v uuid.UUID
	binary.BigEndian.PutUint64(v[0:8], high)
	binary.BigEndian.PutUint64(v[8:16], low)
	return v
}
