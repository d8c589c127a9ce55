package proto

import "github.com/go-faster/errors"

// keysType is the index-column width, chosen by dictionary size when
// encoding and read off the wire's flags field when decoding.
type keysType byte

const (
	keysUInt8 keysType = iota
	keysUInt16
	keysUInt32
	keysUInt64
)

const (
	lcVersion                = 1
	lcHasAdditionalKeysBit   = 1 << 9
	lcNeedUpdateDictionary   = 1 << 10
	lcIndexTypeMask          = 0xff
)

func keysTypeFor(n int) keysType {
	switch {
	case n <= 1<<8:
		return keysUInt8
	case n <= 1<<16:
		return keysUInt16
	case n <= 1<<32:
		return keysUInt32
	default:
		return keysUInt64
	}
}

// ColLowCardinality is LowCardinality(T): a deduplicated dictionary of T
// plus a per-row index into it, widened from UInt8 to UInt16 to UInt32
// as the dictionary grows past 256 and 65536 entries.
type ColLowCardinality[T comparable] struct {
	dict  ColumnOf[T]
	index []uint64
	byVal map[T]uint64
}

// NewLowCardinality wraps dict (the inner column, empty to start) as
// LowCardinality(dict.Type()).
func NewLowCardinality[T comparable](dict ColumnOf[T]) *ColLowCardinality[T] {
	return &ColLowCardinality[T]{dict: dict, byVal: make(map[T]uint64)}
}

func (c *ColLowCardinality[T]) Type() ColumnType { return ColumnTypeLowCardinality.Sub(c.dict.Type()) }
func (c *ColLowCardinality[T]) Rows() int        { return len(c.index) }

func (c *ColLowCardinality[T]) Reset() {
	c.index = c.index[:0]
	c.dict.Reset()
	c.byVal = make(map[T]uint64)
}

func (c *ColLowCardinality[T]) Row(i int) T { return c.dict.Row(int(c.index[i])) }

// Append adds v, reusing its dictionary slot if already present.
func (c *ColLowCardinality[T]) Append(v T) {
	c.reserveNullSlot()
	idx, ok := c.byVal[v]
	if !ok {
		idx = uint64(c.dict.Rows())
		c.dict.Append(v)
		c.byVal[v] = idx
	}
	c.index = append(c.index, idx)
}

// reserveNullSlot seeds dictionary slot 0 with the inner column's zero
// value before any real entry, per the wire convention that a
// LowCardinality(Nullable(T)) dictionary's first slot stands for NULL.
func (c *ColLowCardinality[T]) reserveNullSlot() {
	if c.dict.Rows() != 0 || !c.dict.Type().IsNullable() {
		return
	}
	var zero T
	c.dict.Append(zero)
	c.byVal[zero] = 0
}

// rebuildByVal repopulates the value->index map from the dictionary, so
// a column just filled by DecodeColumn can still be Appended to with
// correct deduplication against the values it already read off the
// wire.
func (c *ColLowCardinality[T]) rebuildByVal() {
	if c.byVal == nil {
		c.byVal = make(map[T]uint64, c.dict.Rows())
	} else {
		for k := range c.byVal {
			delete(c.byVal, k)
		}
	}
	for i := 0; i < c.dict.Rows(); i++ {
		c.byVal[c.dict.Row(i)] = uint64(i)
	}
}

func (c *ColLowCardinality[T]) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	version, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "lowcardinality version")
	}
	if version != lcVersion {
		return errors.Errorf("lowcardinality: unsupported version %d", version)
	}
	flags, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "lowcardinality flags")
	}
	kt := keysType(flags & lcIndexTypeMask)

	dictSize, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "lowcardinality dict size")
	}
	c.dict.Reset()
	if err := c.dict.DecodeColumn(r, int(dictSize)); err != nil {
		return errors.Wrap(err, "lowcardinality dict")
	}

	idxRows, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "lowcardinality index rows")
	}
	c.index = make([]uint64, idxRows)
	for i := range c.index {
		v, err := readLCIndex(r, kt)
		if err != nil {
			return errors.Wrap(err, "lowcardinality index")
		}
		c.index[i] = v
	}
	c.rebuildByVal()
	return nil
}

func readLCIndex(r *Reader, kt keysType) (uint64, error) {
	switch kt {
	case keysUInt8:
		v, err := r.UInt8()
		return uint64(v), err
	case keysUInt16:
		v, err := r.UInt16()
		return uint64(v), err
	case keysUInt32:
		v, err := r.UInt32()
		return uint64(v), err
	default:
		return r.UInt64()
	}
}

func (c *ColLowCardinality[T]) EncodeColumn(b *Buffer) {
	if len(c.index) == 0 {
		return
	}
	kt := keysTypeFor(c.dict.Rows())
	flags := uint64(kt) | lcHasAdditionalKeysBit | lcNeedUpdateDictionary

	b.PutUInt64(lcVersion)
	b.PutUInt64(flags)
	b.PutUInt64(uint64(c.dict.Rows()))
	c.dict.EncodeColumn(b)
	b.PutUInt64(uint64(len(c.index)))
	for _, idx := range c.index {
		writeLCIndex(b, kt, idx)
	}
}

func writeLCIndex(b *Buffer, kt keysType, v uint64) {
	switch kt {
	case keysUInt8:
		b.PutUInt8(uint8(v))
	case keysUInt16:
		b.PutUInt16(uint16(v))
	case keysUInt32:
		b.PutUInt32(uint32(v))
	default:
		b.PutUInt64(v)
	}
}

func (c *ColLowCardinality[T]) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// SkipLowCardinality advances r past a LowCardinality(T) column using
// dictSkip for the inner dictionary type.
func SkipLowCardinality(r *Reader, rows int, dictSkip func(*Reader, int) error) error {
	if rows == 0 {
		return nil
	}
	if _, err := r.UInt64(); err != nil {
		return errors.Wrap(err, "skip lowcardinality version")
	}
	flags, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "skip lowcardinality flags")
	}
	kt := keysType(flags & lcIndexTypeMask)

	dictSize, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "skip lowcardinality dict size")
	}
	if err := dictSkip(r, int(dictSize)); err != nil {
		return errors.Wrap(err, "skip lowcardinality dict")
	}
	idxRows, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "skip lowcardinality index rows")
	}
	width := 1
	switch kt {
	case keysUInt16:
		width = 2
	case keysUInt32:
		width = 4
	case keysUInt64:
		width = 8
	}
	return r.Discard(int(idxRows) * width)
}
