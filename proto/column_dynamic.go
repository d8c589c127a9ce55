package proto

import "github.com/go-faster/errors"

// The types in this file mirror ColArr/ColNullable/ColLowCardinality but
// wrap a plain Column instead of a ColumnOf[T]: when a schema is only
// known at runtime (any result set `Registry.New` builds from the
// server's column-type strings), there is no compile-time T to
// instantiate the generic wrappers with. They trade away the typed
// Row/Append convenience for being buildable from a parsed type string.

type arrayColumn struct {
	offsets []uint64
	elem    Column
}

func newArrayColumn(elem Column) *arrayColumn { return &arrayColumn{elem: elem} }

func (c *arrayColumn) Type() ColumnType { return ColumnTypeArray.Sub(c.elem.Type()) }
func (c *arrayColumn) Rows() int        { return len(c.offsets) }
func (c *arrayColumn) Reset() {
	c.offsets = c.offsets[:0]
	c.elem.Reset()
}
func (c *arrayColumn) DecodeColumn(r *Reader, rows int) error {
	return decodeArrayLike(r, rows, &c.offsets, c.elem)
}
func (c *arrayColumn) EncodeColumn(b *Buffer) { encodeArrayLike(b, c.offsets, c.elem) }
func (c *arrayColumn) WriteColumn(w *Writer)  { writeColumnViaBuffer(w, c) }

func decodeArrayLike(r *Reader, rows int, offsets *[]uint64, elem Column) error {
	*offsets = make([]uint64, rows)
	for i := 0; i < rows; i++ {
		v, err := r.UInt64()
		if err != nil {
			return errors.Wrap(err, "array offset")
		}
		(*offsets)[i] = v
	}
	total := 0
	if rows > 0 {
		total = int((*offsets)[rows-1])
	}
	return elem.DecodeColumn(r, total)
}

func encodeArrayLike(b *Buffer, offsets []uint64, elem Column) {
	for _, off := range offsets {
		b.PutUInt64(off)
	}
	elem.EncodeColumn(b)
}

type nullableColumn struct {
	nulls []bool
	elem  Column
}

func newNullableColumn(elem Column) *nullableColumn { return &nullableColumn{elem: elem} }

func (c *nullableColumn) Type() ColumnType { return ColumnTypeNullable.Sub(c.elem.Type()) }
func (c *nullableColumn) Rows() int        { return len(c.nulls) }
func (c *nullableColumn) Reset() {
	c.nulls = c.nulls[:0]
	c.elem.Reset()
}
func (c *nullableColumn) DecodeColumn(r *Reader, rows int) error {
	c.nulls = make([]bool, rows)
	for i := range c.nulls {
		v, err := r.Bool()
		if err != nil {
			return errors.Wrap(err, "null mask")
		}
		c.nulls[i] = v
	}
	return c.elem.DecodeColumn(r, rows)
}
func (c *nullableColumn) EncodeColumn(b *Buffer) {
	for _, n := range c.nulls {
		b.PutBool(n)
	}
	c.elem.EncodeColumn(b)
}
func (c *nullableColumn) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }
func (c *nullableColumn) IsNull(i int) bool     { return c.nulls[i] }

type lowCardinalityColumn struct {
	dict  Column
	index []uint64
}

func newLowCardinalityColumn(dict Column) *lowCardinalityColumn {
	return &lowCardinalityColumn{dict: dict}
}

func (c *lowCardinalityColumn) Type() ColumnType {
	return ColumnTypeLowCardinality.Sub(c.dict.Type())
}
func (c *lowCardinalityColumn) Rows() int { return len(c.index) }
func (c *lowCardinalityColumn) Reset() {
	c.index = c.index[:0]
	c.dict.Reset()
}
func (c *lowCardinalityColumn) DecodeColumn(r *Reader, rows int) error {
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
	return nil
}
func (c *lowCardinalityColumn) EncodeColumn(b *Buffer) {
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
func (c *lowCardinalityColumn) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// mapColumn is Map(K,V): Array(Tuple(K,V)) on the wire, Map(K,V) in its
// reported type.
type mapColumn struct {
	arr *arrayColumn
	key Column
	val Column
}

func newMapColumn(key, val Column) *mapColumn {
	return &mapColumn{arr: newArrayColumn(NewTuple(key, val)), key: key, val: val}
}

func (c *mapColumn) Type() ColumnType {
	return ColumnTypeMap.Sub(c.key.Type() + "," + c.val.Type())
}
func (c *mapColumn) Rows() int                               { return c.arr.Rows() }
func (c *mapColumn) Reset()                                  { c.arr.Reset() }
func (c *mapColumn) DecodeColumn(r *Reader, rows int) error   { return c.arr.DecodeColumn(r, rows) }
func (c *mapColumn) EncodeColumn(b *Buffer)                  { c.arr.EncodeColumn(b) }
func (c *mapColumn) WriteColumn(w *Writer)                   { writeColumnViaBuffer(w, c) }
