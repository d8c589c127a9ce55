package proto

import "github.com/go-faster/errors"

// Numeric is the set of fixed-width scalar Go types the wire codec knows
// how to read and write directly; wider integers (Int128/256, UInt128/256)
// and byte-oriented types (UUID, IPv6, Decimal) have their own
// implementations since they do not map onto a native Go integer.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool
}

// NumericColumn is a generic contiguous, column-major fixed-width column.
// One generic implementation backs every concrete numeric alias
// (ColInt32, ColUInt64, ColFloat64, ColBool, ...) instead of one
// hand-generated file per type.
type NumericColumn[T Numeric] struct {
	data []T
	typ  ColumnType
}

// NewNumericColumn creates a column reporting the given wire type name.
func NewNumericColumn[T Numeric](typ ColumnType) *NumericColumn[T] {
	return &NumericColumn[T]{typ: typ}
}

func (c *NumericColumn[T]) Type() ColumnType { return c.typ }
func (c *NumericColumn[T]) Rows() int        { return len(c.data) }
func (c *NumericColumn[T]) Reset()           { c.data = c.data[:0] }
func (c *NumericColumn[T]) Row(i int) T      { return c.data[i] }
func (c *NumericColumn[T]) Append(v T)       { c.data = append(c.data, v) }

// Raw exposes the underlying slice for bulk ingestion by extractors.
func (c *NumericColumn[T]) Raw() []T { return c.data }

// AppendAll appends a slice of values in one call.
func (c *NumericColumn[T]) AppendAll(v []T) { c.data = append(c.data, v...) }

func (c *NumericColumn[T]) DecodeColumn(r *Reader, rows int) error {
	c.data = make([]T, rows)
	var zero T
	switch any(zero).(type) {
	case int8:
		for i := range c.data {
			v, err := r.Int8()
			if err != nil {
				return errors.Wrap(err, "int8")
			}
			c.data[i] = any(v).(T)
		}
	case uint8:
		for i := range c.data {
			v, err := r.UInt8()
			if err != nil {
				return errors.Wrap(err, "uint8")
			}
			c.data[i] = any(v).(T)
		}
	case bool:
		for i := range c.data {
			v, err := r.Bool()
			if err != nil {
				return errors.Wrap(err, "bool")
			}
			c.data[i] = any(v).(T)
		}
	case int16:
		for i := range c.data {
			v, err := r.Int16()
			if err != nil {
				return errors.Wrap(err, "int16")
			}
			c.data[i] = any(v).(T)
		}
	case uint16:
		for i := range c.data {
			v, err := r.UInt16()
			if err != nil {
				return errors.Wrap(err, "uint16")
			}
			c.data[i] = any(v).(T)
		}
	case int32:
		for i := range c.data {
			v, err := r.Int32()
			if err != nil {
				return errors.Wrap(err, "int32")
			}
			c.data[i] = any(v).(T)
		}
	case uint32:
		for i := range c.data {
			v, err := r.UInt32()
			if err != nil {
				return errors.Wrap(err, "uint32")
			}
			c.data[i] = any(v).(T)
		}
	case int64:
		for i := range c.data {
			v, err := r.Int64()
			if err != nil {
				return errors.Wrap(err, "int64")
			}
			c.data[i] = any(v).(T)
		}
	case uint64:
		for i := range c.data {
			v, err := r.UInt64()
			if err != nil {
				return errors.Wrap(err, "uint64")
			}
			c.data[i] = any(v).(T)
		}
	case float32:
		for i := range c.data {
			v, err := r.Float32()
			if err != nil {
				return errors.Wrap(err, "float32")
			}
			c.data[i] = any(v).(T)
		}
	case float64:
		for i := range c.data {
			v, err := r.Float64()
			if err != nil {
				return errors.Wrap(err, "float64")
			}
			c.data[i] = any(v).(T)
		}
	default:
		return errors.Errorf("proto: unsupported numeric type %T", zero)
	}
	return nil
}

func (c *NumericColumn[T]) EncodeColumn(b *Buffer) {
	if len(c.data) == 0 {
		return
	}
	var zero T
	switch any(zero).(type) {
	case int8:
		for _, v := range c.data {
			b.PutInt8(any(v).(int8))
		}
	case uint8:
		for _, v := range c.data {
			b.PutUInt8(any(v).(uint8))
		}
	case bool:
		for _, v := range c.data {
			b.PutBool(any(v).(bool))
		}
	case int16:
		for _, v := range c.data {
			b.PutInt16(any(v).(int16))
		}
	case uint16:
		for _, v := range c.data {
			b.PutUInt16(any(v).(uint16))
		}
	case int32:
		for _, v := range c.data {
			b.PutInt32(any(v).(int32))
		}
	case uint32:
		for _, v := range c.data {
			b.PutUInt32(any(v).(uint32))
		}
	case int64:
		for _, v := range c.data {
			b.PutInt64(any(v).(int64))
		}
	case uint64:
		for _, v := range c.data {
			b.PutUInt64(any(v).(uint64))
		}
	case float32:
		for _, v := range c.data {
			b.PutFloat32(any(v).(float32))
		}
	case float64:
		for _, v := range c.data {
			b.PutFloat64(any(v).(float64))
		}
	}
}

// WriteColumn streams the column straight into w's scratch buffer.
func (c *NumericColumn[T]) WriteColumn(w *Writer) {
	writeColumnViaBuffer(w, c)
}

// SkipNumeric advances r past rows values of a fixed-width size, reusing
// one size-byte scratch buffer instead of materializing the column; used
// by the type registry's skippers.
func SkipNumeric(r *Reader, rows, size int) error {
	buf := make([]byte, size)
	for i := 0; i < rows; i++ {
		if err := r.ReadFull(buf); err != nil {
			return errors.Wrap(err, "skip numeric")
		}
	}
	return nil
}
