package proto

import (
	"strings"

	"github.com/go-faster/errors"
)

// ColTuple is Tuple(T1,...,Tn): the concatenation of n independently
// encoded columns sharing one row count. Members are heterogeneous, so
// unlike Array/Map/Nullable this is not expressed with one shared
// generic type parameter; callers type-assert individual Members.
type ColTuple struct {
	Members []Column
}

// NewTuple builds a tuple over the given ordered members.
func NewTuple(members ...Column) *ColTuple {
	return &ColTuple{Members: members}
}

func (c *ColTuple) Type() ColumnType {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = string(m.Type())
	}
	return ColumnTypeTuple.Sub(ColumnType(strings.Join(names, ",")))
}

func (c *ColTuple) Rows() int {
	if len(c.Members) == 0 {
		return 0
	}
	return c.Members[0].Rows()
}

func (c *ColTuple) Reset() {
	for _, m := range c.Members {
		m.Reset()
	}
}

func (c *ColTuple) DecodeColumn(r *Reader, rows int) error {
	for i, m := range c.Members {
		if err := m.DecodeColumn(r, rows); err != nil {
			return errors.Wrapf(err, "tuple member %d", i)
		}
	}
	return nil
}

func (c *ColTuple) EncodeColumn(b *Buffer) {
	for _, m := range c.Members {
		m.EncodeColumn(b)
	}
}

func (c *ColTuple) WriteColumn(w *Writer) { writeColumnViaBuffer(w, c) }

// SkipTuple advances r past a tuple column given skip funcs for each
// member, in order.
func SkipTuple(r *Reader, rows int, members []func(*Reader, int) error) error {
	for i, skip := range members {
		if err := skip(r, rows); err != nil {
			return errors.Wrapf(err, "skip tuple member %d", i)
		}
	}
	return nil
}
