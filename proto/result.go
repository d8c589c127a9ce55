package proto

import "github.com/go-faster/errors"

// ResultColumn is one column a caller wants decoded out of the server's
// result set, by name, backed by an appendable column.
type ResultColumn struct {
	Name string
	Data ColInput
}

// ResultSet is what DecodeBlock needs from a caller-supplied sink: for
// each wire column (by name and raw type string), either a column to
// decode into, or "not interested" (in which case the block codec skips
// the payload via Registry instead). Result and ColInfoInput are the two
// implementations.
type ResultSet interface {
	resolve(name, typ string) (ColInput, bool)
}

// Result is the ordered set of columns a caller asks the block codec to
// fill in. A column present in the wire block but absent from Result is
// skipped via Registry.Skip rather than decoded.
type Result []ResultColumn

func (r Result) resolve(name, _ string) (ColInput, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Data, true
		}
	}
	return nil, false
}

// ColumnInfo is one discovered (name, type) pair, collected by
// ColInfoInput as DecodeBlock walks a schema block.
type ColumnInfo struct {
	Name string
	Type ColumnType
}

// ColInfoInput discovers a block's column schema without decoding any
// column's values: every column is skipped, and its name/type recorded.
// Used on the INSERT path to learn the server's expected input schema
// (and thus the Enum/DateTime64 parameters needed for Inferable
// columns) from the leading schema block.
type ColInfoInput []ColumnInfo

func (c *ColInfoInput) resolve(name, typ string) (ColInput, bool) {
	*c = append(*c, ColumnInfo{Name: name, Type: ColumnType(typ)})
	return nil, false
}

// AutoResult builds a Result from the server-reported column schema,
// constructing a column via Registry for every entry. Use when the
// caller has not pre-declared typed columns (e.g. ad-hoc SELECT *).
func AutoResult(names, types []string) (Result, error) {
	if len(names) != len(types) {
		return nil, errors.Errorf("result: %d names but %d types", len(names), len(types))
	}
	out := make(Result, len(names))
	for i, name := range names {
		spec, err := ParseColumnType(types[i])
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		col, err := Registry{}.New(spec)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", name)
		}
		ci, ok := col.(ColInput)
		if !ok {
			return nil, errors.Errorf("column %q: %T is not streamable", name, col)
		}
		out[i] = ResultColumn{Name: name, Data: ci}
	}
	return out, nil
}
