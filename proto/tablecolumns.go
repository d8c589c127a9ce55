package proto

import "github.com/go-faster/errors"

// TableColumns is the server's external-table schema notice: a table
// name and a columns-metadata string. The core reads and discards it.
type TableColumns struct {
	Name    string
	Columns string
}

func (t *TableColumns) Decode(r *Reader) error {
	name, err := r.Str()
	if err != nil {
		return errors.Wrap(err, "table name")
	}
	cols, err := r.Str()
	if err != nil {
		return errors.Wrap(err, "columns")
	}
	t.Name, t.Columns = name, cols
	return nil
}
