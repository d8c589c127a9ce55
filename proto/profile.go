package proto

import "github.com/go-faster/errors"

// Profile carries the fixed six-field ProfileInfo body sent once near
// query completion.
type Profile struct {
	Rows                  uint64
	Blocks                uint64
	Bytes                 uint64
	AppliedLimit          bool
	RowsBeforeLimit       uint64
	CalculatedRowsBeforeLimit bool
}

// Decode reads a ProfileInfo message body.
func (p *Profile) Decode(r *Reader) error {
	rows, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "rows")
	}
	blocks, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "blocks")
	}
	bytes, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "bytes")
	}
	applied, err := r.Bool()
	if err != nil {
		return errors.Wrap(err, "applied_limit")
	}
	rowsBefore, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "rows_before_limit")
	}
	calculated, err := r.Bool()
	if err != nil {
		return errors.Wrap(err, "calculated_rows_before_limit")
	}
	p.Rows, p.Blocks, p.Bytes = rows, blocks, bytes
	p.AppliedLimit, p.RowsBeforeLimit, p.CalculatedRowsBeforeLimit = applied, rowsBefore, calculated
	return nil
}
