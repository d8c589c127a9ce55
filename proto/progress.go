package proto

import "github.com/go-faster/errors"

// Progress reports incremental query execution progress.
type Progress struct {
	Rows       uint64
	Bytes      uint64
	TotalRows  uint64
	WroteRows  uint64
	WroteBytes uint64
}

// Decode reads a Progress message body, gating the written_* fields on
// revision strictly (no best-effort partial reads).
func (p *Progress) Decode(r *Reader, revision int) error {
	rows, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "rows")
	}
	bytes, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "bytes")
	}
	p.Rows, p.Bytes = rows, bytes

	total, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "total_rows")
	}
	p.TotalRows = total

	if FeatureTotalRowsInProgress.In(revision) {
		wroteRows, err := r.UVarInt()
		if err != nil {
			return errors.Wrap(err, "wrote_rows")
		}
		wroteBytes, err := r.UVarInt()
		if err != nil {
			return errors.Wrap(err, "wrote_bytes")
		}
		p.WroteRows, p.WroteBytes = wroteRows, wroteBytes
	}
	return nil
}
