package proto

import "github.com/go-faster/errors"

// PartUUIDs lists the data-part UUIDs involved in the query, sent for
// deduplication across replicas; the core reads and discards it.
type PartUUIDs struct {
	UUIDs []string
}

func (p *PartUUIDs) Decode(r *Reader) error {
	n, err := r.UVarInt()
	if err != nil {
		return errors.Wrap(err, "count")
	}
	p.UUIDs = make([]string, n)
	for i := range p.UUIDs {
		s, err := r.Str()
		if err != nil {
			return errors.Wrapf(err, "uuid %d", i)
		}
		p.UUIDs[i] = s
	}
	return nil
}

// ReadTaskRequest is the server's request for the next parallel-replica
// read task. It has no body; this client does not support parallel
// replicas, and the query loop fails the query when one arrives instead
// of answering it.
type ReadTaskRequest struct{}

func (ReadTaskRequest) Decode(*Reader) error { return nil }
