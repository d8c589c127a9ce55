package proto

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Setting is a single query or session setting, transmitted as
// name/value/flags.
type Setting struct {
	Key       string
	Value     any
	Important bool
	Custom    bool
}

func settingValueString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// Encode writes one setting entry: name, flags byte, value string. The
// list is terminated by the caller writing an empty-name entry.
func (s Setting) Encode(b *Buffer) {
	b.PutString(s.Key)
	var flags uint64
	if s.Important {
		flags |= 0x1
	}
	if s.Custom {
		flags |= 0x2
	}
	b.PutUVarInt(flags)
	b.PutString(settingValueString(s.Value))
}

// EncodeSettings writes settings followed by the empty-name terminator.
func EncodeSettings(b *Buffer, settings []Setting) {
	for _, s := range settings {
		s.Encode(b)
	}
	b.PutString("")
}

// Parameter is a typed query parameter (EXPERIMENTAL, protocol >=
// WithParameters).
type Parameter struct {
	Key   string
	Value string
}

// EncodeParameters writes key/value parameter pairs terminated by an
// empty key.
func EncodeParameters(b *Buffer, params []Parameter) {
	for _, p := range params {
		b.PutString(p.Key)
		b.PutString(p.Value)
	}
	b.PutString("")
}

// DecodeParameters is provided for symmetry/testing; the core never reads
// parameters back from the server.
func DecodeParameters(r *Reader) ([]Parameter, error) {
	var out []Parameter
	for {
		k, err := r.Str()
		if err != nil {
			return nil, errors.Wrap(err, "parameter key")
		}
		if k == "" {
			return out, nil
		}
		v, err := r.Str()
		if err != nil {
			return nil, errors.Wrap(err, "parameter value")
		}
		out = append(out, Parameter{Key: k, Value: v})
	}
}
