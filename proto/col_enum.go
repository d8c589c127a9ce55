package proto

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// ColEnum8/16 transmit their underlying signed integer on the wire; the
// label<->value mapping is schema metadata carried client-side only.
type ColEnum8 struct {
	*NumericColumn[int8]
	values map[string]int8
	labels map[int8]string
}

func NewColEnum8(def string) (*ColEnum8, error) {
	values, labels, err := parseEnumDef(def)
	if err != nil {
		return nil, errors.Wrap(err, "enum8")
	}
	v8 := make(map[string]int8, len(values))
	l8 := make(map[int8]string, len(labels))
	for k, v := range values {
		v8[k] = int8(v)
	}
	for k, v := range labels {
		l8[int8(k)] = v
	}
	return &ColEnum8{
		NumericColumn: NewNumericColumn[int8](ColumnTypeEnum8.With(def)),
		values:        v8,
		labels:        l8,
	}, nil
}

// AppendLabel appends a row by its string label.
func (c *ColEnum8) AppendLabel(label string) error {
	v, ok := c.values[label]
	if !ok {
		return errors.Errorf("enum8: unknown label %q", label)
	}
	c.Append(v)
	return nil
}

// Label returns the string label of row i.
func (c *ColEnum8) Label(i int) string { return c.labels[c.Row(i)] }

type ColEnum16 struct {
	*NumericColumn[int16]
	values map[string]int16
	labels map[int16]string
}

func NewColEnum16(def string) (*ColEnum16, error) {
	values, labels, err := parseEnumDef(def)
	if err != nil {
		return nil, errors.Wrap(err, "enum16")
	}
	return &ColEnum16{
		NumericColumn: NewNumericColumn[int16](ColumnTypeEnum16.With(def)),
		values:        values,
		labels:        labels,
	}, nil
}

func (c *ColEnum16) AppendLabel(label string) error {
	v, ok := c.values[label]
	if !ok {
		return errors.Errorf("enum16: unknown label %q", label)
	}
	c.Append(v)
	return nil
}

func (c *ColEnum16) Label(i int) string { return c.labels[c.Row(i)] }

// parseEnumDef parses "'a' = 1, 'b' = 2" into value and reverse maps.
func parseEnumDef(def string) (map[string]int16, map[int16]string, error) {
	values := make(map[string]int16)
	labels := make(map[int16]string)
	for _, part := range splitTopLevel(def, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.LastIndexByte(part, '=')
		if eq < 0 {
			return nil, nil, errors.Errorf("enum: malformed entry %q", part)
		}
		label := unquoteIdent(strings.TrimSpace(part[:eq]))
		n, err := strconv.Atoi(strings.TrimSpace(part[eq+1:]))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "enum value %q", part)
		}
		values[label] = int16(n)
		labels[int16(n)] = label
	}
	return values, labels, nil
}
