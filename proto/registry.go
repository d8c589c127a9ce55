package proto

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// TypeSpec is a parsed column type, ready for Registry.New/Skip. Parsing
// itself stays lazy: ColumnType's Base/Args/Elem already do the
// structural work incrementally, so TypeSpec is a thin, named wrapper
// rather than a duplicate AST.
type TypeSpec struct {
	Raw ColumnType
}

// ParseColumnType parses a server-reported type string such as
// "Array(Nullable(String))" into a TypeSpec.
func ParseColumnType(spec string) (TypeSpec, error) {
	t := ColumnType(strings.TrimSpace(spec))
	if t == "" {
		return TypeSpec{}, errors.New("column type: empty")
	}
	return TypeSpec{Raw: t}, nil
}

// Registry builds and skips columns from parsed type specs, covering
// every leaf and composite type this package implements.
type Registry struct{}

// New constructs an empty, appendable column for spec.
func (Registry) New(spec TypeSpec) (Column, error) { return newColumn(spec.Raw) }

// Skip advances r past rows rows of a column typed spec, without
// materializing it. Used on the read path for result columns the caller
// did not ask for.
func (Registry) Skip(r *Reader, spec TypeSpec, rows int) error { return skipColumn(r, spec.Raw, rows) }

func newColumn(t ColumnType) (Column, error) {
	base := t.Base()
	switch base {
	case ColumnTypeInt8:
		return NewColInt8(), nil
	case ColumnTypeInt16:
		return NewColInt16(), nil
	case ColumnTypeInt32:
		return NewColInt32(), nil
	case ColumnTypeInt64:
		return NewColInt64(), nil
	case ColumnTypeUInt8:
		return NewColUInt8(), nil
	case ColumnTypeUInt16:
		return NewColUInt16(), nil
	case ColumnTypeUInt32:
		return NewColUInt32(), nil
	case ColumnTypeUInt64:
		return NewColUInt64(), nil
	case ColumnTypeFloat32:
		return NewColFloat32(), nil
	case ColumnTypeFloat64:
		return NewColFloat64(), nil
	case ColumnTypeBool:
		return NewColBool(), nil
	case ColumnTypeString:
		return NewColStr(), nil
	case ColumnTypeInt128:
		return NewColInt128(), nil
	case ColumnTypeInt256:
		return NewColInt256(), nil
	case ColumnTypeUInt128:
		return NewColUInt128(), nil
	case ColumnTypeUInt256:
		return NewColUInt256(), nil
	case ColumnTypeUUID:
		return NewColUUID(), nil
	case ColumnTypeIPv4:
		return NewColIPv4(), nil
	case ColumnTypeIPv6:
		return NewColIPv6(), nil
	case ColumnTypeDate:
		return NewColDate(), nil
	case ColumnTypeDate32:
		return NewColDate32(), nil
	case ColumnTypeJSON:
		return NewColJSON(), nil

	case ColumnTypeFixedString:
		n, err := strconv.Atoi(strings.TrimSpace(t.Args()))
		if err != nil {
			return nil, errors.Wrapf(err, "fixedstring length %q", t)
		}
		return NewColFixedStr(n), nil

	case ColumnTypeDateTime:
		return NewColDateTime(unquoteIdent(t.Args())), nil

	case ColumnTypeDateTime64:
		args := splitTopLevel(t.Args(), ',')
		if len(args) == 0 {
			return nil, errors.Errorf("datetime64: missing precision in %q", t)
		}
		p, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "datetime64 precision %q", t)
		}
		tz := ""
		if len(args) > 1 {
			tz = unquoteIdent(args[1])
		}
		return NewColDateTime64(p, tz), nil

	case ColumnTypeDecimal:
		args := splitTopLevel(t.Args(), ',')
		if len(args) != 2 {
			return nil, errors.Errorf("decimal: expected precision,scale in %q", t)
		}
		p, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "decimal precision %q", t)
		}
		s, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return nil, errors.Wrapf(err, "decimal scale %q", t)
		}
		switch {
		case p <= 9:
			return NewColDecimal32(s), nil
		case p <= 18:
			return NewColDecimal64(s), nil
		case p <= 38:
			return NewColDecimal128(s), nil
		default:
			return NewColDecimal256(s), nil
		}
	case ColumnTypeDecimal32:
		return NewColDecimal32(0), nil
	case ColumnTypeDecimal64:
		return NewColDecimal64(0), nil
	case ColumnTypeDecimal128:
		return NewColDecimal128(0), nil
	case ColumnTypeDecimal256:
		return NewColDecimal256(0), nil

	case ColumnTypeEnum8:
		return NewColEnum8(t.Args())
	case ColumnTypeEnum16:
		return NewColEnum16(t.Args())

	case ColumnTypeArray:
		inner, err := newColumn(ColumnType(t.Args()))
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}
		return newArrayColumn(inner), nil

	case ColumnTypeNullable:
		inner, err := newColumn(ColumnType(t.Args()))
		if err != nil {
			return nil, errors.Wrap(err, "nullable element")
		}
		return newNullableColumn(inner), nil

	case ColumnTypeLowCardinality:
		inner, err := newColumn(ColumnType(t.Args()))
		if err != nil {
			return nil, errors.Wrap(err, "lowcardinality element")
		}
		return newLowCardinalityColumn(inner), nil

	case ColumnTypeMap:
		parts := splitTopLevel(t.Args(), ',')
		if len(parts) != 2 {
			return nil, errors.Errorf("map: expected key,value in %q", t)
		}
		key, err := newColumn(ColumnType(strings.TrimSpace(parts[0])))
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}
		val, err := newColumn(ColumnType(strings.TrimSpace(parts[1])))
		if err != nil {
			return nil, errors.Wrap(err, "map value")
		}
		return newMapColumn(key, val), nil

	case ColumnTypeTuple:
		parts := splitTopLevel(t.Args(), ',')
		members := make([]Column, 0, len(parts))
		for _, p := range parts {
			m, err := newColumn(ColumnType(strings.TrimSpace(p)))
			if err != nil {
				return nil, errors.Wrap(err, "tuple member")
			}
			members = append(members, m)
		}
		return NewTuple(members...), nil

	case ColumnTypeNested:
		fields, err := parseNestedFields(t.Args())
		if err != nil {
			return nil, errors.Wrap(err, "nested")
		}
		return NewNested(fields...), nil

	default:
		return nil, errors.Errorf("column type: unsupported %q", t)
	}
}

// parseNestedFields parses "name1 Type1, name2 Type2" into NestedFields,
// each backed by an empty column of its declared (non-Array) type.
func parseNestedFields(args string) ([]NestedField, error) {
	var fields []NestedField
	for _, part := range splitTopLevel(args, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sp := strings.IndexByte(part, ' ')
		if sp < 0 {
			return nil, errors.Errorf("nested: malformed field %q", part)
		}
		name := part[:sp]
		typ := strings.TrimSpace(part[sp+1:])
		col, err := newColumn(ColumnType(typ))
		if err != nil {
			return nil, errors.Wrapf(err, "nested field %q", name)
		}
		fields = append(fields, NestedField{Name: name, Data: col})
	}
	return fields, nil
}

func skipColumn(r *Reader, t ColumnType, rows int) error {
	base := t.Base()
	switch base {
	case ColumnTypeInt8, ColumnTypeUInt8, ColumnTypeBool, ColumnTypeEnum8:
		return SkipNumeric(r, rows, 1)
	case ColumnTypeInt16, ColumnTypeUInt16, ColumnTypeEnum16, ColumnTypeDate:
		return SkipNumeric(r, rows, 2)
	case ColumnTypeInt32, ColumnTypeUInt32, ColumnTypeFloat32, ColumnTypeDate32,
		ColumnTypeDateTime, ColumnTypeIPv4:
		return SkipNumeric(r, rows, 4)
	case ColumnTypeInt64, ColumnTypeUInt64, ColumnTypeFloat64, ColumnTypeDateTime64,
		ColumnTypeDecimal64:
		return SkipNumeric(r, rows, 8)
	case ColumnTypeInt128, ColumnTypeUInt128, ColumnTypeIPv6, ColumnTypeUUID, ColumnTypeDecimal128:
		return SkipFixedBytes(r, rows, 16)
	case ColumnTypeInt256, ColumnTypeUInt256, ColumnTypeDecimal256:
		return SkipFixedBytes(r, rows, 32)
	case ColumnTypeDecimal32:
		return SkipNumeric(r, rows, 4)
	case ColumnTypeString, ColumnTypeJSON:
		return SkipStr(r, rows)
	case ColumnTypeFixedString:
		n, err := strconv.Atoi(strings.TrimSpace(t.Args()))
		if err != nil {
			return errors.Wrapf(err, "skip fixedstring length %q", t)
		}
		return SkipFixedBytes(r, rows, n)
	case ColumnTypeDecimal:
		args := splitTopLevel(t.Args(), ',')
		if len(args) != 2 {
			return errors.Errorf("skip decimal: expected precision,scale in %q", t)
		}
		p, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return errors.Wrapf(err, "skip decimal precision %q", t)
		}
		switch {
		case p <= 9:
			return SkipNumeric(r, rows, 4)
		case p <= 18:
			return SkipNumeric(r, rows, 8)
		case p <= 38:
			return SkipFixedBytes(r, rows, 16)
		default:
			return SkipFixedBytes(r, rows, 32)
		}

	case ColumnTypeArray:
		inner := ColumnType(t.Args())
		return SkipArray(r, rows, func(r *Reader, n int) error { return skipColumn(r, inner, n) })
	case ColumnTypeNullable:
		inner := ColumnType(t.Args())
		return SkipNullable(r, rows, func(r *Reader, n int) error { return skipColumn(r, inner, n) })
	case ColumnTypeLowCardinality:
		inner := ColumnType(t.Args())
		return SkipLowCardinality(r, rows, func(r *Reader, n int) error { return skipColumn(r, inner, n) })
	case ColumnTypeMap:
		parts := splitTopLevel(t.Args(), ',')
		if len(parts) != 2 {
			return errors.Errorf("skip map: expected key,value in %q", t)
		}
		tuple := ColumnTypeTuple.Sub(ColumnType(strings.TrimSpace(parts[0]) + "," + strings.TrimSpace(parts[1])))
		return SkipArray(r, rows, func(r *Reader, n int) error { return skipColumn(r, tuple, n) })
	case ColumnTypeTuple:
		parts := splitTopLevel(t.Args(), ',')
		funcs := make([]func(*Reader, int) error, 0, len(parts))
		for _, p := range parts {
			inner := ColumnType(strings.TrimSpace(p))
			funcs = append(funcs, func(r *Reader, n int) error { return skipColumn(r, inner, n) })
		}
		return SkipTuple(r, rows, funcs)
	case ColumnTypeNested:
		fields, err := parseNestedFields(t.Args())
		if err != nil {
			return errors.Wrap(err, "skip nested")
		}
		var last uint64
		for i := 0; i < rows; i++ {
			v, err := r.UInt64()
			if err != nil {
				return errors.Wrap(err, "skip nested offset")
			}
			last = v
		}
		for _, f := range fields {
			if err := skipColumn(r, f.Data.Type(), int(last)); err != nil {
				return errors.Wrapf(err, "skip nested field %q", f.Name)
			}
		}
		return nil

	default:
		return errors.Errorf("column type: cannot skip %q", t)
	}
}
