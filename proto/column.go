package proto

import (
	"strings"
)

// ColumnType is a raw ClickHouse type string, e.g. "Int32",
// "Array(Nullable(String))", "FixedString(16)".
type ColumnType string

// Well-known leaf and composite base type names.
const (
	ColumnTypeNone ColumnType = ""

	ColumnTypeInt8   ColumnType = "Int8"
	ColumnTypeInt16  ColumnType = "Int16"
	ColumnTypeInt32  ColumnType = "Int32"
	ColumnTypeInt64  ColumnType = "Int64"
	ColumnTypeInt128 ColumnType = "Int128"
	ColumnTypeInt256 ColumnType = "Int256"

	ColumnTypeUInt8   ColumnType = "UInt8"
	ColumnTypeUInt16  ColumnType = "UInt16"
	ColumnTypeUInt32  ColumnType = "UInt32"
	ColumnTypeUInt64  ColumnType = "UInt64"
	ColumnTypeUInt128 ColumnType = "UInt128"
	ColumnTypeUInt256 ColumnType = "UInt256"

	ColumnTypeFloat32 ColumnType = "Float32"
	ColumnTypeFloat64 ColumnType = "Float64"
	ColumnTypeBool    ColumnType = "Bool"
	ColumnTypeString  ColumnType = "String"

	ColumnTypeFixedString ColumnType = "FixedString"
	ColumnTypeDate        ColumnType = "Date"
	ColumnTypeDate32      ColumnType = "Date32"
	ColumnTypeDateTime    ColumnType = "DateTime"
	ColumnTypeDateTime64  ColumnType = "DateTime64"
	ColumnTypeUUID        ColumnType = "UUID"
	ColumnTypeIPv4        ColumnType = "IPv4"
	ColumnTypeIPv6        ColumnType = "IPv6"

	ColumnTypeDecimal32  ColumnType = "Decimal32"
	ColumnTypeDecimal64  ColumnType = "Decimal64"
	ColumnTypeDecimal128 ColumnType = "Decimal128"
	ColumnTypeDecimal256 ColumnType = "Decimal256"
	ColumnTypeDecimal    ColumnType = "Decimal"

	ColumnTypeEnum8  ColumnType = "Enum8"
	ColumnTypeEnum16 ColumnType = "Enum16"

	ColumnTypeJSON ColumnType = "JSON"

	ColumnTypeNullable       ColumnType = "Nullable"
	ColumnTypeArray          ColumnType = "Array"
	ColumnTypeMap            ColumnType = "Map"
	ColumnTypeTuple          ColumnType = "Tuple"
	ColumnTypeLowCardinality ColumnType = "LowCardinality"
	ColumnTypeNested         ColumnType = "Nested"
)

func (c ColumnType) String() string { return string(c) }

// Base returns the type name without its parenthesized arguments.
func (c ColumnType) Base() ColumnType {
	s := string(c)
	if i := strings.IndexByte(s, '('); i >= 0 {
		return ColumnType(s[:i])
	}
	return c
}

// Args returns the raw parenthesized argument text, without the parens.
func (c ColumnType) Args() string {
	s := string(c)
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return ""
	}
	return s[i+1 : len(s)-1]
}

// With wraps c as Base(arg), e.g. ColumnTypeFixedString.With("16").
func (c ColumnType) With(arg string) ColumnType {
	return ColumnType(string(c) + "(" + arg + ")")
}

// Sub wraps c as Base(inner), for composite types parameterized by
// another ColumnType, e.g. ColumnTypeArray.Sub(ColumnTypeInt32).
func (c ColumnType) Sub(inner ColumnType) ColumnType {
	return c.With(string(inner))
}

// Array returns Array(c).
func (c ColumnType) Array() ColumnType {
	return ColumnTypeArray.Sub(c)
}

// Nullable returns Nullable(c).
func (c ColumnType) Nullable() ColumnType {
	return ColumnTypeNullable.Sub(c)
}

// LowCardinality returns LowCardinality(c).
func (c ColumnType) LowCardinality() ColumnType {
	return ColumnTypeLowCardinality.Sub(c)
}

// IsArray reports whether c's base type is Array.
func (c ColumnType) IsArray() bool { return c.Base() == ColumnTypeArray }

// IsNullable reports whether c's base type is Nullable.
func (c ColumnType) IsNullable() bool { return c.Base() == ColumnTypeNullable }

// IsLowCardinality reports whether c's base type is LowCardinality.
func (c ColumnType) IsLowCardinality() bool { return c.Base() == ColumnTypeLowCardinality }

// Elem returns the inner type of a single-argument composite (Array,
// Nullable, LowCardinality); ColumnTypeNone for anything else.
func (c ColumnType) Elem() ColumnType {
	switch c.Base() {
	case ColumnTypeArray, ColumnTypeNullable, ColumnTypeLowCardinality:
		return ColumnType(c.Args())
	default:
		return ColumnTypeNone
	}
}

func normalizeArgs(s string) string {
	parts := splitTopLevel(s, ',')
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(parts, ",")
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// parentheses or quotes.
func splitTopLevel(s string, sep byte) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// decimalPrecision maps the fixed-width Decimal aliases to their implied
// precision, used by Conflicts to treat Decimal256 and Decimal(76,*) as
// the same family.
func decimalPrecision(base ColumnType) (int, bool) {
	switch base {
	case ColumnTypeDecimal32:
		return 9, true
	case ColumnTypeDecimal64:
		return 18, true
	case ColumnTypeDecimal128:
		return 38, true
	case ColumnTypeDecimal256:
		return 76, true
	default:
		return 0, false
	}
}

// Conflicts reports whether c and other describe provably incompatible
// wire representations. It is a tolerant comparison: cosmetic differences
// (whitespace in Map/Tuple args, timezone argument on DateTime, the
// presence/absence of an Enum's label definition, equivalent Decimal
// spellings) are not conflicts, since they all serialize identically.
func (c ColumnType) Conflicts(other ColumnType) bool {
	a, b := c, other
	if a == b {
		return false
	}
	ab, bb := a.Base(), b.Base()

	switch {
	case ab == ColumnTypeEnum8 && (bb == ColumnTypeEnum8 || b == ColumnTypeInt8):
		return false
	case bb == ColumnTypeEnum8 && (ab == ColumnTypeEnum8 || a == ColumnTypeInt8):
		return false
	case ab == ColumnTypeEnum16 && (bb == ColumnTypeEnum16 || b == ColumnTypeInt16):
		return false
	case bb == ColumnTypeEnum16 && (ab == ColumnTypeEnum16 || a == ColumnTypeInt16):
		return false
	}

	if pa, ok := decimalFamily(a); ok {
		if pb, ok2 := decimalFamily(b); ok2 {
			return pa != pb
		}
	}

	if ab == ColumnTypeDateTime && bb == ColumnTypeDateTime {
		return false
	}

	if ab != bb {
		return true
	}

	aArgs, bArgs := a.Args(), b.Args()
	if aArgs == "" || bArgs == "" {
		return false
	}

	switch ab {
	case ColumnTypeArray, ColumnTypeNullable, ColumnTypeLowCardinality:
		return ColumnType(aArgs).Conflicts(ColumnType(bArgs))
	case ColumnTypeMap, ColumnTypeTuple:
		pa := splitTopLevel(aArgs, ',')
		pb := splitTopLevel(bArgs, ',')
		if len(pa) != len(pb) {
			return true
		}
		for i := range pa {
			if ColumnType(strings.TrimSpace(pa[i])).Conflicts(ColumnType(strings.TrimSpace(pb[i]))) {
				return true
			}
		}
		return false
	default:
		return normalizeArgs(aArgs) != normalizeArgs(bArgs)
	}
}

// decimalFamily resolves a Decimal-like type (DecimalNNN or Decimal(P,S))
// to its precision class, for Conflicts.
func decimalFamily(t ColumnType) (int, bool) {
	base := t.Base()
	if p, ok := decimalPrecision(base); ok {
		return p, true
	}
	if base == ColumnTypeDecimal {
		args := splitTopLevel(t.Args(), ',')
		if len(args) > 0 {
			p := strings.TrimSpace(args[0])
			switch p {
			case "9":
				return 9, true
			case "18":
				return 18, true
			case "38":
				return 38, true
			case "76":
				return 76, true
			}
		}
	}
	return 0, false
}
