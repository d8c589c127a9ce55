package proto

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// ColDate is Date: days since epoch, stored as UInt16.
type ColDate struct {
	*NumericColumn[uint16]
}

func NewColDate() *ColDate { return &ColDate{NewNumericColumn[uint16](ColumnTypeDate)} }

// Time converts row i to a UTC time.Time at midnight.
func (c *ColDate) Time(i int) time.Time {
	return time.Unix(int64(c.Row(i))*86400, 0).UTC()
}

// AppendTime appends a date truncated to day granularity.
func (c *ColDate) AppendTime(t time.Time) {
	days := t.UTC().Unix() / 86400
	c.Append(uint16(days))
}

// ColDate32 is Date32: signed days since epoch (supports pre-1970 dates),
// stored as Int32.
type ColDate32 struct {
	*NumericColumn[int32]
}

func NewColDate32() *ColDate32 { return &ColDate32{NewNumericColumn[int32](ColumnTypeDate32)} }

func (c *ColDate32) Time(i int) time.Time {
	return time.Unix(int64(c.Row(i))*86400, 0).UTC()
}

func (c *ColDate32) AppendTime(t time.Time) {
	days := t.UTC().Unix() / 86400
	c.Append(int32(days))
}

// ColDateTime is DateTime([tz]): seconds since epoch, stored as UInt32.
// The timezone name is schema metadata only; values are always
// UTC-relative integers on the wire.
type ColDateTime struct {
	*NumericColumn[uint32]
	Timezone string
}

func NewColDateTime(tz string) *ColDateTime {
	typ := ColumnTypeDateTime
	if tz != "" {
		typ = typ.With(quoteIdent(tz))
	}
	return &ColDateTime{NumericColumn: NewNumericColumn[uint32](typ), Timezone: tz}
}

func (c *ColDateTime) Time(i int) time.Time {
	return time.Unix(int64(c.Row(i)), 0).UTC()
}

func (c *ColDateTime) AppendTime(t time.Time) {
	c.Append(uint32(t.Unix()))
}

// ColDateTime64 is DateTime64(precision[, tz]): ticks since epoch scaled
// by 10^precision, stored as Int64.
type ColDateTime64 struct {
	*NumericColumn[int64]
	Precision int
	Timezone  string
}

// NewColDateTime64 creates a column with the given sub-second precision
// (0-9) and optional timezone.
func NewColDateTime64(precision int, tz string) *ColDateTime64 {
	args := strconv.Itoa(precision)
	if tz != "" {
		args += "," + quoteIdent(tz)
	}
	return &ColDateTime64{
		NumericColumn: NewNumericColumn[int64](ColumnTypeDateTime64.With(args)),
		Precision:     precision,
		Timezone:      tz,
	}
}

func (c *ColDateTime64) scale() int64 {
	s := int64(1)
	for i := 0; i < c.Precision; i++ {
		s *= 10
	}
	return s
}

func (c *ColDateTime64) Time(i int) time.Time {
	ticks := c.Row(i)
	scale := c.scale()
	sec := ticks / scale
	rem := ticks % scale
	nsec := rem * (1_000_000_000 / scale)
	return time.Unix(sec, nsec).UTC()
}

func (c *ColDateTime64) AppendTime(t time.Time) {
	scale := c.scale()
	ticks := t.Unix()*scale + int64(t.Nanosecond())/(1_000_000_000/scale)
	c.Append(ticks)
}

// Infer adopts the precision/timezone reported by the server schema when
// the client only knew "DateTime64" without parameters.
func (c *ColDateTime64) Infer(t ColumnType) error {
	args := splitTopLevel(t.Args(), ',')
	if len(args) == 0 {
		return errors.Errorf("datetime64: missing precision in %q", t)
	}
	p, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return errors.Wrapf(err, "datetime64 precision %q", args[0])
	}
	c.Precision = p
	if len(args) > 1 {
		c.Timezone = unquoteIdent(args[1])
	}
	return nil
}

func quoteIdent(s string) string { return "'" + s + "'" }
func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
