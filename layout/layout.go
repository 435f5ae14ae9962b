// Package layout compiles a declarative per-catalog column table into an
// extraction driver.
//
// A layout is a TOML document enumerating, per column, where the value
// lives in the record and how to parse it. It replaces per-catalog
// generated code: the same driver binary converts any catalog given its
// layout file.
//
//	record_size = 0        # one record per line; >0 reads fixed byte blocks
//	auto_null = "N/A"      # optional sentinel applied to every column
//
//	[[column]]
//	name = "ra"
//	kind = "double"
//	start = 0
//	length = 12
//	scale = { offset = 0.0, factor = 2.77777777777e-4 }
//
//	[[column]]
//	name = "epoch"
//	kind = "double"
//	start = 12
//	length = 14
//	julian = true          # fractional julian day, convert to datetime
//
//	[[column]]
//	name = "flag"
//	kind = "char"
//	at = 26                # single byte position, no copying
//
// Delimited catalogs set split to the separator instead of spans; columns
// then consume one token each, in order, parsed with the format-driven scan
// (which has no implicit null — only sentinels map to null).
package layout

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/catcopy/catcopy/dump"
	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
	"github.com/catcopy/catcopy/parse"
	"github.com/catcopy/catcopy/transform"
)

// Scale describes a linear rescale applied after parsing.
type Scale struct {
	Offset float64 `toml:"offset"`
	Factor float64 `toml:"factor"`
}

// Column describes one output column of the catalog.
type Column struct {
	Name   string `toml:"name"`
	Kind   string `toml:"kind"`
	Start  int    `toml:"start"`
	Length int    `toml:"length"`
	At     *int   `toml:"at"`
	Null   string `toml:"null"`
	Format string `toml:"format"`
	Scale  *Scale `toml:"scale"`
	Julian bool   `toml:"julian"`
}

// Table describes one catalog: the record shape and its columns.
type Table struct {
	RecordSize int      `toml:"record_size"`
	Split      string   `toml:"split"`
	AutoNull   string   `toml:"auto_null"`
	Columns    []Column `toml:"column"`
}

// Parse reads and validates a layout document.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBadLayout, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// Load reads and validates a layout file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Arity returns the fixed number of fields per row.
func (t *Table) Arity() int {
	return len(t.Columns)
}

// RunnerOptions returns the dump options implied by the record shape.
func (t *Table) RunnerOptions() []dump.Option {
	if t.RecordSize > 0 {
		return []dump.Option{dump.WithFixedRecordSize(t.RecordSize)}
	}

	return nil
}

var kindNames = map[string]field.Kind{
	"bool":     field.KindBool,
	"char":     field.KindChar,
	"short":    field.KindShort,
	"int":      field.KindInt,
	"bigint":   field.KindBigInt,
	"float":    field.KindFloat,
	"double":   field.KindDouble,
	"text":     field.KindText,
	"jdate":    field.KindJulianDate,
	"date":     field.KindDate,
	"datetime": field.KindDateTime,
}

func layoutErr(col *Column, format string, args ...any) error {
	return fmt.Errorf("%w: column %q: %s", errs.ErrBadLayout, col.Name, fmt.Sprintf(format, args...))
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: no columns", errs.ErrBadLayout)
	}
	if t.Split != "" && t.RecordSize > 0 {
		return fmt.Errorf("%w: split and record_size are mutually exclusive", errs.ErrBadLayout)
	}
	if t.RecordSize < 0 {
		return fmt.Errorf("%w: record_size %d", errs.ErrBadLayout, t.RecordSize)
	}

	for i := range t.Columns {
		if err := t.validateColumn(&t.Columns[i]); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) validateColumn(c *Column) error {
	if c.Name == "" {
		return fmt.Errorf("%w: column %d has no name", errs.ErrBadLayout, t.indexOf(c))
	}
	kind, ok := kindNames[c.Kind]
	if !ok {
		return layoutErr(c, "unknown kind %q", c.Kind)
	}

	timeKind := kind == field.KindDate || kind == field.KindDateTime
	if timeKind && c.Format == "" {
		return layoutErr(c, "kind %s needs a format", c.Kind)
	}
	if !timeKind && c.Format != "" {
		return layoutErr(c, "format is only valid for date and datetime")
	}
	if c.Julian && kind != field.KindDouble {
		return layoutErr(c, "julian is only valid for double")
	}
	if c.Scale != nil {
		switch kind {
		case field.KindInt, field.KindFloat, field.KindDouble:
		default:
			return layoutErr(c, "scale is only valid for int, float and double")
		}
	}

	if t.Split != "" {
		if c.At != nil || c.Start != 0 || c.Length != 0 {
			return layoutErr(c, "split layouts take tokens in order, not spans")
		}
		if kind == field.KindBool {
			return layoutErr(c, "bool cannot be scanned from a token")
		}

		return nil
	}

	byteKind := kind == field.KindChar || kind == field.KindBool
	if byteKind {
		if c.At == nil {
			return layoutErr(c, "kind %s needs a byte position (at)", c.Kind)
		}
		if *c.At < 0 {
			return layoutErr(c, "byte position %d", *c.At)
		}
		if c.Length != 0 || c.Start != 0 {
			return layoutErr(c, "kind %s takes at, not a span", c.Kind)
		}

		return nil
	}

	if c.At != nil {
		return layoutErr(c, "at is only valid for char and bool")
	}
	if c.Start < 0 || c.Length <= 0 {
		return layoutErr(c, "bad span start=%d length=%d", c.Start, c.Length)
	}
	if t.RecordSize > 0 && c.Start+c.Length > t.RecordSize {
		return layoutErr(c, "span [%d,%d) exceeds record size %d", c.Start, c.Start+c.Length, t.RecordSize)
	}

	return nil
}

func (t *Table) indexOf(c *Column) int {
	for i := range t.Columns {
		if &t.Columns[i] == c {
			return i
		}
	}

	return -1
}

// sentinel returns the null literal in effect for the column.
func (t *Table) sentinel(c *Column) string {
	if c.Null != "" {
		return c.Null
	}

	return t.AutoNull
}

// Extractor compiles the table into an extraction driver. The returned
// extractor reuses its field slice across records; each row must be encoded
// before the next Extract call, which is the dump runner's contract.
func (t *Table) Extractor() (dump.Extractor, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	if t.Split != "" {
		return t.splitExtractor()
	}

	return t.spanExtractor()
}

func (t *Table) spanExtractor() (dump.Extractor, error) {
	cols := make([]func(record []byte) (field.Field, error), 0, len(t.Columns))
	for i := range t.Columns {
		fn, err := t.compileSpan(&t.Columns[i])
		if err != nil {
			return nil, err
		}
		cols = append(cols, fn)
	}

	fields := make([]field.Field, len(cols))

	return dump.NewExtractor(len(cols), func(record []byte) ([]field.Field, error) {
		for i, fn := range cols {
			f, err := fn(record)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}

		return fields, nil
	}), nil
}

func (t *Table) splitExtractor() (dump.Extractor, error) {
	cols := make([]func(token []byte) (field.Field, error), 0, len(t.Columns))
	for i := range t.Columns {
		fn, err := t.compileToken(&t.Columns[i])
		if err != nil {
			return nil, err
		}
		cols = append(cols, fn)
	}

	sep := []byte(t.Split)
	fields := make([]field.Field, len(cols))

	return dump.NewExtractor(len(cols), func(record []byte) ([]field.Field, error) {
		tokens := bytes.Split(record, sep)
		if len(tokens) < len(cols) {
			return nil, fmt.Errorf("%w: %d tokens, layout needs %d", errs.ErrBadRecord, len(tokens), len(cols))
		}
		for i, fn := range cols {
			f, err := fn(tokens[i])
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}

		return fields, nil
	}), nil
}

// compileSpan builds the parser closure for one column in line or
// fixed-record mode.
func (t *Table) compileSpan(c *Column) (func(record []byte) (field.Field, error), error) {
	kind := kindNames[c.Kind]
	name := c.Name
	start, length := c.Start, c.Length
	sentinel := t.sentinel(c)

	var base func(record []byte) (field.Field, error)
	switch kind {
	case field.KindChar:
		at := *c.At
		base = func(record []byte) (field.Field, error) {
			return parse.Char(record, at), nil
		}
	case field.KindBool:
		at := *c.At
		base = func(record []byte) (field.Field, error) {
			return parse.BlankBool(record, at), nil
		}
	case field.KindShort:
		base = func(record []byte) (field.Field, error) {
			return parse.ShortWithNull(record, start, length, name, sentinel)
		}
	case field.KindInt:
		base = func(record []byte) (field.Field, error) {
			return parse.IntWithNull(record, start, length, name, sentinel)
		}
	case field.KindBigInt:
		base = func(record []byte) (field.Field, error) {
			return parse.BigIntWithNull(record, start, length, name, sentinel)
		}
	case field.KindFloat:
		base = func(record []byte) (field.Field, error) {
			return parse.FloatWithNull(record, start, length, name, sentinel)
		}
	case field.KindDouble:
		base = func(record []byte) (field.Field, error) {
			return parse.DoubleWithNull(record, start, length, name, sentinel)
		}
	case field.KindText:
		base = func(record []byte) (field.Field, error) {
			return parse.TextWithNull(record, start, length, sentinel), nil
		}
	case field.KindJulianDate:
		base = func(record []byte) (field.Field, error) {
			tok := parse.Extract(record, start, length)
			if len(tok) == 0 || (sentinel != "" && string(tok) == sentinel) {
				return field.Null(), nil
			}
			v, err := strconv.ParseFloat(string(tok), 64)
			if err != nil {
				return field.Null(), fmt.Errorf("%w: invalid julian epoch literal %q for field %s",
					errs.ErrBadLiteral, tok, name)
			}

			return field.JulianDate(v), nil
		}
	case field.KindDate, field.KindDateTime:
		format := c.Format
		base = func(record []byte) (field.Field, error) {
			tok := parse.Extract(record, start, length)
			if sentinel != "" && string(tok) == sentinel {
				return field.Null(), nil
			}

			return parse.ScanTime(kind, tok, format, name)
		}
	default:
		return nil, layoutErr(c, "unknown kind %q", c.Kind)
	}

	return t.wrapTransforms(c, base), nil
}

// compileToken builds the parser closure for one column in split mode.
func (t *Table) compileToken(c *Column) (func(token []byte) (field.Field, error), error) {
	kind := kindNames[c.Kind]
	name := c.Name
	sentinel := t.sentinel(c)
	format := c.Format

	base := func(token []byte) (field.Field, error) {
		tok := bytes.TrimSpace(token)
		if sentinel != "" && string(tok) == sentinel {
			return field.Null(), nil
		}
		if kind == field.KindDate || kind == field.KindDateTime {
			return parse.ScanTime(kind, tok, format, name)
		}

		return parse.Scan(kind, tok, name)
	}

	return t.wrapTransforms(c, base), nil
}

// wrapTransforms applies the column's scale and julian conversion after the
// base parser.
func (t *Table) wrapTransforms(c *Column, base func([]byte) (field.Field, error)) func([]byte) (field.Field, error) {
	scale := c.Scale
	julian := c.Julian
	if scale == nil && !julian {
		return base
	}

	return func(record []byte) (field.Field, error) {
		f, err := base(record)
		if err != nil {
			return f, err
		}
		if scale != nil {
			transform.Linear(&f, scale.Offset, scale.Factor)
		}
		if julian && !f.IsNull() {
			if err := transform.JulianDateToTimestamp(&f); err != nil {
				return f, err
			}
		}

		return f, nil
	}
}
