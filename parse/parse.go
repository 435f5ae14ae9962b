// Package parse extracts typed field values from raw catalog text.
//
// Every primitive follows the same contract: extract a span (or a single
// byte position) from the record, trim surrounding whitespace, and classify.
// A trimmed-empty span is a missing value and yields a null field; anything
// else either parses as the requested kind or returns an error wrapping
// errs.ErrBadLiteral that names the field and the offending text. There is
// no third outcome, and no primitive terminates the process — the dump
// driver decides what is fatal.
//
// The WithNull variants additionally map one caller-supplied sentinel
// literal (such as "-9999.99") to null before parsing.
package parse

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
)

// Extract returns the trimmed span [start, start+length) of record. Spans
// reaching past the end of the record are clipped; a span entirely outside
// the record is empty.
func Extract(record []byte, start, length int) []byte {
	if start < 0 || length <= 0 || start >= len(record) {
		return nil
	}
	end := start + length
	if end > len(record) {
		end = len(record)
	}

	return bytes.TrimSpace(record[start:end])
}

func badLiteral(name string, text []byte, want string) error {
	return fmt.Errorf("%w: invalid %s literal %q for field %s", errs.ErrBadLiteral, want, text, name)
}

// Short parses a 16-bit integer field from the given span.
func Short(record []byte, start, length int, name string) (field.Field, error) {
	return ShortWithNull(record, start, length, name, "")
}

// ShortWithNull is Short with a magic null sentinel.
func ShortWithNull(record []byte, start, length int, name, sentinel string) (field.Field, error) {
	tok := Extract(record, start, length)
	if missing(tok, sentinel) {
		return field.Null(), nil
	}
	v, err := strconv.ParseInt(string(tok), 10, 16)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "int16")
	}

	return field.Short(int16(v)), nil
}

// Int parses a 32-bit integer field from the given span.
func Int(record []byte, start, length int, name string) (field.Field, error) {
	return IntWithNull(record, start, length, name, "")
}

// IntWithNull is Int with a magic null sentinel.
func IntWithNull(record []byte, start, length int, name, sentinel string) (field.Field, error) {
	tok := Extract(record, start, length)
	if missing(tok, sentinel) {
		return field.Null(), nil
	}
	v, err := strconv.ParseInt(string(tok), 10, 32)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "int32")
	}

	return field.Int(int32(v)), nil
}

// BigInt parses a 64-bit integer field from the given span.
func BigInt(record []byte, start, length int, name string) (field.Field, error) {
	return BigIntWithNull(record, start, length, name, "")
}

// BigIntWithNull is BigInt with a magic null sentinel.
func BigIntWithNull(record []byte, start, length int, name, sentinel string) (field.Field, error) {
	tok := Extract(record, start, length)
	if missing(tok, sentinel) {
		return field.Null(), nil
	}
	v, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "int64")
	}

	return field.BigInt(v), nil
}

// Float parses a single-precision float field from the given span.
func Float(record []byte, start, length int, name string) (field.Field, error) {
	return FloatWithNull(record, start, length, name, "")
}

// FloatWithNull is Float with a magic null sentinel.
func FloatWithNull(record []byte, start, length int, name, sentinel string) (field.Field, error) {
	tok := Extract(record, start, length)
	if missing(tok, sentinel) {
		return field.Null(), nil
	}
	v, err := strconv.ParseFloat(string(tok), 32)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "float32")
	}

	return field.Float(float32(v)), nil
}

// Double parses a double-precision float field from the given span.
func Double(record []byte, start, length int, name string) (field.Field, error) {
	return DoubleWithNull(record, start, length, name, "")
}

// DoubleWithNull is Double with a magic null sentinel.
func DoubleWithNull(record []byte, start, length int, name, sentinel string) (field.Field, error) {
	tok := Extract(record, start, length)
	if missing(tok, sentinel) {
		return field.Null(), nil
	}
	v, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "float64")
	}

	return field.Double(v), nil
}

// Text extracts a trimmed text field from the given span. A trimmed-empty
// span stays a text field with empty payload; text has no implicit null.
func Text(record []byte, start, length int) field.Field {
	return field.Text(Extract(record, start, length))
}

// TextWithNull is Text with a magic null sentinel.
func TextWithNull(record []byte, start, length int, sentinel string) field.Field {
	tok := Extract(record, start, length)
	if sentinel != "" && string(tok) == sentinel {
		return field.Null()
	}

	return field.Text(tok)
}

// Char inspects the byte at pos without copying. Whitespace, or a position
// outside the record, yields null; any other byte is the character value.
func Char(record []byte, pos int) field.Field {
	if blankAt(record, pos) {
		return field.Null()
	}

	return field.Char(record[pos])
}

// BlankBool inspects the byte at pos. Whitespace, or a position outside the
// record, yields false; any other byte yields true. There is no null case.
func BlankBool(record []byte, pos int) field.Field {
	return field.Bool(!blankAt(record, pos))
}

func blankAt(record []byte, pos int) bool {
	if pos < 0 || pos >= len(record) {
		return true
	}

	return unicode.IsSpace(rune(record[pos]))
}

// missing reports whether the trimmed token denotes a missing value: empty
// after trimming, or equal to a non-empty sentinel.
func missing(tok []byte, sentinel string) bool {
	if len(tok) == 0 {
		return true
	}

	return sentinel != "" && string(tok) == sentinel
}
