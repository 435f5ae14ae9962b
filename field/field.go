// Package field defines the tagged value model shared by the parsers,
// transforms and the COPY binary encoder.
//
// A Field carries exactly one column value for one row. Its kind selects
// which payload is active; accessors for the other payloads panic, so a
// payload is never read under the wrong kind. Null is a kind of its own and
// is never conflated with zero or an empty string.
//
// Fields are cheap values: one is built per column per row, handed to the
// encoder once, and dropped. Text payloads alias the caller's backing bytes
// and must stay valid until the row is encoded.
package field

import (
	"fmt"
	"time"
)

// Kind discriminates the active payload of a Field.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindChar
	KindShort
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindText
	KindJulianDate
	KindDate
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindText:
		return "text"
	case KindJulianDate:
		return "jdate"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one typed, possibly-null column value.
//
// The zero Field is Null.
type Field struct {
	kind Kind
	num  int64     // Bool, Char, Short, Int, BigInt
	flt  float64   // Float, Double, JulianDate
	text []byte    // Text
	when time.Time // Date, DateTime
}

// Null returns the null field.
func Null() Field {
	return Field{kind: KindNull}
}

// Bool returns a boolean field.
func Bool(v bool) Field {
	f := Field{kind: KindBool}
	if v {
		f.num = 1
	}

	return f
}

// Char returns a single-character field.
func Char(c byte) Field {
	return Field{kind: KindChar, num: int64(c)}
}

// Short returns a 16-bit integer field.
func Short(v int16) Field {
	return Field{kind: KindShort, num: int64(v)}
}

// Int returns a 32-bit integer field.
func Int(v int32) Field {
	return Field{kind: KindInt, num: int64(v)}
}

// BigInt returns a 64-bit integer field.
func BigInt(v int64) Field {
	return Field{kind: KindBigInt, num: v}
}

// Float returns a single-precision float field. The value is stored widened
// but keeps float32 precision.
func Float(v float32) Field {
	return Field{kind: KindFloat, flt: float64(v)}
}

// Double returns a double-precision float field.
func Double(v float64) Field {
	return Field{kind: KindDouble, flt: v}
}

// Text returns a text field. The field aliases b; the caller owns the
// backing bytes for the lifetime of the row.
func Text(b []byte) Field {
	return Field{kind: KindText, text: b}
}

// TextString returns a text field backed by its own copy of s.
func TextString(s string) Field {
	return Field{kind: KindText, text: []byte(s)}
}

// JulianDate returns a field holding a fractional Julian year, kept as a
// plain double until encoded or converted to a timestamp.
func JulianDate(v float64) Field {
	return Field{kind: KindJulianDate, flt: v}
}

// Date returns a calendar-date field.
func Date(t time.Time) Field {
	return Field{kind: KindDate, when: t}
}

// DateTime returns a date-and-time field.
func DateTime(t time.Time) Field {
	return Field{kind: KindDateTime, when: t}
}

// Kind returns the field's kind.
func (f Field) Kind() Kind {
	return f.kind
}

// IsNull reports whether the field is null.
func (f Field) IsNull() bool {
	return f.kind == KindNull
}

func (f Field) mustBe(kinds ...Kind) {
	for _, k := range kinds {
		if f.kind == k {
			return
		}
	}
	panic(fmt.Sprintf("field: %s payload read from %s field", kinds[0], f.kind))
}

// Bool returns the boolean payload. Panics unless the kind is Bool.
func (f Field) Bool() bool {
	f.mustBe(KindBool)
	return f.num != 0
}

// Char returns the character payload. Panics unless the kind is Char.
func (f Field) Char() byte {
	f.mustBe(KindChar)
	return byte(f.num)
}

// Int16 returns the 16-bit integer payload. Panics unless the kind is Short.
func (f Field) Int16() int16 {
	f.mustBe(KindShort)
	return int16(f.num)
}

// Int32 returns the 32-bit integer payload. Panics unless the kind is Int.
func (f Field) Int32() int32 {
	f.mustBe(KindInt)
	return int32(f.num)
}

// Int64 returns the 64-bit integer payload. Panics unless the kind is BigInt.
func (f Field) Int64() int64 {
	f.mustBe(KindBigInt)
	return f.num
}

// Float32 returns the single-precision payload. Panics unless the kind is Float.
func (f Field) Float32() float32 {
	f.mustBe(KindFloat)
	return float32(f.flt)
}

// Float64 returns the double-precision payload. Panics unless the kind is
// Double or JulianDate.
func (f Field) Float64() float64 {
	f.mustBe(KindDouble, KindJulianDate)
	return f.flt
}

// Bytes returns the text payload. Panics unless the kind is Text.
func (f Field) Bytes() []byte {
	f.mustBe(KindText)
	return f.text
}

// Length returns the byte length of the trimmed text payload. Panics unless
// the kind is Text.
func (f Field) Length() int {
	f.mustBe(KindText)
	return len(f.text)
}

// Time returns the point-in-time payload. Panics unless the kind is Date or
// DateTime.
func (f Field) Time() time.Time {
	f.mustBe(KindDate, KindDateTime)
	return f.when
}

// String renders the field for diagnostics. It never exposes a payload under
// the wrong kind.
func (f Field) String() string {
	switch f.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("bool(%v)", f.num != 0)
	case KindChar:
		return fmt.Sprintf("char(%q)", byte(f.num))
	case KindShort, KindInt, KindBigInt:
		return fmt.Sprintf("%s(%d)", f.kind, f.num)
	case KindFloat, KindDouble, KindJulianDate:
		return fmt.Sprintf("%s(%g)", f.kind, f.flt)
	case KindText:
		return fmt.Sprintf("text(%q)", f.text)
	case KindDate:
		return fmt.Sprintf("date(%s)", f.when.Format("2006-01-02"))
	case KindDateTime:
		return fmt.Sprintf("datetime(%s)", f.when.Format("2006-01-02 15:04:05"))
	default:
		return f.kind.String()
	}
}
