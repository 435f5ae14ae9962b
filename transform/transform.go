// Package transform rewrites field values in place: linear rescaling of
// numeric fields and conversion of fractional Julian day numbers into
// calendar timestamps.
package transform

import (
	"fmt"
	"math"
	"time"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
)

// Linear replaces the value of a Float, Double or Int field with
// offset + value*factor. Every other kind, null included, is left untouched.
// Integer results truncate toward zero.
func Linear(f *field.Field, offset, factor float64) {
	switch f.Kind() {
	case field.KindFloat:
		*f = field.Float(float32(offset + float64(f.Float32())*factor))
	case field.KindDouble:
		*f = field.Double(offset + f.Float64()*factor)
	case field.KindInt:
		*f = field.Int(int32(offset + float64(f.Int32())*factor))
	default:
	}
}

// ArcsecToDeg rescales a field holding arcseconds to degrees.
func ArcsecToDeg(f *field.Field) {
	Linear(f, 0, 1/3600.0)
}

// MasToDeg rescales a field holding milliarcseconds to degrees.
func MasToDeg(f *field.Field) {
	Linear(f, 0, 1/3600.0/1000.0)
}

// JulianDateToTimestamp converts a Double field holding a fractional Julian
// day number into a DateTime field in place.
//
// The integer day is decomposed into a proleptic-Gregorian calendar date
// with pure integer arithmetic, and the day fraction into hour, minute and
// second by successive x24/x60/x60 truncation. The six components compose a
// local civil timestamp.
func JulianDateToTimestamp(f *field.Field) error {
	if f.Kind() != field.KindDouble {
		return fmt.Errorf("%w: julian conversion needs a double field, got %s", errs.ErrKindMismatch, f.Kind())
	}

	jd := f.Float64() + 0.5
	day := math.Trunc(jd)
	year, month, mday := julianDayToCalendar(int32(day))

	hours := (jd - day) * 24
	hour := int(math.Trunc(hours))
	minutes := (hours - float64(hour)) * 60
	minute := int(math.Trunc(minutes))
	second := int(math.Trunc((minutes - float64(minute)) * 60))

	*f = field.DateTime(time.Date(year, time.Month(month), mday, hour, minute, second, 0, time.Local))

	return nil
}

// DegToHMS splits an angle in degrees into hours, minutes and seconds of
// right ascension. Negative angles are normalized into [0, 360) first.
func DegToHMS(deg float64) (hours, minutes int, seconds float64) {
	for deg < 0 {
		deg += 360
	}
	rest, ipart := math.Modf(deg / 360 * 24)
	hours = int(ipart)
	rest, ipart = math.Modf(rest * 60)
	minutes = int(ipart)
	seconds = rest * 60

	return hours, minutes, seconds
}

// DegToDMS splits an angle in degrees into sign, degrees, minutes and
// seconds of arc.
func DegToDMS(deg float64) (sign byte, degs, minutes int, seconds float64) {
	sign = '+'
	if deg < 0 {
		sign = '-'
		deg = -deg
	}
	rest, ipart := math.Modf(deg)
	degs = int(ipart)
	rest, ipart = math.Modf(rest * 60)
	minutes = int(ipart)
	seconds = rest * 60

	return sign, degs, minutes, seconds
}
