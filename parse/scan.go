package parse

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
)

// Scan parses the whole token as the given numeric or character kind.
//
// Unlike the span primitives, Scan has no implicit null: a token that does
// not fully parse as the requested kind is an error, including an empty or
// whitespace-only token. Callers wanting a missing-value path compare the
// token against their sentinel before calling Scan.
func Scan(kind field.Kind, token []byte, name string) (field.Field, error) {
	tok := bytes.TrimSpace(token)
	switch kind {
	case field.KindNull:
		return field.Null(), nil
	case field.KindChar:
		if len(tok) == 0 {
			return field.Null(), badLiteral(name, token, "char")
		}

		return field.Char(tok[0]), nil
	case field.KindShort:
		v, err := strconv.ParseInt(string(tok), 10, 16)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "int16")
		}

		return field.Short(int16(v)), nil
	case field.KindInt:
		v, err := strconv.ParseInt(string(tok), 10, 32)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "int32")
		}

		return field.Int(int32(v)), nil
	case field.KindBigInt:
		v, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "int64")
		}

		return field.BigInt(v), nil
	case field.KindFloat:
		v, err := strconv.ParseFloat(string(tok), 32)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "float32")
		}

		return field.Float(float32(v)), nil
	case field.KindDouble:
		v, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "float64")
		}

		return field.Double(v), nil
	case field.KindJulianDate:
		v, err := strconv.ParseFloat(string(tok), 64)
		if err != nil {
			return field.Null(), badLiteral(name, tok, "julian epoch")
		}

		return field.JulianDate(v), nil
	case field.KindText:
		return field.Text(tok), nil
	default:
		return field.Null(), fmt.Errorf("%w: cannot scan %s for field %s", errs.ErrUnknownKind, kind, name)
	}
}

// ScanTime parses the whole token as a date or date-and-time value using a
// Go reference layout. The token must be fully consumed by the layout; a
// partial match is an error. kind selects Date or DateTime.
func ScanTime(kind field.Kind, token []byte, layout, name string) (field.Field, error) {
	tok := bytes.TrimSpace(token)
	t, err := time.ParseInLocation(layout, string(tok), time.Local)
	if err != nil {
		return field.Null(), badLiteral(name, tok, "time")
	}

	switch kind {
	case field.KindDate:
		return field.Date(t), nil
	case field.KindDateTime:
		return field.DateTime(t), nil
	default:
		return field.Null(), fmt.Errorf("%w: cannot scan time as %s for field %s", errs.ErrUnknownKind, kind, name)
	}
}
