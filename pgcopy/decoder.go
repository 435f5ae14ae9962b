package pgcopy

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/catcopy/catcopy/endian"
	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
)

// Decoder is the reference reader for the COPY binary format.
//
// The wire format is not self-describing, so rows are read against a
// caller-supplied kind schema. The decoder exists for round-trip
// verification and lint-style tooling; the production path only ever
// encodes.
type Decoder struct {
	data []byte
	pos  int
	wide endian.Engine
	done bool
}

// NewDecoder validates the stream header and prepares to read rows.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", errs.ErrTruncatedStream, len(data), HeaderSize)
	}
	if !bytes.Equal(data[:len11], Signature) {
		return nil, errs.ErrBadSignature
	}

	flags := wireOrder.Uint32(data[len11 : len11+4])
	if flags != 0 {
		return nil, fmt.Errorf("%w: unsupported flags %#x", errs.ErrBadHeader, flags)
	}

	extLen := int(wireOrder.Uint32(data[len11+4 : HeaderSize]))
	if HeaderSize+extLen > len(data) {
		return nil, fmt.Errorf("%w: header extension", errs.ErrTruncatedStream)
	}

	return &Decoder{
		data: data,
		pos:  HeaderSize + extLen,
		wide: endian.Native(),
	}, nil
}

// ReadRow decodes the next row against the given kind schema. It returns
// io.EOF once the end marker or the end of the stream is reached.
func (d *Decoder) ReadRow(kinds []field.Kind) ([]field.Field, error) {
	if d.done || d.pos >= len(d.data) {
		return nil, io.EOF
	}

	count, err := d.uint16()
	if err != nil {
		return nil, err
	}
	if count == endMarker {
		d.done = true
		return nil, io.EOF
	}
	if int(count) != len(kinds) {
		return nil, fmt.Errorf("%w: row has %d fields, schema has %d", errs.ErrArityMismatch, count, len(kinds))
	}

	fields := make([]field.Field, 0, len(kinds))
	for _, kind := range kinds {
		f, err := d.readField(kind)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, nil
}

func (d *Decoder) readField(kind field.Kind) (field.Field, error) {
	prefix, err := d.uint32()
	if err != nil {
		return field.Null(), err
	}
	if int32(prefix) == -1 {
		return field.Null(), nil
	}

	payload, err := d.take(int(prefix))
	if err != nil {
		return field.Null(), err
	}

	switch kind {
	case field.KindBool:
		if err := wantSize(kind, payload, 1); err != nil {
			return field.Null(), err
		}

		return field.Bool(payload[0] != 0), nil
	case field.KindChar:
		if err := wantSize(kind, payload, 1); err != nil {
			return field.Null(), err
		}

		return field.Char(payload[0]), nil
	case field.KindShort:
		if err := wantSize(kind, payload, 2); err != nil {
			return field.Null(), err
		}

		return field.Short(int16(wireOrder.Uint16(payload))), nil
	case field.KindInt:
		if err := wantSize(kind, payload, 4); err != nil {
			return field.Null(), err
		}

		return field.Int(int32(wireOrder.Uint32(payload))), nil
	case field.KindBigInt:
		if err := wantSize(kind, payload, 8); err != nil {
			return field.Null(), err
		}

		return field.BigInt(int64(d.wide.Uint64(payload))), nil
	case field.KindFloat:
		if err := wantSize(kind, payload, 4); err != nil {
			return field.Null(), err
		}

		return field.Float(math.Float32frombits(d.wide.Uint32(payload))), nil
	case field.KindDouble:
		if err := wantSize(kind, payload, 8); err != nil {
			return field.Null(), err
		}

		return field.Double(math.Float64frombits(d.wide.Uint64(payload))), nil
	case field.KindText:
		return field.Text(bytes.Clone(payload)), nil
	case field.KindJulianDate:
		if err := wantSize(kind, payload, 4); err != nil {
			return field.Null(), err
		}
		days := int32(wireOrder.Uint32(payload))

		return field.JulianDate(2000 + float64(days)/365.25), nil
	case field.KindDate:
		if err := wantSize(kind, payload, 4); err != nil {
			return field.Null(), err
		}
		days := int64(int32(wireOrder.Uint32(payload)))

		return field.Date(time.Unix(epochSeconds+days*86400, 0)), nil
	case field.KindDateTime:
		if err := wantSize(kind, payload, 8); err != nil {
			return field.Null(), err
		}
		usec := int64(d.wide.Uint64(payload))

		return field.DateTime(time.Unix(epochSeconds+usec/1_000_000, 0)), nil
	default:
		return field.Null(), fmt.Errorf("%w: %s", errs.ErrUnknownKind, kind)
	}
}

func wantSize(kind field.Kind, payload []byte, want int) error {
	if len(payload) != want {
		return fmt.Errorf("%w: %s payload is %d bytes, want %d", errs.ErrFieldSize, kind, len(payload), want)
	}

	return nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", errs.ErrTruncatedStream, n, d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n

	return b, nil
}

func (d *Decoder) uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}

	return wireOrder.Uint16(b), nil
}

func (d *Decoder) uint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}

	return wireOrder.Uint32(b), nil
}
