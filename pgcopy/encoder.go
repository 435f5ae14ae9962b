package pgcopy

import (
	"fmt"
	"io"
	"math"

	"github.com/catcopy/catcopy/endian"
	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
	"github.com/catcopy/catcopy/internal/pool"
)

// Encoder writes a COPY binary stream to an io.Writer.
//
// Rows are assembled in a pooled buffer and handed to the writer in a single
// call each, so a row either reaches the stream whole or not at all. The
// encoder never retains a field or its payload beyond the WriteRow call that
// encodes it.
//
// The Encoder is not safe for concurrent use; the stream is strictly
// append-only and single-threaded.
type Encoder struct {
	w    io.Writer
	buf  *pool.ByteBuffer
	wide endian.Engine

	headerDone bool
	closed     bool
}

// NewEncoder creates an encoder writing to w. The header is emitted by the
// first WriteRow, or by an explicit WriteHeader.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:    w,
		buf:  pool.GetRowBuffer(),
		wide: endian.Native(),
	}
}

// WriteHeader emits the 19-byte stream header. It is a no-op if the header
// was already written.
func (e *Encoder) WriteHeader() error {
	if e.closed {
		return errs.ErrEncoderClosed
	}
	if e.headerDone {
		return nil
	}

	e.buf.Reset()
	e.buf.MustWrite(Signature)
	e.buf.B = wireOrder.AppendUint32(e.buf.B, 0) // flags
	e.buf.B = wireOrder.AppendUint32(e.buf.B, 0) // header extension length

	if _, err := e.buf.WriteTo(e.w); err != nil {
		return err
	}
	e.headerDone = true

	return nil
}

// WriteRow encodes one complete field sequence as one row. Nothing is
// written unless every field encodes cleanly.
func (e *Encoder) WriteRow(fields []field.Field) error {
	if e.closed {
		return errs.ErrEncoderClosed
	}
	if err := e.WriteHeader(); err != nil {
		return err
	}

	e.buf.Reset()
	e.buf.B = wireOrder.AppendUint16(e.buf.B, uint16(len(fields)))
	for i := range fields {
		if err := e.appendField(fields[i]); err != nil {
			return err
		}
	}

	_, err := e.buf.WriteTo(e.w)

	return err
}

// Close emits the stream end marker. Further writes fail with
// ErrEncoderClosed. Close does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.WriteHeader(); err != nil {
		return err
	}

	e.closed = true
	defer func() {
		pool.PutRowBuffer(e.buf)
		e.buf = nil
	}()

	e.buf.Reset()
	e.buf.B = wireOrder.AppendUint16(e.buf.B, endMarker)
	_, err := e.buf.WriteTo(e.w)

	return err
}

// endMarker is the uint16 representation of the -1 field count closing the
// stream.
const endMarker = 0xffff

const nullPrefix = 0xffffffff // int32(-1)

func (e *Encoder) appendField(f field.Field) error {
	b := e.buf.B
	switch f.Kind() {
	case field.KindNull:
		b = wireOrder.AppendUint32(b, nullPrefix)
	case field.KindBool:
		b = wireOrder.AppendUint32(b, 1)
		if f.Bool() {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	case field.KindChar:
		b = wireOrder.AppendUint32(b, 1)
		b = append(b, f.Char())
	case field.KindShort:
		b = wireOrder.AppendUint32(b, 2)
		b = wireOrder.AppendUint16(b, uint16(f.Int16()))
	case field.KindInt:
		b = wireOrder.AppendUint32(b, 4)
		b = wireOrder.AppendUint32(b, uint32(f.Int32()))
	case field.KindBigInt:
		b = wireOrder.AppendUint32(b, 8)
		b = e.wide.AppendUint64(b, uint64(f.Int64()))
	case field.KindFloat:
		b = wireOrder.AppendUint32(b, 4)
		b = e.wide.AppendUint32(b, math.Float32bits(f.Float32()))
	case field.KindDouble:
		b = wireOrder.AppendUint32(b, 8)
		b = e.wide.AppendUint64(b, math.Float64bits(f.Float64()))
	case field.KindText:
		// Length is the actual payload byte count, never the declared
		// field length. No terminator.
		text := f.Bytes()
		b = wireOrder.AppendUint32(b, uint32(len(text)))
		b = append(b, text...)
	case field.KindJulianDate:
		// Calendar-approximate by design: days since the epoch estimated
		// from the fractional julian epoch year.
		days := int32(math.Floor((f.Float64()-2000)*365.25 + 0.5))
		b = wireOrder.AppendUint32(b, 4)
		b = wireOrder.AppendUint32(b, uint32(days))
	case field.KindDate:
		days := int32(floorDiv(f.Time().Unix()-epochSeconds, 86400))
		b = wireOrder.AppendUint32(b, 4)
		b = wireOrder.AppendUint32(b, uint32(days))
	case field.KindDateTime:
		usec := (f.Time().Unix() - epochSeconds) * 1_000_000
		b = wireOrder.AppendUint32(b, 8)
		b = e.wide.AppendUint64(b, uint64(usec))
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnknownKind, f.Kind())
	}
	e.buf.B = b

	return nil
}
