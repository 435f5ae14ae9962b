// Package errs defines the sentinel errors shared across catcopy packages.
//
// All errors are returned wrapped with fmt.Errorf("%w: ...") so callers can
// match them with errors.Is while still seeing the offending field or value
// in the message. None of the library packages terminate the process; the
// command wrapping the dump runner decides what is fatal.
package errs

import "errors"

var (
	// ErrBadLiteral indicates non-whitespace text that does not parse as the
	// requested kind. The wrapping message names the field and the text.
	ErrBadLiteral = errors.New("bad literal")

	// ErrKindMismatch indicates a transform or accessor applied to a field
	// whose kind does not carry the required payload.
	ErrKindMismatch = errors.New("kind mismatch")

	// ErrUnknownKind indicates a field kind the encoder or layout table does
	// not recognize.
	ErrUnknownKind = errors.New("unknown field kind")

	// ErrBadLayout indicates an invalid column table description.
	ErrBadLayout = errors.New("bad layout")

	// ErrBadRecord indicates an input record the extractor rejected.
	ErrBadRecord = errors.New("bad record")

	// ErrArityMismatch indicates an extractor returned a field sequence whose
	// length differs from its declared arity.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrShortRecord indicates a truncated block in fixed-record mode.
	ErrShortRecord = errors.New("short record")

	// ErrLongLine indicates an input line exceeding the configured maximum.
	ErrLongLine = errors.New("input line too long")

	// ErrEncoderClosed indicates a write after the stream trailer was emitted.
	ErrEncoderClosed = errors.New("encoder closed")

	// ErrBadSignature indicates a stream that does not start with the COPY
	// binary signature.
	ErrBadSignature = errors.New("bad stream signature")

	// ErrBadHeader indicates unsupported header flags or extension data.
	ErrBadHeader = errors.New("bad stream header")

	// ErrTruncatedStream indicates a stream ending inside a row.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrFieldSize indicates a field length prefix that does not match the
	// width of the expected kind.
	ErrFieldSize = errors.New("field size mismatch")
)
