// Package dump drives one catalog conversion: it reads input records,
// hands each to an extraction driver, and streams the resulting rows
// through the COPY binary encoder.
//
// The pass is strictly sequential and single-threaded: read a record,
// extract, encode, advance. Progress reporting goes to a side channel
// distinct from the binary payload and is advisory only. The runner
// returns typed errors instead of terminating; the command wrapping it
// owns process exit.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
	"github.com/catcopy/catcopy/pgcopy"
)

// Extractor turns one input record into an ordered field sequence of fixed
// arity. An error return means the record is unparseable under the
// catalog's layout; the runner decides whether that is fatal.
//
// Text payloads in the returned fields may alias storage reused by the next
// Extract call; the runner encodes each row before requesting the next.
type Extractor interface {
	Arity() int
	Extract(record []byte) ([]field.Field, error)
}

type funcExtractor struct {
	arity int
	fn    func(record []byte) ([]field.Field, error)
}

func (e *funcExtractor) Arity() int { return e.arity }

func (e *funcExtractor) Extract(record []byte) ([]field.Field, error) {
	return e.fn(record)
}

// NewExtractor wraps a plain function as an Extractor with the given arity.
func NewExtractor(arity int, fn func(record []byte) ([]field.Field, error)) Extractor {
	return &funcExtractor{arity: arity, fn: fn}
}

// Stats summarizes one completed run.
type Stats struct {
	// Records is the number of rows written.
	Records int64
	// Skipped is the number of rejected records ignored under
	// WithSkipBadRecords.
	Skipped int64
	// BytesWritten is the total size of the emitted stream.
	BytesWritten int64
	// Digest is the xxHash64 of the emitted stream, reported on the side
	// channel for pipeline bookkeeping.
	Digest uint64
}

const (
	defaultProgressEvery = 1000
	defaultMaxLineLength = 1 << 20
)

// Runner converts one input stream into one COPY binary stream.
type Runner struct {
	extractor     Extractor
	recordSize    int
	progressEvery int64
	progress      io.Writer
	skipBad       bool
	maxLineLength int
}

// NewRunner creates a runner for the given extraction driver.
func NewRunner(extractor Extractor, opts ...Option) (*Runner, error) {
	if extractor == nil {
		return nil, fmt.Errorf("%w: nil extractor", errs.ErrArityMismatch)
	}
	if extractor.Arity() <= 0 {
		return nil, fmt.Errorf("%w: extractor arity %d", errs.ErrArityMismatch, extractor.Arity())
	}

	r := &Runner{
		extractor:     extractor,
		progressEvery: defaultProgressEvery,
		progress:      os.Stderr,
		maxLineLength: defaultMaxLineLength,
	}
	if err := applyOptions(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Run emits the stream header, converts every input record to one row, and
// closes the stream with the end marker. It reports periodic and final row
// counts on the progress writer.
//
// Output already written is not rolled back on error; the destination is
// expected to be a discardable intermediate consumed only on overall
// success.
func (r *Runner) Run(in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats

	digest := xxhash.New()
	sink := &countingWriter{w: io.MultiWriter(out, digest)}
	enc := pgcopy.NewEncoder(sink)

	if err := enc.WriteHeader(); err != nil {
		return stats, err
	}

	var err error
	if r.recordSize > 0 {
		err = r.runFixed(in, enc, &stats)
	} else {
		err = r.runLines(in, enc, &stats)
	}
	if err != nil {
		return stats, err
	}

	if err := enc.Close(); err != nil {
		return stats, err
	}

	stats.BytesWritten = sink.n
	stats.Digest = digest.Sum64()
	fmt.Fprintf(r.progress, "%08d records done.\n", stats.Records)
	fmt.Fprintf(r.progress, "stream digest: %016x\n", stats.Digest)

	return stats, nil
}

// runLines feeds one record per input line.
func (r *Runner) runLines(in io.Reader, enc *pgcopy.Encoder, stats *Stats) error {
	scanner := bufio.NewScanner(in)
	bufSize := 64 * 1024
	if r.maxLineLength < bufSize {
		bufSize = r.maxLineLength
	}
	scanner.Buffer(make([]byte, 0, bufSize), r.maxLineLength)

	for scanner.Scan() {
		if err := r.emit(enc, scanner.Bytes(), stats); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: limit %d bytes", errs.ErrLongLine, r.maxLineLength)
		}

		return err
	}

	return nil
}

// runFixed feeds one record per fixed-size byte block. A non-empty tail
// block shorter than the record size is an error.
func (r *Runner) runFixed(in io.Reader, enc *pgcopy.Encoder, stats *Stats) error {
	br := bufio.NewReader(in)
	block := make([]byte, r.recordSize)

	for {
		n, err := io.ReadFull(br, block)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: only %d bytes read", errs.ErrShortRecord, n)
		}
		if err != nil {
			return err
		}

		if err := r.emit(enc, block, stats); err != nil {
			return err
		}
	}
}

func (r *Runner) emit(enc *pgcopy.Encoder, record []byte, stats *Stats) error {
	fields, err := r.extractor.Extract(record)
	if err != nil {
		if r.skipBad {
			stats.Skipped++
			fmt.Fprintf(r.progress, "ignoring bad record: %v\n", err)

			return nil
		}

		return fmt.Errorf("%w: %v", errs.ErrBadRecord, err)
	}
	if len(fields) != r.extractor.Arity() {
		return fmt.Errorf("%w: extractor returned %d fields, declared %d",
			errs.ErrArityMismatch, len(fields), r.extractor.Arity())
	}

	if err := enc.WriteRow(fields); err != nil {
		return err
	}

	stats.Records++
	if r.progressEvery > 0 && stats.Records%r.progressEvery == 0 {
		fmt.Fprintf(r.progress, "%08d\r", stats.Records)
	}

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}
