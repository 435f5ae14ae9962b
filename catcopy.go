// Package catcopy converts scientific catalog text dumps into PostgreSQL's
// binary COPY wire format.
//
// A catalog dump is a stream of records: one per text line, or one per
// fixed-size byte block for fixed-width distributions. An extraction driver
// turns each record into a fixed-arity sequence of typed, possibly-null
// field values, and the dump runner streams those rows through the COPY
// binary encoder. The resulting stream is meant to be piped straight into
// the database's binary bulk-load command; catcopy itself never opens a
// database connection.
//
// # Basic Usage
//
// Converting a catalog described by a layout file:
//
//	table, err := layout.Load("ppmx.toml")
//	if err != nil {
//	    return err
//	}
//	extractor, err := table.Extractor()
//	if err != nil {
//	    return err
//	}
//
//	in, err := catcopy.Open("ppmx.dat.gz") // decompressed transparently
//	if err != nil {
//	    return err
//	}
//	defer in.Close()
//
//	stats, err := catcopy.Dump(in, os.Stdout, extractor, table.RunnerOptions()...)
//
// Hand-written extraction drivers implement dump.Extractor directly and use
// the parse and transform packages for the per-column work.
//
// # Package Structure
//
// This package provides thin wrappers over the dump and compress packages.
// The field, parse, transform, pgcopy and layout packages carry the actual
// machinery and can be used directly.
package catcopy

import (
	"io"
	"os"

	"github.com/catcopy/catcopy/compress"
	"github.com/catcopy/catcopy/dump"
)

// Re-exported dump options, so simple callers need only this package.
var (
	WithFixedRecordSize = dump.WithFixedRecordSize
	WithProgressEvery   = dump.WithProgressEvery
	WithProgressWriter  = dump.WithProgressWriter
	WithSkipBadRecords  = dump.WithSkipBadRecords
	WithMaxLineLength   = dump.WithMaxLineLength
)

// Dump converts every record of in into one COPY binary row on out using
// the given extraction driver. See dump.Runner for the full contract.
func Dump(in io.Reader, out io.Writer, extractor dump.Extractor, opts ...dump.Option) (dump.Stats, error) {
	runner, err := dump.NewRunner(extractor, opts...)
	if err != nil {
		return dump.Stats{}, err
	}

	return runner.Run(in, out)
}

// Open opens a catalog dump for reading, transparently decompressing gzip,
// zstd, lz4 and s2 inputs. The path "-" (or "") reads standard input.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		r, _, err := compress.NewReader(os.Stdin)
		if err != nil {
			return nil, err
		}

		return io.NopCloser(r), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, _, err := compress.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &readCloser{Reader: r, c: f}, nil
}

type readCloser struct {
	io.Reader
	c io.Closer
}

func (rc *readCloser) Close() error {
	return rc.c.Close()
}
