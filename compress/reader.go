// Package compress transparently decompresses catalog dump files.
//
// Catalog distributions ship as plain text or compressed with gzip, zstd,
// lz4 or s2/snappy. NewReader sniffs the stream's magic bytes and wraps it
// in the matching decompressor, so the dump driver always sees plain
// records and no external prefilter process is needed.
package compress

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

// Format identifies the detected compression format of an input stream.
type Format uint8

const (
	FormatPlain Format = iota
	FormatGzip
	FormatZstd
	FormatLZ4
	FormatS2
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	case FormatS2:
		return "s2"
	default:
		return "unknown"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	// s2 and snappy framed streams share the stream identifier chunk.
	s2Magic = []byte{0xff, 0x06, 0x00, 0x00}
)

const sniffLen = 4

// Detect returns the compression format indicated by the first bytes of the
// stream. Streams shorter than the longest magic are plain by definition.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return FormatGzip
	case bytes.HasPrefix(head, zstdMagic):
		return FormatZstd
	case bytes.HasPrefix(head, lz4Magic):
		return FormatLZ4
	case bytes.HasPrefix(head, s2Magic):
		return FormatS2
	default:
		return FormatPlain
	}
}

// NewReader wraps r in a decompressor chosen by the stream's magic bytes.
// Plain streams are passed through buffered but otherwise untouched.
func NewReader(r io.Reader) (io.Reader, Format, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, FormatPlain, err
	}

	format := Detect(head)
	switch format {
	case FormatGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, err
		}

		return zr, format, nil
	case FormatZstd:
		zr, err := newZstdReader(br)
		if err != nil {
			return nil, format, err
		}

		return zr, format, nil
	case FormatLZ4:
		return lz4.NewReader(br), format, nil
	case FormatS2:
		return s2.NewReader(br), format, nil
	default:
		return br, FormatPlain, nil
	}
}
