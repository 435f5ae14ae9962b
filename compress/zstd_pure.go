//go:build !cgo

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// newZstdReader returns the pure-Go zstd stream reader used when cgo is
// unavailable.
func newZstdReader(r io.Reader) (io.Reader, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return zr.IOReadCloser(), nil
}
