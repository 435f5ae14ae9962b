//go:build cgo

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// newZstdReader returns the cgo-backed zstd stream reader. The pure-Go
// implementation in zstd_pure.go is used when cgo is unavailable.
func newZstdReader(r io.Reader) (io.Reader, error) {
	return gozstd.NewReader(r), nil
}
