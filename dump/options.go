package dump

import (
	"fmt"
	"io"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/internal/options"
)

// Option configures a Runner.
type Option = options.Option[*Runner]

func applyOptions(r *Runner, opts ...Option) error {
	return options.Apply(r, opts...)
}

// WithFixedRecordSize switches the runner to fixed-width mode: one record
// per block of n input bytes instead of one per line.
func WithFixedRecordSize(n int) Option {
	return options.New(func(r *Runner) error {
		if n <= 0 {
			return fmt.Errorf("%w: fixed record size %d", errs.ErrBadLayout, n)
		}
		r.recordSize = n

		return nil
	})
}

// WithProgressEvery sets the row interval of the progress ticker. Zero
// disables periodic reporting; the final count is always written.
func WithProgressEvery(n int) Option {
	return options.New(func(r *Runner) error {
		if n < 0 {
			return fmt.Errorf("%w: progress interval %d", errs.ErrBadLayout, n)
		}
		r.progressEvery = int64(n)

		return nil
	})
}

// WithProgressWriter redirects the progress side channel, which defaults to
// standard error. It must be distinct from the binary output destination.
func WithProgressWriter(w io.Writer) Option {
	return options.NoError(func(r *Runner) {
		if w == nil {
			w = io.Discard
		}
		r.progress = w
	})
}

// WithSkipBadRecords makes the runner count and report records the
// extractor rejects instead of failing the run.
func WithSkipBadRecords() Option {
	return options.NoError(func(r *Runner) {
		r.skipBad = true
	})
}

// WithMaxLineLength raises the line-mode record length limit.
func WithMaxLineLength(n int) Option {
	return options.New(func(r *Runner) error {
		if n <= 0 {
			return fmt.Errorf("%w: max line length %d", errs.ErrBadLayout, n)
		}
		r.maxLineLength = n

		return nil
	})
}
