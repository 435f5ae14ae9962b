// Command catcopy converts a catalog text dump into a PostgreSQL binary
// COPY stream on standard output, ready to pipe into the database's binary
// bulk-load command.
//
//	catcopy --layout ppmx.toml ppmx.dat.gz | psql -c 'COPY ppmx FROM STDIN (FORMAT binary)'
//
// Exits 0 after converting the whole input, 1 on any fatal condition: bad
// invocation, input open failure, an unparseable field, a rejected record,
// or an encoder invariant failure. Progress and diagnostics go to standard
// error, never into the binary stream.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/catcopy/catcopy"
	"github.com/catcopy/catcopy/dump"
	"github.com/catcopy/catcopy/layout"
)

type options struct {
	layoutPath    string
	outputPath    string
	progressEvery int
	maxLineLength int
	skipBad       bool
	quiet         bool
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "catcopy [input]",
		Short:         "Convert a catalog text dump into a binary COPY stream",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}

			return run(logger, &opts, input)
		},
	}

	cmd.Flags().StringVarP(&opts.layoutPath, "layout", "l", "", "catalog layout file (required)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "write the stream here instead of stdout")
	cmd.Flags().IntVar(&opts.progressEvery, "progress-every", 1000, "row interval of the progress ticker (0 disables)")
	cmd.Flags().IntVar(&opts.maxLineLength, "max-line-length", 0, "raise the input line length limit (bytes)")
	cmd.Flags().BoolVar(&opts.skipBad, "skip-bad-records", false, "ignore records the layout rejects instead of failing")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress reporting")
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

func run(logger *zap.Logger, opts *options, input string) error {
	table, err := layout.Load(opts.layoutPath)
	if err != nil {
		return fmt.Errorf("loading layout %s: %w", opts.layoutPath, err)
	}
	extractor, err := table.Extractor()
	if err != nil {
		return err
	}

	in, err := catcopy.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	out := io.WriteCloser(os.Stdout)
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return err
		}
		out = f
	}

	dumpOpts := table.RunnerOptions()
	dumpOpts = append(dumpOpts, dump.WithProgressEvery(opts.progressEvery))
	if opts.quiet {
		dumpOpts = append(dumpOpts, dump.WithProgressWriter(io.Discard))
	}
	if opts.skipBad {
		dumpOpts = append(dumpOpts, dump.WithSkipBadRecords())
	}
	if opts.maxLineLength > 0 {
		dumpOpts = append(dumpOpts, dump.WithMaxLineLength(opts.maxLineLength))
	}

	stats, err := catcopy.Dump(in, out, extractor, dumpOpts...)
	if err != nil {
		return err
	}
	if opts.outputPath != "" {
		if err := out.Close(); err != nil {
			return err
		}
	}

	if !opts.quiet {
		logger.Info("conversion complete",
			zap.Int64("records", stats.Records),
			zap.Int64("skipped", stats.Skipped),
			zap.Int64("bytes", stats.BytesWritten),
			zap.String("digest", fmt.Sprintf("%016x", stats.Digest)),
		)
	}

	return nil
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catcopy: cannot initialize logging:", err)
		os.Exit(1)
	}

	return logger
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.Error("catcopy failed", zap.Error(err))
		os.Exit(1)
	}
}
