package dump

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
	"github.com/catcopy/catcopy/parse"
	"github.com/catcopy/catcopy/pgcopy"
)

// lineExtractor parses "<int> <text>" records laid out in fixed columns.
func lineExtractor() Extractor {
	return NewExtractor(2, func(record []byte) ([]field.Field, error) {
		id, err := parse.Int(record, 0, 6, "id")
		if err != nil {
			return nil, err
		}

		return []field.Field{id, parse.Text(record, 6, 12)}, nil
	})
}

func TestRunLines(t *testing.T) {
	input := "  4242 NGC 224\n    43 M 33\n"

	var out, progress bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(&progress))
	require.NoError(t, err)

	stats, err := runner.Run(strings.NewReader(input), &out)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Records)
	require.Equal(t, int64(0), stats.Skipped)
	require.Equal(t, int64(out.Len()), stats.BytesWritten)
	require.Equal(t, xxhash.Sum64(out.Bytes()), stats.Digest)

	dec, err := pgcopy.NewDecoder(out.Bytes())
	require.NoError(t, err)

	kinds := []field.Kind{field.KindInt, field.KindText}

	row, err := dec.ReadRow(kinds)
	require.NoError(t, err)
	require.Equal(t, int32(4242), row[0].Int32())
	require.Equal(t, "NGC 224", string(row[1].Bytes()))

	row, err = dec.ReadRow(kinds)
	require.NoError(t, err)
	require.Equal(t, int32(43), row[0].Int32())
	require.Equal(t, "M 33", string(row[1].Bytes()))

	_, err = dec.ReadRow(kinds)
	require.ErrorIs(t, err, io.EOF, "stream carries the end marker")
}

func TestRunReportsFinalCount(t *testing.T) {
	var out, progress bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(&progress), WithProgressEvery(1))
	require.NoError(t, err)

	_, err = runner.Run(strings.NewReader("     1 a\n     2 b\n"), &out)
	require.NoError(t, err)

	require.Contains(t, progress.String(), "00000002 records done.\n")
	require.Contains(t, progress.String(), "00000001\r", "periodic ticker")
	require.Contains(t, progress.String(), "stream digest: ")
}

func TestEmptyInputStillEmitsValidStream(t *testing.T) {
	var out bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(nil))
	require.NoError(t, err)

	stats, err := runner.Run(strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.Records)
	require.Equal(t, pgcopy.HeaderSize+2, out.Len(), "header plus end marker")

	dec, err := pgcopy.NewDecoder(out.Bytes())
	require.NoError(t, err)
	_, err = dec.ReadRow(nil)
	require.ErrorIs(t, err, io.EOF)
}

func TestBadRecordFailsRun(t *testing.T) {
	var out bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(nil))
	require.NoError(t, err)

	_, err = runner.Run(strings.NewReader("     1 a\njunk!!\n"), &out)
	require.ErrorIs(t, err, errs.ErrBadRecord)
}

func TestSkipBadRecords(t *testing.T) {
	var out, progress bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(&progress), WithSkipBadRecords())
	require.NoError(t, err)

	stats, err := runner.Run(strings.NewReader("     1 a\njunk!!\n     3 c\n"), &out)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Records)
	require.Equal(t, int64(1), stats.Skipped)
	require.Contains(t, progress.String(), "ignoring bad record:")
}

func TestArityMismatchFailsRun(t *testing.T) {
	liar := NewExtractor(3, func(record []byte) ([]field.Field, error) {
		return []field.Field{field.Null()}, nil
	})

	var out bytes.Buffer
	runner, err := NewRunner(liar, WithProgressWriter(nil))
	require.NoError(t, err)

	_, err = runner.Run(strings.NewReader("x\n"), &out)
	require.ErrorIs(t, err, errs.ErrArityMismatch)
}

func TestRunFixed(t *testing.T) {
	// Three 8-byte records, no separators.
	ext := NewExtractor(1, func(record []byte) ([]field.Field, error) {
		return []field.Field{parse.Text(record, 0, 8)}, nil
	})

	var out bytes.Buffer
	runner, err := NewRunner(ext, WithFixedRecordSize(8), WithProgressWriter(nil))
	require.NoError(t, err)

	stats, err := runner.Run(strings.NewReader("aaaaaaaabbbbbbbbcccccccc"), &out)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Records)

	dec, err := pgcopy.NewDecoder(out.Bytes())
	require.NoError(t, err)

	for _, want := range []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"} {
		row, err := dec.ReadRow([]field.Kind{field.KindText})
		require.NoError(t, err)
		require.Equal(t, want, string(row[0].Bytes()))
	}
}

func TestRunFixedShortTail(t *testing.T) {
	ext := NewExtractor(1, func(record []byte) ([]field.Field, error) {
		return []field.Field{parse.Text(record, 0, 8)}, nil
	})

	var out bytes.Buffer
	runner, err := NewRunner(ext, WithFixedRecordSize(8), WithProgressWriter(nil))
	require.NoError(t, err)

	_, err = runner.Run(strings.NewReader("aaaaaaaabbb"), &out)
	require.ErrorIs(t, err, errs.ErrShortRecord)
}

func TestLongLine(t *testing.T) {
	var out bytes.Buffer
	runner, err := NewRunner(lineExtractor(), WithProgressWriter(nil), WithMaxLineLength(16))
	require.NoError(t, err)

	long := fmt.Sprintf("     1 %s\n", strings.Repeat("x", 64))
	_, err = runner.Run(strings.NewReader(long), &out)
	require.ErrorIs(t, err, errs.ErrLongLine)
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(nil)
	require.Error(t, err)

	_, err = NewRunner(NewExtractor(0, nil))
	require.ErrorIs(t, err, errs.ErrArityMismatch)

	_, err = NewRunner(lineExtractor(), WithFixedRecordSize(-1))
	require.ErrorIs(t, err, errs.ErrBadLayout)

	_, err = NewRunner(lineExtractor(), WithMaxLineLength(0))
	require.ErrorIs(t, err, errs.ErrBadLayout)

	_, err = NewRunner(lineExtractor(), WithProgressEvery(-1))
	require.ErrorIs(t, err, errs.ErrBadLayout)
}
