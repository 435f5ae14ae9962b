package pgcopy

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/catcopy/catcopy/errs"
	"github.com/catcopy/catcopy/field"
)

func TestRoundTrip(t *testing.T) {
	when := Epoch.Add(36 * time.Hour)

	kinds := []field.Kind{
		field.KindNull,
		field.KindBool,
		field.KindChar,
		field.KindShort,
		field.KindInt,
		field.KindBigInt,
		field.KindFloat,
		field.KindDouble,
		field.KindText,
		field.KindJulianDate,
		field.KindDate,
		field.KindDateTime,
	}
	row := []field.Field{
		field.Null(),
		field.Bool(true),
		field.Char('G'),
		field.Short(-300),
		field.Int(1 << 30),
		field.BigInt(-1 << 40),
		field.Float(0.25),
		field.Double(-1e100),
		field.Text([]byte("NGC 224")),
		field.JulianDate(2004.0),
		field.Date(Epoch.Add(48 * time.Hour)),
		field.DateTime(when),
	}

	var out bytes.Buffer
	enc := NewEncoder(&out)
	require.NoError(t, enc.WriteRow(row))
	require.NoError(t, enc.WriteRow(row))
	require.NoError(t, enc.Close())

	dec, err := NewDecoder(out.Bytes())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := dec.ReadRow(kinds)
		require.NoError(t, err)
		require.Len(t, got, len(row))

		require.True(t, got[0].IsNull())
		require.True(t, got[1].Bool())
		require.Equal(t, byte('G'), got[2].Char())
		require.Equal(t, int16(-300), got[3].Int16())
		require.Equal(t, int32(1<<30), got[4].Int32())
		require.Equal(t, int64(-1<<40), got[5].Int64())
		require.Equal(t, float32(0.25), got[6].Float32())
		require.Equal(t, -1e100, got[7].Float64())
		require.Equal(t, "NGC 224", string(got[8].Bytes()))
		require.Equal(t, 2004.0, got[9].Float64())
		require.Equal(t, Epoch.Add(48*time.Hour).Unix(), got[10].Time().Unix())
		require.Equal(t, when.Unix(), got[11].Time().Unix())
	}

	_, err = dec.ReadRow(kinds)
	require.ErrorIs(t, err, io.EOF, "end marker reached")
	_, err = dec.ReadRow(kinds)
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoderRejectsBadSignature(t *testing.T) {
	data := make([]byte, HeaderSize)
	copy(data, "PGCOPY\nbroken stream")

	_, err := NewDecoder(data)
	require.ErrorIs(t, err, errs.ErrBadSignature)
}

func TestDecoderRejectsShortHeader(t *testing.T) {
	_, err := NewDecoder(Signature)
	require.ErrorIs(t, err, errs.ErrTruncatedStream)
}

func TestDecoderRejectsUnknownFlags(t *testing.T) {
	data := append([]byte{}, Signature...)
	data = append(data, 0x80, 0, 0, 0) // flags with a critical bit set
	data = append(data, 0, 0, 0, 0)

	_, err := NewDecoder(data)
	require.ErrorIs(t, err, errs.ErrBadHeader)
}

func TestDecoderSkipsHeaderExtension(t *testing.T) {
	data := append([]byte{}, Signature...)
	data = append(data, 0, 0, 0, 0)
	data = append(data, 0, 0, 0, 3) // 3-byte extension
	data = append(data, 'e', 'x', 't')
	data = append(data, 0xff, 0xff)

	dec, err := NewDecoder(data)
	require.NoError(t, err)

	_, err = dec.ReadRow(nil)
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoderArityMismatch(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)
	require.NoError(t, enc.WriteRow([]field.Field{field.Int(1), field.Int(2)}))

	dec, err := NewDecoder(out.Bytes())
	require.NoError(t, err)

	_, err = dec.ReadRow([]field.Kind{field.KindInt})
	require.ErrorIs(t, err, errs.ErrArityMismatch)
}

func TestDecoderFieldSizeMismatch(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)
	require.NoError(t, enc.WriteRow([]field.Field{field.Int(1)}))

	dec, err := NewDecoder(out.Bytes())
	require.NoError(t, err)

	// A 4-byte payload read as a short has the wrong size.
	_, err = dec.ReadRow([]field.Kind{field.KindShort})
	require.ErrorIs(t, err, errs.ErrFieldSize)
}

func TestDecoderTruncatedRow(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)
	require.NoError(t, enc.WriteRow([]field.Field{field.Text([]byte("abcdef"))}))

	data := out.Bytes()
	dec, err := NewDecoder(data[:len(data)-3])
	require.NoError(t, err)

	_, err = dec.ReadRow([]field.Kind{field.KindText})
	require.ErrorIs(t, err, errs.ErrTruncatedStream)
}

func TestDecoderClonesText(t *testing.T) {
	var out bytes.Buffer
	enc := NewEncoder(&out)
	require.NoError(t, enc.WriteRow([]field.Field{field.Text([]byte("abc"))}))

	data := out.Bytes()
	dec, err := NewDecoder(data)
	require.NoError(t, err)

	got, err := dec.ReadRow([]field.Kind{field.KindText})
	require.NoError(t, err)

	for i := range data {
		data[i] = 0
	}
	require.Equal(t, "abc", string(got[0].Bytes()))
}
