package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestZeroFieldIsNull(t *testing.T) {
	var f Field
	require.Equal(t, KindNull, f.Kind())
	require.True(t, f.IsNull())
}

func TestConstructorsSelectKind(t *testing.T) {
	when := time.Date(2003, time.June, 10, 21, 5, 0, 0, time.Local)

	tests := []struct {
		name string
		f    Field
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"char", Char('M'), KindChar},
		{"short", Short(-7), KindShort},
		{"int", Int(123456), KindInt},
		{"bigint", BigInt(1 << 40), KindBigInt},
		{"float", Float(1.5), KindFloat},
		{"double", Double(3.25), KindDouble},
		{"text", Text([]byte("abc")), KindText},
		{"jdate", JulianDate(2000.5), KindJulianDate},
		{"date", Date(when), KindDate},
		{"datetime", DateTime(when), KindDateTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.kind, tt.f.Kind())
			require.Equal(t, tt.kind == KindNull, tt.f.IsNull())
		})
	}
}

func TestAccessors(t *testing.T) {
	require := require.New(t)

	require.True(Bool(true).Bool())
	require.False(Bool(false).Bool())
	require.Equal(byte('x'), Char('x').Char())
	require.Equal(int16(-32768), Short(-32768).Int16())
	require.Equal(int32(42), Int(42).Int32())
	require.Equal(int64(-1), BigInt(-1).Int64())
	require.Equal(float32(1.5), Float(1.5).Float32())
	require.Equal(3.25, Double(3.25).Float64())
	require.Equal(2451545.0, JulianDate(2451545.0).Float64())
	require.Equal([]byte("NGC 224"), Text([]byte("NGC 224")).Bytes())
	require.Equal(7, Text([]byte("NGC 224")).Length())

	when := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.Local)
	require.True(when.Equal(Date(when).Time()))
	require.True(when.Equal(DateTime(when).Time()))
}

func TestAccessorPanicsOnWrongKind(t *testing.T) {
	tests := []struct {
		name string
		read func()
	}{
		{"bool from null", func() { Null().Bool() }},
		{"int32 from short", func() { Short(1).Int32() }},
		{"float64 from float", func() { Float(1).Float64() }},
		{"bytes from double", func() { Double(1).Bytes() }},
		{"time from text", func() { Text(nil).Time() }},
		{"char from bool", func() { Bool(true).Char() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Panics(t, tt.read)
		})
	}
}

func TestNullIsNotZero(t *testing.T) {
	require.False(t, Int(0).IsNull())
	require.False(t, Text([]byte{}).IsNull())
	require.False(t, Text(nil).IsNull())
	require.True(t, Null().IsNull())
}

func TestTextAliasesCallerBytes(t *testing.T) {
	backing := []byte("abc")
	f := Text(backing)
	backing[0] = 'x'
	require.Equal(t, []byte("xbc"), f.Bytes())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "null", KindNull.String())
	require.Equal(t, "bigint", KindBigInt.String())
	require.Equal(t, "jdate", KindJulianDate.String())
	require.Equal(t, "kind(99)", Kind(99).String())
}

func TestFieldString(t *testing.T) {
	require.Equal(t, "null", Null().String())
	require.Equal(t, "int(42)", Int(42).String())
	require.Equal(t, `text("a b")`, Text([]byte("a b")).String())
}
