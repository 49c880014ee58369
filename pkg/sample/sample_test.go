package sample

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatioIdentity(t *testing.T) {
	require := require.New(t)
	for _, et := range []ElementType{I8, U8, I16, U16, I32, U32, I64, U64, F32, F64} {
		require.InDelta(1.0, Ratio(et, et), 1e-9, "ratio(%v,%v)", et, et)
	}
}

func TestToRawIdentity(t *testing.T) {
	require := require.New(t)
	s := NewRaw(I16, []int16{10, 11, 12, 32222, 32223, 32224})
	out, err := ToRaw(s, I16)
	require.NoError(err)
	require.Equal([]int16{10, 11, 12, 32222, 32223, 32224}, out.Data)
}

func TestFromRawToFeatureScaled(t *testing.T) {
	require := require.New(t)
	s := NewRaw(I16, []int16{32767, -32768})
	fs := FromRawToFeatureScaled(s)
	data := fs.Data.([]float64)
	require.InDelta(1.0, data[0], 1e-9)
	require.InDelta(-32768.0/32767, data[1], 1e-9)
}

func TestFromRawToNormalized(t *testing.T) {
	require := require.New(t)
	s := NewRaw(I16, []int16{1, 2, 3})
	n := FromRawToNormalized(s, 2.0, 0.5)
	require.Equal(Normalized, n.Domain)
	data := n.Data.([]float64)
	require.InDelta(2.5, data[0], 1e-9)
	require.InDelta(4.5, data[1], 1e-9)
	require.InDelta(6.5, data[2], 1e-9)
}

func TestDigitizePackBitsRoundTrip(t *testing.T) {
	require := require.New(t)
	s := NewRaw(I8, []int8{-1, 0, 1, 2})
	m, err := Digitize(s)
	require.NoError(err)
	require.Equal(4, m.Rows)
	require.Equal(8, m.Cols)

	// -1 as int8 is 0xFF -> all bits set.
	require.Equal([]uint8{1, 1, 1, 1, 1, 1, 1, 1}, m.Bits[0])
	// 0 -> all zero bits.
	require.Equal([]uint8{0, 0, 0, 0, 0, 0, 0, 0}, m.Bits[1])

	back, err := PackBits(m, I8)
	require.NoError(err)
	require.Equal([]int8{-1, 0, 1, 2}, back.Data)
}

func TestSignedUnsignedCrossing(t *testing.T) {
	require := require.New(t)
	s := NewRaw(U8, []uint8{0, 255})
	out, err := ToRaw(s, I8)
	require.NoError(err)
	data := out.Data.([]int8)
	// 0 should map near the bottom of i8's range, 255 near the top.
	require.InDelta(-128, float64(data[0]), 1)
	require.InDelta(127, float64(data[1]), 1)
}
