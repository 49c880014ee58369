package prim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scopewave/wfmgo/endian"
)

func TestRoundTripScalars(t *testing.T) {
	require := require.New(t)
	le := endian.GetLittleEndianEngine()
	be := endian.GetBigEndianEngine()

	for _, engine := range []endian.EndianEngine{le, be} {
		buf := make([]byte, 8)

		PackU16(engine, buf, 0xBEEF)
		u16, err := UnpackU16(engine, buf)
		require.NoError(err)
		require.Equal(uint16(0xBEEF), u16)

		PackI32(engine, buf, -12345)
		i32, err := UnpackI32(engine, buf)
		require.NoError(err)
		require.Equal(int32(-12345), i32)

		PackF64(engine, buf, 3.14159)
		f64, err := UnpackF64(engine, buf)
		require.NoError(err)
		require.InDelta(3.14159, f64, 1e-12)
	}
}

func TestByteLen(t *testing.T) {
	require := require.New(t)
	require.Equal(1, I8.ByteLen())
	require.Equal(2, U16.ByteLen())
	require.Equal(4, F32.ByteLen())
	require.Equal(8, U64.ByteLen())
}

func TestPackStringNullPad(t *testing.T) {
	require := require.New(t)
	dst := make([]byte, 8)
	n := PackString(dst, "hi", 8)
	require.Equal(8, n)
	require.Equal(byte('h'), dst[0])
	require.Equal(byte('i'), dst[1])
	require.Equal(byte(0), dst[2])

	s, err := UnpackString(dst, 8)
	require.NoError(err)
	require.Equal("hi", s)
}

func TestUnpackStringShort(t *testing.T) {
	_, err := UnpackString([]byte{1, 2}, 8)
	require.Error(t, err)
}

func TestByteSum(t *testing.T) {
	require := require.New(t)
	require.Equal(uint64(0), ByteSum(nil))
	require.Equal(uint64(1+2+255), ByteSum([]byte{1, 2, 255}))
}

func TestElementTypeString(t *testing.T) {
	require := require.New(t)
	require.Equal("i16", I16.String())
	require.Equal("f64", F64.String())
}
