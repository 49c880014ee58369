package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/pkg/prim"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	require := require.New(t)
	r := New(
		Num("scale", prim.F64),
		Num("offset", prim.F64),
		Num("size", prim.U32),
		Str("units", 20),
	)

	engine := endian.GetLittleEndianEngine()
	values := Values{
		"scale":  1.5,
		"offset": -0.25,
		"size":   uint32(1024),
		"units":  "Volts",
	}

	b, err := r.PackInOrder(engine, values)
	require.NoError(err)
	require.Len(b, r.ByteLength())

	got, n, err := r.UnpackInOrder(engine, b)
	require.NoError(err)
	require.Equal(len(b), n)
	require.Equal(1.5, got["scale"])
	require.Equal(-0.25, got["offset"])
	require.Equal(uint32(1024), got["size"])
	require.Equal("Volts", got["units"])
}

func TestPackWithOrderUnknownField(t *testing.T) {
	r := New(Num("a", prim.U8))
	_, err := r.PackWithOrder(endian.GetLittleEndianEngine(), Values{"a": uint8(1)}, []string{"b"})
	require.Error(t, err)
}

func TestByteSum(t *testing.T) {
	require := require.New(t)
	r := New(Num("a", prim.U8), Num("b", prim.U8))
	sum, err := r.ByteSum(endian.GetLittleEndianEngine(), Values{"a": uint8(1), "b": uint8(2)})
	require.NoError(err)
	require.Equal(uint64(3), sum)
}

func TestConstructCoercions(t *testing.T) {
	require := require.New(t)
	r := New(Str("label", 8), Num("code", prim.U32))

	out, err := r.Construct(Values{
		"label": []byte("ABCD\x00garbage"),
		"code":  "X",
	})
	require.NoError(err)
	require.Equal("ABCD", out["label"])
	require.Equal(uint32('X'), out["code"])
}

func TestUnpackShortRead(t *testing.T) {
	r := New(Num("a", prim.U64))
	_, _, err := r.UnpackInOrder(endian.GetLittleEndianEngine(), []byte{1, 2, 3})
	require.Error(t, err)
}
