package waveform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scopewave/wfmgo/pkg/sample"
)

func TestAnalogNormalizedVerticalValuesCaching(t *testing.T) {
	require := require.New(t)
	a := NewAnalog(TimeAxis{Spacing: 1, TriggerIndex: 0, Units: "s"}, NewMetaInfo(),
		sample.NewRaw(sample.I16, []int16{1, 2, 3}), 1.0/32767, 0, "V")

	v1 := a.NormalizedVerticalValues()
	v2 := a.NormalizedVerticalValues()
	require.Equal(v1, v2)

	a.SetSamples(sample.NewRaw(sample.I16, []int16{4, 5, 6}))
	v3 := a.NormalizedVerticalValues()
	require.NotEqual(v1, v3)
}

func TestAnalogHorizontalValuesS1(t *testing.T) {
	require := require.New(t)
	spacing := 1.0 / 32767
	a := NewAnalog(TimeAxis{Spacing: spacing, TriggerIndex: 3.0, Units: "s"}, NewMetaInfo(),
		sample.NewRaw(sample.I16, []int16{10, 11, 12, 32222, 32223, 32224}), spacing, 0, "V")

	require.Equal(6, a.RecordLength())
	horiz := a.NormalizedHorizontalValues()
	require.Len(horiz, 6)
	require.InDelta(-3*spacing, horiz[0], 1e-12)
}

func TestDigitalBitstreamS3(t *testing.T) {
	require := require.New(t)

	// round(max(i8)/3, 1) = round(127/3, 1) = 42.3, applied to
	// [-1, 0, 1, 2] then truncated into int8: [-42, 0, 42, 84].
	d := NewDigital(TimeAxis{Spacing: 1}, NewMetaInfo(), sample.NewRaw(sample.I8, []int8{-42, 0, 42, 84}))

	m, err := d.NormalizedVerticalValues()
	require.NoError(err)
	require.Equal([][]uint8{
		{1, 1, 0, 1, 0, 1, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 1, 0, 1, 0},
		{0, 1, 0, 1, 0, 1, 0, 0},
	}, m.Bits)

	bit0, err := d.NthBitstream(0)
	require.NoError(err)
	require.Equal([]uint8{1, 0, 0, 0}, bit0)
}

func TestIQNormalizedVerticalValuesS4(t *testing.T) {
	require := require.New(t)
	maxI16 := 32767.0

	i := []int16{0, int16(1 * maxI16 / 3), int16(2 * maxI16 / 3), int16(maxI16)}
	q := []int16{int16(-3 * maxI16 / 3), int16(-2 * maxI16 / 3), int16(-1 * maxI16 / 3), 0}

	iq := NewIQ(TimeAxis{Spacing: 1, TriggerIndex: 2.5}, NewMetaInfo(), sample.NewRaw(sample.I16, make([]int16, 8)), 1, 0.1)
	iq.SetExtentMagnitude(0.1)
	iq.SetIAxisValues(sample.NewRaw(sample.I16, i))
	iq.SetQAxisValues(sample.NewRaw(sample.I16, q))

	require.Equal(4, iq.RecordLength())
	require.InDelta(0.1, iq.ExtentMagnitude(), 1e-9)

	horiz := iq.NormalizedHorizontalValues()
	require.InDeltaSlice([]float64{-2.5, -1.5, -0.5, 0.5}, horiz, 1e-9)

	vert := iq.NormalizedVerticalValues()
	want := []complex128{
		complex(0.100, 0.050),
		complex(0.117, 0.067),
		complex(0.133, 0.083),
		complex(0.150, 0.100),
	}
	require.Len(vert, 4)
	for idx, w := range want {
		got := complex(round3(real(vert[idx])), round3(imag(vert[idx])))
		require.InDelta(real(w), real(got), 1e-9, "sample %d real", idx)
		require.InDelta(imag(w), imag(got), 1e-9, "sample %d imag", idx)
	}
}

func TestAnalogExtentMagnitudeRoundTrip(t *testing.T) {
	require := require.New(t)
	a := NewAnalog(TimeAxis{Spacing: 1}, NewMetaInfo(), sample.NewRaw(sample.I16, []int16{0, 1, 2}), 0, 0, "V")

	a.SetExtentMagnitude(0.1)
	require.InDelta(0.1/65535, a.YSpacing, 1e-12)
	require.InDelta(0.1, a.ExtentMagnitude(), 1e-9)

	u := NewAnalog(TimeAxis{Spacing: 1}, NewMetaInfo(), sample.NewRaw(sample.U8, []uint8{0, 1, 2}), 0, 0, "V")
	u.SetExtentMagnitude(0.5)
	require.InDelta(0.5/255, u.YSpacing, 1e-12)
	require.InDelta(0.5, u.ExtentMagnitude(), 1e-9)
}

func TestIQExtentMagnitudeRoundTrip(t *testing.T) {
	require := require.New(t)
	iq := NewIQ(TimeAxis{Spacing: 1}, NewMetaInfo(), sample.NewRaw(sample.I16, make([]int16, 2)), 0, 0)

	iq.SetExtentMagnitude(0.1)
	require.InDelta(0.1/65535, iq.IQSpacing, 1e-12)
	require.InDelta(0.1, iq.ExtentMagnitude(), 1e-9)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
