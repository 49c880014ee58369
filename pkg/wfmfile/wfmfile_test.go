package wfmfile

import (
	"bytes"
	"testing"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/stretchr/testify/require"
)

func analogFixture() *waveform.Analog {
	axis := waveform.TimeAxis{Spacing: 1e-6, TriggerIndex: 2, Units: "s"}
	meta := waveform.NewMetaInfo()
	meta.WaveformLabel = "CH1"
	values := sample.NewRaw(sample.I16, []int16{100, 200, 300, 400})
	return waveform.NewAnalog(axis, meta, values, 0.01, 0.5, "V")
}

func TestWriterReaderAnalogRoundTrip(t *testing.T) {
	wf := analogFixture()

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, wf, WithVersion(wfmenum.VersionThree)))

	r := bytes.NewReader(buf.Bytes())
	got, err := NewReader().Read(r)
	require.NoError(t, err)

	analog, ok := got.(*waveform.Analog)
	require.True(t, ok)
	require.Equal(t, wf.YValues.Data, analog.YValues.Data)
	require.InDelta(t, wf.YSpacing, analog.YSpacing, 1e-12)
	require.InDelta(t, wf.YOffset, analog.YOffset, 1e-12)
	require.Equal(t, wf.YUnits, analog.YUnits)
	require.Equal(t, "CH1", analog.Meta.WaveformLabel)
}

func TestWriterReaderAnalogMetadataRoundTripS2(t *testing.T) {
	spacing := 1.0 / 32767
	axis := waveform.TimeAxis{Spacing: spacing, TriggerIndex: 3.0, Units: "s"}
	meta := waveform.NewMetaInfo()
	meta.WaveformLabel = "Signal A"
	meta.YOffset = 0.25
	values := sample.NewRaw(sample.I16, []int16{10, 11, 12, 32222, 32223, 32224})
	wf := waveform.NewAnalog(axis, meta, values, spacing, 0, "V")

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, wf, WithVersion(wfmenum.VersionThree)))

	got, err := NewReader().Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	analog, ok := got.(*waveform.Analog)
	require.True(t, ok)
	require.Equal(t, "Signal A", analog.Meta.WaveformLabel)
	require.InDelta(t, 0.25, analog.Meta.YOffset, 1e-12)
	require.Empty(t, analog.Meta.ExtendedMetadata)
}

func TestWriterReaderIQRoundTrip(t *testing.T) {
	axis := waveform.TimeAxis{Spacing: 1e-9, TriggerIndex: 0, Units: "s"}
	meta := waveform.NewMetaInfo()
	meta.IQCenterFrequency = 2.4e9
	interleaved := sample.NewRaw(sample.I16, []int16{1, -1, 2, -2})
	wf := waveform.NewIQ(axis, meta, interleaved, 1, 0)

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, wf))

	got, err := NewReader().Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	iq, ok := got.(*waveform.IQ)
	require.True(t, ok)
	require.Equal(t, wf.Interleaved.Data, iq.Interleaved.Data)
	require.InDelta(t, 2.4e9, iq.Meta.IQCenterFrequency, 1)
}

func TestWriterReaderDigitalRoundTrip(t *testing.T) {
	axis := waveform.TimeAxis{Spacing: 1, TriggerIndex: 0, Units: "s"}
	meta := waveform.NewMetaInfo()
	meta.DigitalProbeState[0] = 1
	values := sample.NewRaw(sample.U8, []uint8{0b10000000, 0b00000001})
	wf := waveform.NewDigital(axis, meta, values)

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, wf))

	got, err := NewReader().Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	digital, ok := got.(*waveform.Digital)
	require.True(t, ok)
	require.Equal(t, wf.YByteValues.Data, digital.YByteValues.Data)
	require.Equal(t, 1, digital.Meta.DigitalProbeState[0])
}

func TestWriteRejectsNonRawDomain(t *testing.T) {
	wf := analogFixture()
	wf.YValues = sample.FromRawToFeatureScaled(wf.YValues)

	var buf bytes.Buffer
	err := NewWriter().Write(&buf, wf)
	require.Error(t, err)
}

func TestCheckStyleOrdering(t *testing.T) {
	wf := analogFixture()
	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, wf))

	for _, candidate := range []waveform.Kind{waveform.KindDigital, waveform.KindIQ} {
		ok, err := CheckStyle(bytes.NewReader(buf.Bytes()), candidate)
		require.NoError(t, err)
		require.False(t, ok)
	}

	ok, err := CheckStyle(bytes.NewReader(buf.Bytes()), waveform.KindAnalog)
	require.NoError(t, err)
	require.True(t, ok)
}
