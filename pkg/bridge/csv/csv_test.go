package csv

import (
	"bytes"
	"testing"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCSVRoundTrip(t *testing.T) {
	axis := waveform.TimeAxis{Spacing: 1e-3, TriggerIndex: 0, Units: "s"}
	values := sample.NewRaw(sample.I16, []int16{-100, 0, 100, 200})
	wf := waveform.NewAnalog(axis, waveform.NewMetaInfo(), values, 0.05, 1.0, "V")

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, wf))

	got, err := DecodeCSV(bytes.NewReader(buf.Bytes()), 1e-3)
	require.NoError(t, err)

	want := wf.NormalizedVerticalValues()
	for i, v := range got.NormalizedVerticalValues() {
		require.InDelta(t, want[i], v, got.YSpacing)
	}
}

func TestDecodeCSVRejectsBadHeader(t *testing.T) {
	_, err := DecodeCSV(bytes.NewReader([]byte("a,b\n1,2\n")), 1)
	require.Error(t, err)
}
