package mat

import (
	"testing"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/stretchr/testify/require"
)

func TestToFromVariablesRoundTrip(t *testing.T) {
	axis := waveform.TimeAxis{Spacing: 1e-3, TriggerIndex: 0, Units: "s"}
	values := sample.NewRaw(sample.I16, []int16{-100, 0, 100, 200})
	wf := waveform.NewAnalog(axis, waveform.NewMetaInfo(), values, 0.05, 1.0, "V")

	vars := ToVariables(wf)
	require.Contains(t, vars, "t")
	require.Contains(t, vars, "y")

	got, err := FromVariables(vars, 1e-3)
	require.NoError(t, err)

	want := wf.NormalizedVerticalValues()
	for i, v := range got.NormalizedVerticalValues() {
		require.InDelta(t, want[i], v, got.YSpacing)
	}
}

func TestFromVariablesRejectsMissingKeys(t *testing.T) {
	_, err := FromVariables(map[string]any{"t": []float64{0, 1}}, 1)
	require.Error(t, err)
}
