package parallel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmfile"
	"github.com/stretchr/testify/require"
)

func analogFixture(label string) *waveform.Analog {
	axis := waveform.TimeAxis{Spacing: 1e-6, TriggerIndex: 0, Units: "s"}
	meta := waveform.NewMetaInfo()
	meta.WaveformLabel = label
	values := sample.NewRaw(sample.I16, []int16{1, 2, 3, 4})
	return waveform.NewAnalog(axis, meta, values, 1, 0, "V")
}

func TestWriteReadFilesInParallelRoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.wfm"),
		filepath.Join(dir, "b.wfm"),
		filepath.Join(dir, "c.wfm"),
	}
	wfs := []waveform.Waveform{analogFixture("A"), analogFixture("B"), analogFixture("C")}

	require.NoError(t, WriteFilesInParallel(paths, wfs, 2))

	results, err := ReadFilesInParallel(paths, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	labels := make(map[string]bool)
	for _, r := range results {
		analog, ok := r.Waveform.(*waveform.Analog)
		require.True(t, ok)
		labels[analog.Meta.WaveformLabel] = true
	}
	require.True(t, labels["A"] && labels["B"] && labels["C"])
}

func TestReadFilesInParallelFirstFailureWins(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wfm")
	bad := filepath.Join(dir, "missing.wfm")

	require.NoError(t, wfmfile.NewWriter().Write(mustCreate(t, good), analogFixture("A")))

	_, err := ReadFilesInParallel([]string{good, bad}, 2)
	require.Error(t, err)
}

func TestWriteFilesInParallelLengthMismatch(t *testing.T) {
	err := WriteFilesInParallel([]string{"a.wfm"}, nil, 1)
	require.Error(t, err)
}

func mustCreate(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
