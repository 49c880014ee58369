package dispatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/werr"
	"github.com/stretchr/testify/require"
)

func analogFixture() *waveform.Analog {
	axis := waveform.TimeAxis{Spacing: 1e-6, TriggerIndex: 2, Units: "s"}
	values := sample.NewRaw(sample.I16, []int16{100, 200, 300, 400})
	return waveform.NewAnalog(axis, waveform.NewMetaInfo(), values, 0.01, 0.5, "V")
}

func TestOpenUnknownExtension(t *testing.T) {
	_, err := Open("nope.bin")
	require.ErrorIs(t, err, werr.ErrUnknownExtension)
}

func TestWriteReadWFMRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.wfm")

	wf := analogFixture()
	require.NoError(t, Write(path, wf))

	codec, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, waveform.KindAnalog, codec.Kind)

	got, err := codec.Read()
	require.NoError(t, err)
	analog, ok := got.(*waveform.Analog)
	require.True(t, ok)
	require.Equal(t, wf.YValues.Data, analog.YValues.Data)
}

func TestWriteReadCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.csv")

	wf := analogFixture()
	require.NoError(t, Write(path, wf))

	codec, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, waveform.KindAnalog, codec.Kind)

	got, err := codec.Read()
	require.NoError(t, err)
	_, ok := got.(*waveform.Analog)
	require.True(t, ok)
}

func TestWriteMatUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.mat")

	err := Write(path, analogFixture())
	require.True(t, errors.Is(err, werr.ErrBadFormat))
}

func TestOpenNoStyleMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.wfm")
	require.NoError(t, os.WriteFile(path, []byte("not a wfm file at all"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}
