// Package wfmfile orchestrates a full WFM file read/write: endian and
// version probing, the wfmformat assembler in both directions, the
// sample-domain bridge into pkg/waveform, and the style probe pkg/
// dispatch uses to pick a candidate codec (spec.md §4.6).
package wfmfile

import (
	"github.com/scopewave/wfmgo/internal/xopt"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
)

// Option configures a Writer's product profile.
type Option = xopt.Option[*config]

type config struct {
	endian  wfmenum.Endian
	version wfmenum.Version
	wtype   int32
	label   string
}

func newConfig() *config {
	return &config{endian: wfmenum.LittleEndian, version: wfmenum.VersionThree}
}

// WithByteOrder picks the on-disk endianness (spec §4.6 write step 1).
func WithByteOrder(e wfmenum.Endian) Option {
	return xopt.NoError(func(c *config) { c.endian = e })
}

// WithVersion picks the on-disk version string.
func WithVersion(v wfmenum.Version) Option {
	return xopt.NoError(func(c *config) { c.version = v })
}

// WithProductProfile sets WaveformHeader.wtype, the instrument-family
// tag spec.md leaves as an opaque caller-supplied value.
func WithProductProfile(wtype int32) Option {
	return xopt.NoError(func(c *config) { c.wtype = wtype })
}

// WithLabel overrides the label stamped into WaveformStaticFileInfo;
// without it, the waveform's own meta_info.waveform_label is used.
func WithLabel(label string) Option {
	return xopt.NoError(func(c *config) { c.label = label })
}
