package waveform

import (
	"github.com/scopewave/wfmgo/pkg/sample"
)

// Digital is a packed-bit capture: one byte-width sample per record
// index, unpacked into an (N, 8*sizeof(ET)) bit matrix on demand.
type Digital struct {
	TimeAxis TimeAxis
	Meta     MetaInfo

	YByteValues sample.SampleArray

	version       int
	cachedVertVer int
	cachedVert    sample.Matrix
}

// NewDigital constructs a Digital waveform from byte-width samples.
func NewDigital(axis TimeAxis, meta MetaInfo, values sample.SampleArray) *Digital {
	return &Digital{TimeAxis: axis, Meta: meta, YByteValues: values, version: 1}
}

// RecordLength is len(y_byte_values).
func (d *Digital) RecordLength() int { return d.YByteValues.Len() }

// SetSamples replaces the byte values and invalidates the cached bit
// matrix.
func (d *Digital) SetSamples(values sample.SampleArray) {
	d.YByteValues = values
	d.version++
}

// NormalizedVerticalValues is the bit-unpacked (N, 8*sizeof(ET)) matrix.
func (d *Digital) NormalizedVerticalValues() (sample.Matrix, error) {
	if d.cachedVert.Bits != nil && d.cachedVertVer == d.version {
		return d.cachedVert, nil
	}
	m, err := sample.Digitize(d.YByteValues)
	if err != nil {
		return sample.Matrix{}, err
	}
	d.cachedVert = m
	d.cachedVertVer = d.version
	return m, nil
}

// NthBitstream returns column n of the bit matrix: the stream of bit
// values for bit position n across every sample.
func (d *Digital) NthBitstream(n int) ([]uint8, error) {
	m, err := d.NormalizedVerticalValues()
	if err != nil {
		return nil, err
	}
	out := make([]uint8, m.Rows)
	for i, row := range m.Bits {
		out[i] = row[n]
	}
	return out, nil
}
