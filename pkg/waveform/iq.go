package waveform

import (
	"github.com/scopewave/wfmgo/pkg/sample"
)

// IQ is an interleaved in-phase/quadrature capture: even indices of
// Interleaved are I samples, odd indices are Q, both sharing one
// element type.
type IQ struct {
	TimeAxis TimeAxis
	Meta     MetaInfo

	Interleaved sample.SampleArray
	IQSpacing   float64
	IQOffset    float64

	version        int
	cachedVertVer  int
	cachedVert     []complex128
	cachedHorizVer int
	cachedHoriz    []float64
}

// NewIQ constructs an IQ waveform from an interleaved raw sample array.
func NewIQ(axis TimeAxis, meta MetaInfo, interleaved sample.SampleArray, spacing, offset float64) *IQ {
	return &IQ{TimeAxis: axis, Meta: meta, Interleaved: interleaved, IQSpacing: spacing, IQOffset: offset, version: 1}
}

// RecordLength is the number of (I,Q) pairs, i.e. len(interleaved)/2.
func (w *IQ) RecordLength() int { return w.Interleaved.Len() / 2 }

// SetIAxisValues replaces the even-indexed (I) samples, lazily
// allocating the interleaved buffer at 2N if it doesn't already exist
// at the right size.
func (w *IQ) SetIAxisValues(values sample.SampleArray) {
	w.ensureInterleaved(values.ET, values.Len())
	setStrided(w.Interleaved, values, 0)
	w.version++
}

// SetQAxisValues replaces the odd-indexed (Q) samples.
func (w *IQ) SetQAxisValues(values sample.SampleArray) {
	w.ensureInterleaved(values.ET, values.Len())
	setStrided(w.Interleaved, values, 1)
	w.version++
}

func (w *IQ) ensureInterleaved(et sample.ElementType, n int) {
	if w.Interleaved.Data != nil && w.Interleaved.Len() == 2*n {
		return
	}
	w.Interleaved = sample.NewRaw(et, sample.CastFromFloat64(make([]float64, 2*n), et))
}

// setStrided writes values into every stride-2 slot of dst starting
// at startIdx (0 for I, 1 for Q). Both dst and values must share an
// element type; a type mismatch is a programmer error the teacher's
// own IQ model doesn't defend against either.
func setStrided(dst sample.SampleArray, values sample.SampleArray, startIdx int) {
	vals := sample.ToFloat64Slice(values)
	full := sample.ToFloat64Slice(dst)
	for i, v := range vals {
		full[startIdx+2*i] = v
	}
	replaced := sample.CastFromFloat64(full, dst.ET)
	copyInto(dst.Data, replaced)
}

// copyInto overwrites dst's backing array in place so callers holding
// a view onto dst.Data (for example a slice taken from w.Interleaved.Data)
// see the update.
func copyInto(dst, src any) {
	switch d := dst.(type) {
	case []int8:
		copy(d, src.([]int8))
	case []uint8:
		copy(d, src.([]uint8))
	case []int16:
		copy(d, src.([]int16))
	case []uint16:
		copy(d, src.([]uint16))
	case []int32:
		copy(d, src.([]int32))
	case []uint32:
		copy(d, src.([]uint32))
	case []int64:
		copy(d, src.([]int64))
	case []uint64:
		copy(d, src.([]uint64))
	case []float32:
		copy(d, src.([]float32))
	case []float64:
		copy(d, src.([]float64))
	}
}

// ExtentMagnitude returns the physical IQ extent magnitude:
// iq_spacing / sample_domain_spacing(ET).
func (w *IQ) ExtentMagnitude() float64 {
	return w.IQSpacing / sample.SampleDomainSpacing(w.Interleaved.ET)
}

// SetExtentMagnitude recomputes iq_spacing from a physical magnitude,
// the same asymmetric-range-aware conversion Analog.SetExtentMagnitude
// uses.
func (w *IQ) SetExtentMagnitude(magnitude float64) {
	w.IQSpacing = magnitude * sample.SampleDomainSpacing(w.Interleaved.ET)
	w.version++
}

// NormalizedVerticalValues returns the complex physical view:
// I_norm + j*Q_norm.
func (w *IQ) NormalizedVerticalValues() []complex128 {
	if w.cachedVert != nil && w.cachedVertVer == w.version {
		return w.cachedVert
	}

	norm := sample.FromRawToNormalized(w.Interleaved, w.IQSpacing, w.IQOffset).Data.([]float64)
	n := len(norm) / 2
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = complex(norm[2*i], norm[2*i+1])
	}

	w.cachedVert = out
	w.cachedVertVer = w.version
	return out
}

// NormalizedHorizontalValues is the cached time axis.
func (w *IQ) NormalizedHorizontalValues() []float64 {
	if w.cachedHoriz != nil && w.cachedHorizVer == w.version {
		return w.cachedHoriz
	}
	w.cachedHoriz = w.TimeAxis.NormalizedHorizontalValues(w.RecordLength())
	w.cachedHorizVer = w.version
	return w.cachedHoriz
}
