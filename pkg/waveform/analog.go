package waveform

import (
	"github.com/scopewave/wfmgo/pkg/sample"
)

// Analog is a single-channel oscilloscope capture: one sample array
// plus the vertical scale/offset that map raw codes to physical
// volts.
type Analog struct {
	TimeAxis TimeAxis
	Meta     MetaInfo

	YValues  sample.SampleArray
	YSpacing float64
	YOffset  float64
	YUnits   string

	version          int
	cachedVertVer    int
	cachedVert       []float64
	cachedHorizVer   int
	cachedHoriz      []float64
}

// NewAnalog constructs an Analog waveform from raw samples.
func NewAnalog(axis TimeAxis, meta MetaInfo, values sample.SampleArray, spacing, offset float64, units string) *Analog {
	return &Analog{
		TimeAxis: axis,
		Meta:     meta,
		YValues:  values,
		YSpacing: spacing,
		YOffset:  offset,
		YUnits:   units,
		version:  1,
	}
}

// RecordLength is len(y_values).
func (a *Analog) RecordLength() int { return a.YValues.Len() }

// SetSamples replaces the sample array and invalidates cached views.
func (a *Analog) SetSamples(values sample.SampleArray) {
	a.YValues = values
	a.version++
}

// NormalizedVerticalValues is the canonical physical-units view,
// cached until the next mutation.
func (a *Analog) NormalizedVerticalValues() []float64 {
	if a.cachedVert != nil && a.cachedVertVer == a.version {
		return a.cachedVert
	}

	var values []float64
	if a.YValues.Domain == sample.Normalized {
		values = sample.ToFloat64Slice(a.YValues)
	} else {
		norm := sample.FromRawToNormalized(a.YValues, a.YSpacing, a.YOffset)
		values = norm.Data.([]float64)
	}

	a.cachedVert = values
	a.cachedVertVer = a.version
	return values
}

// NormalizedHorizontalValues is the cached time axis.
func (a *Analog) NormalizedHorizontalValues() []float64 {
	if a.cachedHoriz != nil && a.cachedHorizVer == a.version {
		return a.cachedHoriz
	}
	a.cachedHoriz = a.TimeAxis.NormalizedHorizontalValues(a.RecordLength())
	a.cachedHorizVer = a.version
	return a.cachedHoriz
}

// ExtentMagnitude returns the physical y extent magnitude:
// y_spacing / sample_domain_spacing(ET).
func (a *Analog) ExtentMagnitude() float64 {
	return a.YSpacing / sample.SampleDomainSpacing(a.YValues.ET)
}

// SetExtentMagnitude recomputes y_spacing from a physical magnitude,
// symmetric across signed and unsigned element types since
// SampleDomainSpacing already is.
func (a *Analog) SetExtentMagnitude(magnitude float64) {
	a.YSpacing = magnitude * sample.SampleDomainSpacing(a.YValues.ET)
	a.version++
}

// TransformToType returns a new Analog waveform whose y_values are
// RawSample(target), with y_spacing/y_offset adjusted so that the
// physical value at every sample index is unchanged (spec §4.3's
// value-preservation contract, modulo target's own quantization).
func (a *Analog) TransformToType(target sample.ElementType) (*Analog, error) {
	if a.YValues.Domain == sample.FeatureScaled {
		// FeatureScaled -> Raw(target) collapses to a multiplication
		// by the reference magnitude (a.ExtentMagnitude()).
		refMag := a.ExtentMagnitude()
		in := sample.ToFloat64Slice(a.YValues)
		scaled := make([]float64, len(in))
		for i, x := range in {
			scaled[i] = x * refMag
		}
		newValues := sample.SampleArray{ET: target, Domain: sample.Raw, Data: sample.CastFromFloat64(scaled, target)}
		return &Analog{
			TimeAxis: a.TimeAxis,
			Meta:     a.Meta,
			YValues:  newValues,
			YSpacing: refMag * sample.SampleDomainSpacing(target),
			YOffset:  0,
			YUnits:   a.YUnits,
			version:  1,
		}, nil
	}

	newValues, err := sample.ToRaw(a.YValues, target)
	if err != nil {
		return nil, err
	}
	ratio := sample.Ratio(a.YValues.ET, target)
	shift := sample.Shift(a.YValues.ET, target)

	newSpacing := a.YSpacing / ratio
	newOffset := a.YOffset + shift*newSpacing

	return &Analog{
		TimeAxis: a.TimeAxis,
		Meta:     a.Meta,
		YValues:  newValues,
		YSpacing: newSpacing,
		YOffset:  newOffset,
		YUnits:   a.YUnits,
		version:  1,
	}, nil
}

// TransformToNormalized returns a new Analog waveform whose y_values
// carry physical values directly (domain Normalized), y_offset reset
// to 0 and y_spacing set to 1 so NormalizedVerticalValues continues to
// reproduce the same physical sequence without reapplying the old
// scale/offset.
func (a *Analog) TransformToNormalized() *Analog {
	physical := a.NormalizedVerticalValues()
	cp := append([]float64(nil), physical...)
	newValues := sample.SampleArray{ET: a.YValues.ET, Domain: sample.Normalized, Data: cp, Spacing: a.YSpacing, Offset: a.YOffset}
	return &Analog{
		TimeAxis: a.TimeAxis,
		Meta:     a.Meta,
		YValues:  newValues,
		YSpacing: 1,
		YOffset:  0,
		YUnits:   a.YUnits,
		version:  1,
	}
}
