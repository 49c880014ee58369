package wfmfile

import (
	"fmt"
	"io"

	"github.com/scopewave/wfmgo/internal/xopt"
	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/pkg/wfmformat"
	"github.com/scopewave/wfmgo/werr"
)

// Writer encodes a waveform.Waveform into a WFM byte stream, mirroring
// Reader's pipeline in reverse (spec §4.6 write steps 1-4). It refuses
// to emit a file whose assembled records would fail invariants I1-I6.
type Writer struct{}

// NewWriter returns a ready-to-use Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write fills an assembler from wf and emits it to w. The waveform's
// vertical values must already be in RawSample domain; callers holding
// FeatureScaled or Normalized samples should call TransformToType
// first, since picking a target element type silently on their behalf
// isn't this package's call to make.
func (wtr *Writer) Write(w io.Writer, wf waveform.Waveform, opts ...Option) error {
	cfg := newConfig()
	if err := xopt.Apply(cfg, opts...); err != nil {
		return err
	}

	a := wfmformat.New(cfg.endian, cfg.version)
	a.SetupPixelMap(0, 0)

	var err error
	switch v := wf.(type) {
	case *waveform.Analog:
		err = fillAnalog(a, v, cfg)
	case *waveform.IQ:
		err = fillIQ(a, v, cfg)
	case *waveform.Digital:
		err = fillDigital(a, v, cfg)
	default:
		err = fmt.Errorf("wfmfile: %w: unsupported waveform type %T", werr.ErrInvariantViolation, wf)
	}
	if err != nil {
		return err
	}

	if err := a.CheckInvariants(); err != nil {
		return err
	}

	data, err := a.Marshal()
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func emptyBuffer(et sample.ElementType) sample.SampleArray {
	return sample.SampleArray{ET: et, Domain: sample.Raw, Data: sample.CastFromFloat64(nil, et)}
}

// curveOffsets computes the CurveInformation byte offsets implied by
// the pre/curve/post element counts, satisfying invariant I6 by
// construction.
func curveOffsets(preLen, curveLen, postLen, bpp int) (preStart, dataStart, postStart, postStop uint32) {
	preStart = 0
	dataStart = uint32(preLen * bpp)
	postStart = dataStart + uint32(curveLen*bpp)
	postStop = postStart + uint32(postLen*bpp)
	return
}

func labelOrDefault(cfgLabel, metaLabel string) string {
	if cfgLabel != "" {
		return cfgLabel
	}
	return metaLabel
}

func fillAnalog(a *wfmformat.Assembler, wf *waveform.Analog, cfg *config) error {
	if wf.YValues.Domain != sample.Raw {
		return fmt.Errorf("wfmfile: %w: analog waveform must hold RawSample values before writing", werr.ErrInvariantViolation)
	}
	format, err := wfmenum.ElementTypeToCurveFormat(wf.YValues.ET)
	if err != nil {
		return err
	}

	a.PreBuffer = emptyBuffer(wf.YValues.ET)
	a.CurveBuffer = wf.YValues
	a.PostBuffer = emptyBuffer(wf.YValues.ET)

	lo, hi := sample.Range(wf.YValues.ET)
	a.SetupExplicitDimensions(wfmformat.DimensionParams{
		Scale: wf.YSpacing, Offset: wf.YOffset, Size: uint32(wf.RecordLength()), Units: wf.YUnits,
		ExtentMin: lo*wf.YSpacing + wf.YOffset, ExtentMax: hi*wf.YSpacing + wf.YOffset,
		Resolution: wf.YSpacing, Format: format, Storage: wfmenum.ExplicitSampleStorage,
	}, nil)

	setupTimeDimension(a, wf.TimeAxis)

	bpp := wf.YValues.ET.ByteLen()
	preStart, dataStart, postStart, postStop := curveOffsets(0, wf.RecordLength(), 0, bpp)
	a.SetupUpdateSpecs(wfmformat.FastFrame{
		TrigOffset: -wf.TimeAxis.TriggerIndex * wf.TimeAxis.Spacing,
		StateFlags: 1, PreStart: preStart, DataStart: dataStart, PostStart: postStart, PostStop: postStop, Eob: postStop,
	}, nil)

	a.SetupHeader(cfg.wtype, wfmenum.DataTypeAnalog, 0, 0)
	a.Tekmeta = tekmetaFromMeta(wf.Meta, waveform.KindAnalog)
	return a.SetupFileInfo(labelOrDefault(cfg.label, wf.Meta.WaveformLabel))
}

func fillIQ(a *wfmformat.Assembler, wf *waveform.IQ, cfg *config) error {
	if wf.Interleaved.Domain != sample.Raw {
		return fmt.Errorf("wfmfile: %w: IQ waveform must hold RawSample values before writing", werr.ErrInvariantViolation)
	}
	format, err := wfmenum.ElementTypeToCurveFormat(wf.Interleaved.ET)
	if err != nil {
		return err
	}

	a.PreBuffer = emptyBuffer(wf.Interleaved.ET)
	a.CurveBuffer = wf.Interleaved
	a.PostBuffer = emptyBuffer(wf.Interleaved.ET)

	lo, hi := sample.Range(wf.Interleaved.ET)
	// Open question decision (SPEC_FULL.md §4): offset maps to
	// iq_axis_offset, not iq_axis_spacing.
	a.SetupExplicitDimensions(wfmformat.DimensionParams{
		Scale: wf.IQSpacing, Offset: wf.IQOffset, Size: uint32(wf.Interleaved.Len()), Units: "V",
		ExtentMin: lo*wf.IQSpacing + wf.IQOffset, ExtentMax: hi*wf.IQSpacing + wf.IQOffset,
		Resolution: wf.IQSpacing, Format: format, Storage: wfmenum.ExplicitSampleStorage,
	}, nil)

	setupTimeDimension(a, wf.TimeAxis)

	bpp := wf.Interleaved.ET.ByteLen()
	preStart, dataStart, postStart, postStop := curveOffsets(0, wf.Interleaved.Len(), 0, bpp)
	a.SetupUpdateSpecs(wfmformat.FastFrame{
		TrigOffset: -wf.TimeAxis.TriggerIndex * wf.TimeAxis.Spacing,
		StateFlags: 1, PreStart: preStart, DataStart: dataStart, PostStart: postStart, PostStop: postStop, Eob: postStop,
	}, nil)

	a.SetupHeader(cfg.wtype, wfmenum.DataTypeIQ, 0, 0)
	a.Tekmeta = tekmetaFromMeta(wf.Meta, waveform.KindIQ)
	return a.SetupFileInfo(labelOrDefault(cfg.label, wf.Meta.WaveformLabel))
}

func fillDigital(a *wfmformat.Assembler, wf *waveform.Digital, cfg *config) error {
	if wf.YByteValues.Domain != sample.Raw {
		return fmt.Errorf("wfmfile: %w: digital waveform must hold RawSample values before writing", werr.ErrInvariantViolation)
	}
	format, err := wfmenum.ElementTypeToCurveFormat(wf.YByteValues.ET)
	if err != nil {
		return err
	}

	a.PreBuffer = emptyBuffer(wf.YByteValues.ET)
	a.CurveBuffer = wf.YByteValues
	a.PostBuffer = emptyBuffer(wf.YByteValues.ET)

	lo, hi := sample.Range(wf.YByteValues.ET)
	a.SetupExplicitDimensions(wfmformat.DimensionParams{
		Scale: 1, Offset: 0, Size: uint32(wf.RecordLength()), Units: "",
		ExtentMin: lo, ExtentMax: hi, Resolution: 1, Format: format, Storage: wfmenum.ExplicitSampleStorage,
	}, nil)

	setupTimeDimension(a, wf.TimeAxis)

	bpp := wf.YByteValues.ET.ByteLen()
	preStart, dataStart, postStart, postStop := curveOffsets(0, wf.RecordLength(), 0, bpp)
	a.SetupUpdateSpecs(wfmformat.FastFrame{
		TrigOffset: -wf.TimeAxis.TriggerIndex * wf.TimeAxis.Spacing,
		StateFlags: 1, PreStart: preStart, DataStart: dataStart, PostStart: postStart, PostStop: postStop, Eob: postStop,
	}, nil)

	a.SetupHeader(cfg.wtype, wfmenum.DataTypeDigital, 0, 0)
	a.Tekmeta = tekmetaFromMeta(wf.Meta, waveform.KindDigital)
	return a.SetupFileInfo(labelOrDefault(cfg.label, wf.Meta.WaveformLabel))
}

// setupTimeDimension fills the implicit dimension and both time base
// slots from a waveform's time axis. real_pt_spacing is a unit
// constant (1): the physical spacing lives in the implicit dimension's
// own f64 scale field, which is what NormalizedHorizontalValues
// actually reads back on the waveform model side.
func setupTimeDimension(a *wfmformat.Assembler, axis waveform.TimeAxis) {
	a.SetupImplicitDimensions(wfmformat.DimensionParams{
		Scale: axis.Spacing, Offset: -axis.TriggerIndex * axis.Spacing, Units: axis.Units,
		Format: wfmenum.ExplicitFP64, Storage: wfmenum.ExplicitSampleStorage,
	}, nil)
	a.SetupTimeBaseInfo(0, 1, 0, 0)
	a.SetupTimeBaseInfo(1, 1, 0, 0)
}
