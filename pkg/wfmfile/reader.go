package wfmfile

import (
	"fmt"
	"io"

	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/pkg/wfmformat"
	"github.com/scopewave/wfmgo/werr"
)

// Reader decodes a WFM byte stream into a concrete waveform.Waveform,
// picking Analog/IQ/Digital from the header's own data_type field
// (spec §4.6 read pipeline).
type Reader struct{}

// NewReader returns a ready-to-use Reader. Reader holds no state
// across calls and is safe to reuse, but not to share across
// goroutines reading concurrently (pkg/parallel gives every worker its
// own Reader instead).
func NewReader() *Reader {
	return &Reader{}
}

// Read rewinds r to its start, consumes it to EOF and decodes it.
func (rd *Reader) Read(r io.ReadSeeker) (waveform.Waveform, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	a, err := wfmformat.Parse(data)
	if err != nil {
		return nil, err
	}

	return buildWaveform(a)
}

func readAll(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func buildWaveform(a *wfmformat.Assembler) (waveform.Waveform, error) {
	dataType, _ := a.Header["data_type"].(int32)
	meta := metaFromTekmeta(a.Tekmeta)
	axis := timeAxisFrom(a)

	switch dataType {
	case wfmenum.DataTypeAnalog:
		spacing, _ := a.ExplicitDim[0]["scale"].(float64)
		offset, _ := a.ExplicitDim[0]["offset"].(float64)
		units, _ := a.ExplicitDim[0]["units"].(string)
		return waveform.NewAnalog(axis, meta, a.CurveBuffer, spacing, offset, units), nil

	case wfmenum.DataTypeIQ:
		spacing, _ := a.ExplicitDim[0]["scale"].(float64)
		offset, _ := a.ExplicitDim[0]["offset"].(float64)
		return waveform.NewIQ(axis, meta, a.CurveBuffer, spacing, offset), nil

	case wfmenum.DataTypeDigital:
		return waveform.NewDigital(axis, meta, a.CurveBuffer), nil

	default:
		return nil, fmt.Errorf("wfmfile: %w: unrecognized header.data_type %d", werr.ErrBadFormat, dataType)
	}
}

func timeAxisFrom(a *wfmformat.Assembler) waveform.TimeAxis {
	spacing, _ := a.ImplicitDim[0]["scale"].(float64)
	trigOffset, _ := a.UpdateSpecPrimary["trig_offset"].(float64)
	units, _ := a.ImplicitDim[0]["units"].(string)

	trigger := 0.0
	if spacing != 0 {
		trigger = -trigOffset / spacing
	}

	return waveform.TimeAxis{Spacing: spacing, TriggerIndex: trigger, Units: units}
}
