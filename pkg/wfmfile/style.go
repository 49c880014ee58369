package wfmfile

import (
	"io"

	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/pkg/wfmformat"
)

// CheckStyle probes r for candidate: does this file look like a WFM of
// that waveform kind? Rather than hand-rolling the byte-11 seek/peek
// spec.md describes, the probe reuses wfmformat.Parse directly -- a
// style probe isn't a hot path, and Parse already tolerates the
// missing-checksum/missing-tekmeta cases the probe itself would
// otherwise have to special-case again.
func CheckStyle(r io.ReadSeeker, candidate waveform.Kind) (bool, error) {
	data, err := readAll(r)
	if err != nil {
		return false, err
	}

	a, err := wfmformat.Parse(data)
	if err != nil {
		return false, nil
	}

	return acceptsKind(a, candidate), nil
}

// acceptsKind asks candidate's recognized metadata-key family whether
// the parsed tekmeta block belongs to it; every kind falls back to the
// header's own data_type field when none of its keys are present
// (spec §4.6's documented fallback, applied to all three kinds).
func acceptsKind(a *wfmformat.Assembler, candidate waveform.Kind) bool {
	meta := a.Tekmeta
	dataType, _ := a.Header["data_type"].(int32)

	switch candidate {
	case waveform.KindDigital:
		if hasAnyDigitalProbeKey(meta) {
			return true
		}
		return dataType == wfmenum.DataTypeDigital

	case waveform.KindIQ:
		if hasAnyKey(meta, "iq_center_frequency", "iq_fft_length", "iq_resolution_bandwidth", "iq_span", "iq_window_type", "iq_sample_rate") {
			return true
		}
		return dataType == wfmenum.DataTypeIQ

	case waveform.KindAnalog:
		if hasAnyKey(meta, "y_offset", "y_position", "analog_thumbnail", "clipping_initialized", "interpreter_factor", "real_data_start_index") {
			return true
		}
		return dataType == wfmenum.DataTypeAnalog

	default:
		return false
	}
}

func hasAnyKey(meta map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := meta[k]; ok {
			return true
		}
	}
	return false
}

func hasAnyDigitalProbeKey(meta map[string]any) bool {
	for i := 0; i < 8; i++ {
		if _, ok := meta[digitalProbeKey(i)]; ok {
			return true
		}
	}
	return false
}
