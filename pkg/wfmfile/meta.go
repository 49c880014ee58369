package wfmfile

import (
	"fmt"

	"github.com/scopewave/wfmgo/pkg/waveform"
)

// metaFromTekmeta maps the tekmeta block's flat key/value entries back
// onto MetaInfo's recognized fields (spec §3's common/analog/digital/iq
// key families), with anything unrecognized falling into
// ExtendedMetadata.
func metaFromTekmeta(tek map[string]any) waveform.MetaInfo {
	m := waveform.NewMetaInfo()
	for key, value := range tek {
		if idx, ok := digitalProbeIndex(key); ok {
			if n, ok := asInt32(value); ok {
				m.DigitalProbeState[idx] = int(n)
			}
			continue
		}

		switch key {
		case "waveform_label":
			if s, ok := value.(string); ok {
				m.WaveformLabel = s
			}
		case "y_offset":
			if f, ok := value.(float64); ok {
				m.YOffset = f
			}
		case "y_position":
			if f, ok := value.(float64); ok {
				m.YPosition = f
			}
		case "analog_thumbnail":
			if s, ok := value.(string); ok {
				m.AnalogThumbnail = s
			}
		case "clipping_initialized":
			if n, ok := asInt32(value); ok {
				m.ClippingInitialized = n != 0
			}
		case "interpreter_factor":
			if f, ok := value.(float64); ok {
				m.InterpreterFactor = f
			}
		case "real_data_start_index":
			if n, ok := asInt32(value); ok {
				m.RealDataStartIndex = int(n)
			}
		case "iq_center_frequency":
			if f, ok := value.(float64); ok {
				m.IQCenterFrequency = f
			}
		case "iq_fft_length":
			if n, ok := asInt32(value); ok {
				m.IQFFTLength = int(n)
			}
		case "iq_resolution_bandwidth":
			if f, ok := value.(float64); ok {
				m.IQResolutionBandwidth = f
			}
		case "iq_span":
			if f, ok := value.(float64); ok {
				m.IQSpan = f
			}
		case "iq_window_type":
			if s, ok := value.(string); ok {
				m.IQWindowType = s
			}
		case "iq_sample_rate":
			if f, ok := value.(float64); ok {
				m.IQSampleRate = f
			}
		default:
			m.Set(key, value)
		}
	}
	return m
}

// tekmetaFromMeta flattens the recognized fields relevant to kind, plus
// every ExtendedMetadata entry, into the wire-ready key/value map.
// Enum-valued fields (ClippingInitialized) are flattened to their
// underlying integer, never as a string (SPEC_FULL.md §4's recorded
// decision).
func tekmetaFromMeta(m waveform.MetaInfo, kind waveform.Kind) map[string]any {
	out := make(map[string]any, len(m.ExtendedMetadata)+8)

	if m.WaveformLabel != "" {
		out["waveform_label"] = m.WaveformLabel
	}

	switch kind {
	case waveform.KindAnalog:
		out["y_offset"] = m.YOffset
		out["y_position"] = m.YPosition
		if m.AnalogThumbnail != "" {
			out["analog_thumbnail"] = m.AnalogThumbnail
		}
		out["clipping_initialized"] = boolToInt32(m.ClippingInitialized)
		out["interpreter_factor"] = m.InterpreterFactor
		out["real_data_start_index"] = int32(m.RealDataStartIndex)
	case waveform.KindDigital:
		for i, state := range m.DigitalProbeState {
			out[digitalProbeKey(i)] = int32(state)
		}
	case waveform.KindIQ:
		out["iq_center_frequency"] = m.IQCenterFrequency
		out["iq_fft_length"] = int32(m.IQFFTLength)
		out["iq_resolution_bandwidth"] = m.IQResolutionBandwidth
		out["iq_span"] = m.IQSpan
		if m.IQWindowType != "" {
			out["iq_window_type"] = m.IQWindowType
		}
		out["iq_sample_rate"] = m.IQSampleRate
	}

	for k, v := range m.ExtendedMetadata {
		out[k] = v
	}
	return out
}

func digitalProbeKey(i int) string {
	return fmt.Sprintf("digital_probe_%d_state", i)
}

func digitalProbeIndex(key string) (int, bool) {
	for i := 0; i < 8; i++ {
		if key == digitalProbeKey(i) {
			return i, true
		}
	}
	return 0, false
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func asInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case uint32:
		return int32(n), true
	default:
		return 0, false
	}
}
