// Package mat implements the MAT bridge's contract seam: a
// keyword remap table plus the same Normalized<->RawSample transform
// that pkg/bridge/csv uses. spec.md §1/§8 scope the real MATLAB .mat
// binary container out (Non-goal), so this package exchanges a plain
// Go map shaped the way a .mat writer's variable dictionary would be,
// leaving the container format itself to whatever caller owns it.
package mat

import (
	"fmt"
	"math"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
)

// KeywordRemap maps the two internal fields this bridge exchanges onto
// the MATLAB-style variable names a .mat file would carry.
var KeywordRemap = map[string]string{
	"time":  "t",
	"value": "y",
}

// ToVariables extracts an Analog waveform's normalized horizontal and
// vertical values into the variable-dictionary shape a .mat writer
// would serialize.
func ToVariables(wf *waveform.Analog) map[string]any {
	return map[string]any{
		KeywordRemap["time"]:  wf.NormalizedHorizontalValues(),
		KeywordRemap["value"]: wf.NormalizedVerticalValues(),
	}
}

// FromVariables is ToVariables's inverse: it reconstructs an Analog
// waveform from a decoded .mat variable dictionary, converting the
// physical values from Normalized into RawSample(int16) the same way
// DecodeCSV does.
func FromVariables(vars map[string]any, spacingHint float64) (*waveform.Analog, error) {
	times, ok := vars[KeywordRemap["time"]].([]float64)
	if !ok {
		return nil, fmt.Errorf("bridge/mat: missing or malformed %q variable", KeywordRemap["time"])
	}
	values, ok := vars[KeywordRemap["value"]].([]float64)
	if !ok {
		return nil, fmt.Errorf("bridge/mat: missing or malformed %q variable", KeywordRemap["value"])
	}
	if len(times) != len(values) {
		return nil, fmt.Errorf("bridge/mat: %q and %q length mismatch", KeywordRemap["time"], KeywordRemap["value"])
	}

	spacing := spacingHint
	trigger := 0.0
	if len(times) > 1 {
		spacing = times[1] - times[0]
		if spacing != 0 {
			trigger = -times[0] / spacing
		}
	}

	raw, ySpacing, yOffset := quantizeToInt16(values)
	axis := waveform.TimeAxis{Spacing: spacing, TriggerIndex: trigger, Units: "s"}
	return waveform.NewAnalog(axis, waveform.NewMetaInfo(), raw, ySpacing, yOffset, "V"), nil
}

// quantizeToInt16 mirrors pkg/bridge/csv's quantizeToInt16: construct
// Normalized then convert to RawSample(int16) with offset/spacing
// derived from the data's own midpoint and (max-min)/range(int16).
func quantizeToInt16(values []float64) (sample.SampleArray, float64, float64) {
	if len(values) == 0 {
		return sample.SampleArray{ET: sample.I16, Domain: sample.Raw, Data: []int16{}}, 1, 0
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	offset := (lo + hi) / 2
	rawLo, rawHi := sample.Range(sample.I16)
	spacing := (hi - lo) / (rawHi - rawLo)
	if spacing == 0 {
		spacing = 1
	}

	raw := make([]int16, len(values))
	for i, v := range values {
		code := (v - offset) / spacing
		if code < rawLo {
			code = rawLo
		} else if code > rawHi {
			code = rawHi
		}
		raw[i] = int16(math.Round(code))
	}

	return sample.SampleArray{ET: sample.I16, Domain: sample.Raw, Data: raw}, spacing, offset
}
