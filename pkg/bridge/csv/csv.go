// Package csv implements the CSV bridge spec.md §4.8 specifies as a
// thin collaborator: a header-token remap table plus two seams into
// pkg/sample/pkg/waveform (pull NormalizedVerticalValues for writing,
// construct Normalized -> RawSample for reading). Grounded on
// nasa-jpl-golaborate/oscilloscope's Waveform.EncodeCSV, the pack's one
// existing scope-waveform-to-CSV model.
package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/waveform"
)

// HeaderTokens remaps the two internal fields this bridge exchanges
// onto the CSV header row's literal tokens.
var HeaderTokens = map[string]string{
	"time":  "time_s",
	"value": "value_v",
}

// EncodeCSV streams an Analog waveform's normalized horizontal/vertical
// values out as a two-column CSV.
func EncodeCSV(w io.Writer, wf *waveform.Analog) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write([]string{HeaderTokens["time"], HeaderTokens["value"]}); err != nil {
		return err
	}

	horiz := wf.NormalizedHorizontalValues()
	vert := wf.NormalizedVerticalValues()
	row := make([]string, 2)
	for i := range vert {
		row[0] = strconv.FormatFloat(horiz[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(vert[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeCSV reads a two-column CSV back into an Analog waveform.
// Physical values are quantized into RawSample(int16) via
// quantizeToInt16. spacingHint is used when fewer than two rows are
// present (not enough samples to derive spacing from the time column).
func DecodeCSV(r io.Reader, spacingHint float64) (*waveform.Analog, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	if len(header) != 2 || header[0] != HeaderTokens["time"] || header[1] != HeaderTokens["value"] {
		return nil, fmt.Errorf("bridge/csv: unrecognized header %v", header)
	}

	var times, values []float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bridge/csv: time column: %w", err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bridge/csv: value column: %w", err)
		}
		times = append(times, t)
		values = append(values, v)
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

// quantizeToInt16 constructs Normalized then converts to RawSample(int16)
// with an offset/spacing automatically derived from the data's own
// midpoint and (max-min)/range(int16), per spec's bridge contract
// rather than the core transform engine's type-range-based ToRaw (which
// assumes the source domain already spans its element type's nominal
// range -- not true of values pulled from an external file).
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
