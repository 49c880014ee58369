// Package waveform implements the Analog/IQ/Digital waveform model
// shared time axis and metadata (spec.md §3, §4.4), with derived
// arrays cached and invalidated by a version counter per mutating
// setter (spec §9's design note on cached-property invalidation).
package waveform

// TimeAxis carries the horizontal (time) parameters shared by every
// waveform kind.
type TimeAxis struct {
	Spacing      float64
	TriggerIndex float64
	Units        string
}

// NormalizedHorizontalValues returns the lazy arithmetic sequence
// start=-trigger_index*spacing, step=spacing, count=n. It is computed
// directly term-by-term (rather than via a float arange with a
// computed stop bound) so the result is identical for identical
// inputs regardless of accumulated rounding -- the thing spec P3
// requires read(write(w)) to preserve exactly.
func (t TimeAxis) NormalizedHorizontalValues(n int) []float64 {
	out := make([]float64, n)
	start := -t.TriggerIndex * t.Spacing
	for i := 0; i < n; i++ {
		out[i] = start + float64(i)*t.Spacing
	}
	return out
}
