package waveform

// MetaInfo is a typed record of the recognized metadata fields spec.md
// §3 names, plus an ExtendedMetadata map for everything else. Rather
// than emulating the source's dynamic-attribute fallback, recognized
// fields get explicit typed accessors and unrecognized keys go through
// Get/Set against ExtendedMetadata (spec §9's design note).
type MetaInfo struct {
	// Common
	WaveformLabel string

	// Analog
	YOffset              float64
	YPosition             float64
	AnalogThumbnail       string
	ClippingInitialized   bool
	InterpreterFactor     float64
	RealDataStartIndex    int

	// Digital: digital_probe_i_state for i in 0..7
	DigitalProbeState [8]int

	// IQ
	IQCenterFrequency     float64
	IQFFTLength           int
	IQResolutionBandwidth float64
	IQSpan                float64
	IQWindowType          string
	IQSampleRate          float64

	ExtendedMetadata map[string]any
}

// NewMetaInfo returns a MetaInfo with an initialized ExtendedMetadata
// map, ready for Set.
func NewMetaInfo() MetaInfo {
	return MetaInfo{ExtendedMetadata: make(map[string]any)}
}

// Get looks up an arbitrary (unrecognized) metadata key. Recognized
// fields are reached through their typed accessor instead.
func (m MetaInfo) Get(key string) (any, bool) {
	v, ok := m.ExtendedMetadata[key]
	return v, ok
}

// Set stores an arbitrary metadata key, lazily initializing the map.
func (m *MetaInfo) Set(key string, value any) {
	if m.ExtendedMetadata == nil {
		m.ExtendedMetadata = make(map[string]any)
	}
	m.ExtendedMetadata[key] = value
}
