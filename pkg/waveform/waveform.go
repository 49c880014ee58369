package waveform

// Kind distinguishes the three waveform shapes pkg/dispatch's
// candidate ordering and pkg/wfmfile's style probe switch on.
type Kind int

const (
	KindAnalog Kind = iota
	KindIQ
	KindDigital
)

func (k Kind) String() string {
	switch k {
	case KindAnalog:
		return "analog"
	case KindIQ:
		return "iq"
	case KindDigital:
		return "digital"
	default:
		return "unknown"
	}
}

// Waveform is the common interface pkg/wfmfile and pkg/dispatch use to
// work with any of the three concrete waveform kinds without a type
// switch at every call site.
type Waveform interface {
	Kind() Kind
	RecordLength() int
}

func (a *Analog) Kind() Kind  { return KindAnalog }
func (w *IQ) Kind() Kind      { return KindIQ }
func (d *Digital) Kind() Kind { return KindDigital }
