// Package dispatch implements format dispatch (spec §4.7): given a file
// path, extract its extension, try that extension's ordered candidate
// waveform kinds against a style probe, and return the first accepted
// Codec. Grounded on sixy6e/go-gsf's file.go record-ID dispatch switch,
// adapted from "switch on a tag already read" to "try candidates
// against an unopened path."
package dispatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/scopewave/wfmgo/internal/hashcache"
	csvbridge "github.com/scopewave/wfmgo/pkg/bridge/csv"
	"github.com/scopewave/wfmgo/pkg/waveform"
	"github.com/scopewave/wfmgo/pkg/wfmfile"
	"github.com/scopewave/wfmgo/werr"
)

// candidateOrder lists, per extension, the waveform kinds tried in
// order when a file is opened for read.
var candidateOrder = map[string][]waveform.Kind{
	".wfm": {waveform.KindDigital, waveform.KindIQ, waveform.KindAnalog},
	".csv": {waveform.KindAnalog, waveform.KindIQ, waveform.KindDigital},
	".mat": {waveform.KindAnalog, waveform.KindIQ, waveform.KindDigital},
}

// probeSampleSize is how many leading bytes of a candidate file feed
// the probe-result cache key; large enough to cover the WFM endian
// marker, version string, and static file info, small enough that
// hashing it is never the bottleneck.
const probeSampleSize = 64

// probeCache remembers a (byte-prefix hash) -> accepted Kind verdict so
// repeatedly opening the same bytes skips re-probing every candidate.
// Keyed with cespare/xxhash/v2 via internal/hashcache, the teacher's
// own hashing dependency repurposed here as a cache key rather than a
// wire-format checksum (the WFM checksum itself, invariant I7, stays a
// literal byte sum and never touches this cache).
var probeCache sync.Map

// Codec is a concrete format+kind pairing dispatch has accepted for a
// given path.
type Codec struct {
	Format string
	Kind   waveform.Kind
	path   string
}

// Open extracts path's extension, tries that extension's candidate
// kinds in listed order, and returns the first Codec whose style probe
// accepts the file.
func Open(path string) (*Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	candidates, ok := candidateOrder[ext]
	if !ok {
		return nil, fmt.Errorf("dispatch: %w: %q", werr.ErrUnknownExtension, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prefix := make([]byte, probeSampleSize)
	n, _ := io.ReadFull(f, prefix)
	key := hashcache.ID(prefix[:n])

	if cached, found := probeCache.Load(key); found {
		kind := cached.(waveform.Kind)
		if lo.Contains(candidates, kind) {
			return &Codec{Format: ext, Kind: kind, path: path}, nil
		}
	}

	for _, kind := range candidates {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		accepted, err := checkStyle(ext, f, kind)
		if err != nil {
			return nil, err
		}
		if accepted {
			probeCache.Store(key, kind)
			return &Codec{Format: ext, Kind: kind, path: path}, nil
		}
	}

	return nil, fmt.Errorf("dispatch: %w: %q", werr.ErrNoStyleMatch, path)
}

// checkStyle asks the format named by ext whether candidate's kind
// matches f's contents. WFM delegates to wfmfile.CheckStyle's real
// tekmeta/data_type probe; CSV and MAT accept only Analog, since
// neither bridge defines a distinct IQ/Digital remap table (spec §4.8
// scopes both bridges down to the single-channel contract seam
// grounded on oscilloscope.go's Waveform/Channel model).
func checkStyle(ext string, f *os.File, kind waveform.Kind) (bool, error) {
	switch ext {
	case ".wfm":
		return wfmfile.CheckStyle(f, kind)
	case ".csv", ".mat":
		return kind == waveform.KindAnalog, nil
	default:
		return false, nil
	}
}

// Read opens and decodes c's underlying file.
func (c *Codec) Read() (waveform.Waveform, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch c.Format {
	case ".wfm":
		return wfmfile.NewReader().Read(f)
	case ".csv":
		return csvbridge.DecodeCSV(f, 1)
	case ".mat":
		return nil, fmt.Errorf("dispatch: %w: .mat wire format is out of scope, call pkg/bridge/mat.FromVariables directly", werr.ErrBadFormat)
	default:
		return nil, fmt.Errorf("dispatch: %w: %q", werr.ErrUnknownExtension, c.Format)
	}
}

// Write encodes wf to path, picking format by path's extension and
// kind by wf's own concrete type (spec §4.7: "For write, pick by the
// concrete waveform type").
func Write(path string, wf waveform.Waveform, opts ...wfmfile.Option) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := candidateOrder[ext]; !ok {
		return fmt.Errorf("dispatch: %w: %q", werr.ErrUnknownExtension, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".wfm":
		return wfmfile.NewWriter().Write(f, wf, opts...)
	case ".csv":
		analog, ok := wf.(*waveform.Analog)
		if !ok {
			return fmt.Errorf("dispatch: %w: CSV bridge only supports Analog waveforms", werr.ErrInvariantViolation)
		}
		return csvbridge.EncodeCSV(f, analog)
	case ".mat":
		return fmt.Errorf("dispatch: %w: .mat wire format is out of scope, call pkg/bridge/mat.ToVariables directly", werr.ErrBadFormat)
	default:
		return fmt.Errorf("dispatch: %w: %q", werr.ErrUnknownExtension, ext)
	}
}
