// Package sample implements the value-domain transform engine: the
// conversions between RawSample, FeatureScaled, Normalized, and
// Digitized sample arrays that keep a waveform's physical meaning
// stable across element-type changes (spec.md §3, §4.3).
package sample

import (
	"fmt"
	"math"
	"math/big"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/internal/pool"
	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/werr"
)

// ElementType re-exports pkg/prim's element type so callers only need
// to import pkg/sample for transform-engine work.
type ElementType = prim.ElementType

const (
	I8  = prim.I8
	U8  = prim.U8
	I16 = prim.I16
	U16 = prim.U16
	I32 = prim.I32
	U32 = prim.U32
	I64 = prim.I64
	U64 = prim.U64
	F32 = prim.F32
	F64 = prim.F64
)

// Domain tags which of the four value domains a SampleArray's elements
// live in.
type Domain int

const (
	Raw Domain = iota
	FeatureScaled
	Normalized
	Digitized
)

// SampleArray is an ordered one-dimensional sequence of numeric
// samples, carrying an element type and a domain tag. Data holds the
// concrete typed slice ([]int16, []float64, ...) so integer round
// trips stay bit-exact (spec P1) instead of losing precision through a
// lossy common representation.
type SampleArray struct {
	ET     ElementType
	Domain Domain
	Data   any

	// Spacing/Offset are populated for Normalized arrays; they are the
	// round-trip parameters that let ToRaw invert the conversion.
	Spacing float64
	Offset  float64
}

// NewRaw wraps an existing typed slice as a RawSample array.
func NewRaw(et ElementType, data any) SampleArray {
	return SampleArray{ET: et, Domain: Raw, Data: data}
}

// Len returns the element count regardless of underlying Go type.
func (s SampleArray) Len() int {
	switch d := s.Data.(type) {
	case []int8:
		return len(d)
	case []uint8:
		return len(d)
	case []int16:
		return len(d)
	case []uint16:
		return len(d)
	case []int32:
		return len(d)
	case []uint32:
		return len(d)
	case []int64:
		return len(d)
	case []uint64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	default:
		return 0
	}
}

// minMax returns the element type's representable [min, max] as f64.
// Float element types don't have a hardware-defined digitizer range;
// by convention they're treated as already occupying the FeatureScaled
// domain's own [-1, 1] range, so ratio/to_raw involving a float ET
// compose cleanly with FeatureScaled conversions instead of needing a
// separate special case.
func minMax(et ElementType) (float64, float64) {
	switch et {
	case I8:
		return -128, 127
	case U8:
		return 0, 255
	case I16:
		return -32768, 32767
	case U16:
		return 0, 65535
	case I32:
		return -2147483648, 2147483647
	case U32:
		return 0, 4294967295
	case I64:
		return -9223372036854775808, 9223372036854775807
	case U64:
		return 0, 18446744073709551615
	case F32, F64:
		return -1, 1
	default:
		return 0, 0
	}
}

// Range returns et's representable [min, max] as f64, exported so
// pkg/wfmfile's writer can compute an explicit dimension's
// extent_min/extent_max from a waveform's scale/offset without
// duplicating the per-ET range table.
func Range(et ElementType) (float64, float64) {
	return minMax(et)
}

func isSigned(et ElementType) bool {
	switch et {
	case U8, U16, U32, U64:
		return false
	default:
		return true
	}
}

// rangeWidth returns max-min for et, computed through math/big so the
// u64 endpoints don't lose precision to float64 rounding before the
// ratio division happens.
func rangeWidth(et ElementType) *big.Float {
	lo, hi := minMax(et)
	switch et {
	case U64:
		// float64(18446744073709551615) rounds up past the true max;
		// build the big.Float from the exact uint64 value instead.
		return new(big.Float).SetPrec(128).SetUint64(math.MaxUint64)
	case I64:
		width := new(big.Float).SetPrec(128).SetInt64(math.MaxInt64)
		width.Add(width, new(big.Float).SetPrec(128).SetUint64(math.MaxInt64+1))
		return width
	default:
		return new(big.Float).SetPrec(128).SetFloat64(hi - lo)
	}
}

// Ratio returns range(to)/range(from) as specified, using a
// high-precision intermediate so values near the u64 range don't
// round before the division.
func Ratio(from, to ElementType) float64 {
	num := rangeWidth(to)
	den := rangeWidth(from)
	if den.Sign() == 0 {
		return 0
	}
	r := new(big.Float).SetPrec(128).Quo(num, den)
	v, _ := r.Float64()
	return v
}

// ToFloat64Slice converts a SampleArray's underlying typed data into a
// plain []float64 view for elementwise arithmetic. The returned slice
// is always a fresh copy.
func ToFloat64Slice(s SampleArray) []float64 {
	n := s.Len()
	out := make([]float64, n)
	switch d := s.Data.(type) {
	case []int8:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []uint8:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []int16:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []uint16:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []int32:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []uint32:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []int64:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []uint64:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []float32:
		for i, v := range d {
			out[i] = float64(v)
		}
	case []float64:
		copy(out, d)
	}
	return out
}

// CastFromFloat64 converts plain float64 values into et's concrete Go
// slice type, truncating toward zero per spec.md §4.3.
func CastFromFloat64(values []float64, et ElementType) any {
	switch et {
	case I8:
		out := make([]int8, len(values))
		for i, v := range values {
			out[i] = int8(math.Trunc(v))
		}
		return out
	case U8:
		out := make([]uint8, len(values))
		for i, v := range values {
			out[i] = uint8(math.Trunc(v))
		}
		return out
	case I16:
		out := make([]int16, len(values))
		for i, v := range values {
			out[i] = int16(math.Trunc(v))
		}
		return out
	case U16:
		out := make([]uint16, len(values))
		for i, v := range values {
			out[i] = uint16(math.Trunc(v))
		}
		return out
	case I32:
		out := make([]int32, len(values))
		for i, v := range values {
			out[i] = int32(math.Trunc(v))
		}
		return out
	case U32:
		out := make([]uint32, len(values))
		for i, v := range values {
			out[i] = uint32(math.Trunc(v))
		}
		return out
	case I64:
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = int64(math.Trunc(v))
		}
		return out
	case U64:
		out := make([]uint64, len(values))
		for i, v := range values {
			out[i] = uint64(math.Trunc(v))
		}
		return out
	case F32:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return out
	case F64:
		out := append([]float64(nil), values...)
		return out
	default:
		return nil
	}
}

// Shift returns the offset to_raw subtracts after scaling by Ratio,
// exported so pkg/waveform's TransformToType can compute the
// companion y_offset adjustment that keeps physical values stable
// across the element-type change.
func Shift(from, to ElementType) float64 {
	ratio := Ratio(from, to)
	switch {
	case isSigned(from) && !isSigned(to):
		lo, _ := minMax(from)
		return lo * ratio
	case !isSigned(from) && isSigned(to):
		lo, _ := minMax(to)
		return -lo
	default:
		return 0
	}
}

// SampleDomainSpacing is the physical-value granularity of one raw
// code step under the FeatureScaled convention: 1/(max(ET)-min(ET)),
// the full representable range rather than just the positive half. For
// a signed ET this is asymmetric-range-aware by construction (it's the
// same rangeWidth big.Float helper Ratio uses), which matters because
// a flat 1/max(ET) divisor under- or over-states the physical magnitude
// for any ET whose min and max aren't mirror images of each other; for
// an unsigned ET min is already 0, so the two formulations coincide.
// It's the divisor pkg/waveform's Analog/IQ ExtentMagnitude use to move
// between a raw spacing value and a dtype-independent physical
// magnitude.
func SampleDomainSpacing(et ElementType) float64 {
	width := rangeWidth(et)
	if width.Sign() == 0 {
		return 1
	}
	one := new(big.Float).SetPrec(128).SetFloat64(1)
	r := new(big.Float).SetPrec(128).Quo(one, width)
	v, _ := r.Float64()
	return v
}

// ToRaw converts s (any domain, but meaningfully Raw) into RawSample
// of target_et: elementwise x*ratio - shift, cast with truncation
// toward zero.
func ToRaw(s SampleArray, target ElementType) (SampleArray, error) {
	ratio := Ratio(s.ET, target)
	shift := Shift(s.ET, target)

	in := ToFloat64Slice(s)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = x*ratio - shift
	}

	return SampleArray{ET: target, Domain: Raw, Data: CastFromFloat64(out, target)}, nil
}

// FromRawToFeatureScaled returns x/max(ET) for every element, producing
// f64 values in [min(ET)/max(ET), 1]; for signed types the minimum maps
// slightly below -1 (e.g. -32768/32767 for i16).
func FromRawToFeatureScaled(s SampleArray) SampleArray {
	_, hi := minMax(s.ET)
	in := ToFloat64Slice(s)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = x / hi
	}
	return SampleArray{ET: F64, Domain: FeatureScaled, Data: out}
}

// FromRawToNormalized returns x*spacing+offset for every element. The
// output element type matches the input unless asType is supplied, in
// which case the result is tagged with that type. The data is []float32
// for F32 and []float64 for every other asType; integer asType choices
// are not truncated.
func FromRawToNormalized(s SampleArray, spacing, offset float64, asType ...ElementType) SampleArray {
	target := s.ET
	if len(asType) > 0 {
		target = asType[0]
	}

	in := ToFloat64Slice(s)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = x*spacing + offset
	}

	var data any
	switch target {
	case F64:
		data = out
	case F32:
		f32 := make([]float32, len(out))
		for i, v := range out {
			f32[i] = float32(v)
		}
		data = f32
	default:
		data = out
	}

	return SampleArray{ET: target, Domain: Normalized, Data: data, Spacing: spacing, Offset: offset}
}

// Matrix is a row-major bit matrix: Digitize's output and PackBits's
// input. Rows correspond to samples, columns to bit positions within
// the sample's byte-width, MSB of byte 0 first.
type Matrix struct {
	Rows, Cols int
	Bits       [][]uint8
}

// Digitize reinterprets s's raw bytes as an (N, 8*sizeof(ET)) bit
// matrix, one row per sample, MSB-first within each byte.
func Digitize(s SampleArray) (Matrix, error) {
	engine := endian.GetBigEndianEngine()
	width := s.ET.ByteLen()
	if width == 0 {
		return Matrix{}, fmt.Errorf("sample: %w: unsupported element type for digitize", werr.ErrConversion)
	}
	n := s.Len()
	cols := width * 8

	m := Matrix{Rows: n, Cols: cols, Bits: make([][]uint8, n)}
	bb := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(bb)
	bb.SetLength(width)
	buf := bb.Bytes()
	in := ToFloat64Slice(s)
	for i := 0; i < n; i++ {
		raw := CastFromFloat64(in[i:i+1], s.ET)
		if _, err := prim.Pack(s.ET, engine, buf, anyAt(raw, 0)); err != nil {
			return Matrix{}, err
		}
		row := make([]uint8, cols)
		for b, byteVal := range buf {
			for bit := 0; bit < 8; bit++ {
				row[b*8+bit] = (byteVal >> (7 - bit)) & 1
			}
		}
		m.Bits[i] = row
	}
	return m, nil
}

// PackBits inverts Digitize: bits are grouped MSB-first into bytes,
// then reinterpreted as target's element values.
func PackBits(m Matrix, target ElementType) (SampleArray, error) {
	width := target.ByteLen()
	if width == 0 || m.Cols != width*8 {
		return SampleArray{}, fmt.Errorf("sample: %w: bit matrix width does not match element type", werr.ErrConversion)
	}

	engine := endian.GetBigEndianEngine()
	values, cleanup := pool.GetFloat64Slice(m.Rows)
	defer cleanup()

	bb := pool.GetBlobBuffer()
	defer pool.PutBlobBuffer(bb)
	bb.SetLength(width)
	buf := bb.Bytes()

	for i, row := range m.Bits {
		for b := 0; b < width; b++ {
			var v uint8
			for bit := 0; bit < 8; bit++ {
				v = (v << 1) | (row[b*8+bit] & 1)
			}
			buf[b] = v
		}
		v, err := prim.Unpack(target, engine, buf)
		if err != nil {
			return SampleArray{}, err
		}
		values[i] = toFloat(v)
	}

	return SampleArray{ET: target, Domain: Digitized, Data: CastFromFloat64(values, target)}, nil
}

func anyAt(data any, i int) any {
	switch d := data.(type) {
	case []int8:
		return d[i]
	case []uint8:
		return d[i]
	case []int16:
		return d[i]
	case []uint16:
		return d[i]
	case []int32:
		return d[i]
	case []uint32:
		return d[i]
	case []int64:
		return d[i]
	case []uint64:
		return d[i]
	case []float32:
		return d[i]
	case []float64:
		return d[i]
	default:
		return nil
	}
}

func toFloat(v any) float64 {
	switch tv := v.(type) {
	case int8:
		return float64(tv)
	case uint8:
		return float64(tv)
	case int16:
		return float64(tv)
	case uint16:
		return float64(tv)
	case int32:
		return float64(tv)
	case uint32:
		return float64(tv)
	case int64:
		return float64(tv)
	case uint64:
		return float64(tv)
	case float32:
		return float64(tv)
	case float64:
		return tv
	default:
		return 0
	}
}
