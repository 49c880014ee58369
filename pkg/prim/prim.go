// Package prim implements the fixed-width scalar and fixed-length string
// codecs that every structured record in pkg/record and pkg/wfmformat is
// built from: pack/unpack pairs for i8/u8/i16/u16/i32/u32/i64/u64/f32/f64
// plus null-padded fixed strings, each with a compile-time byte length
// and a byte_sum used by the file-wide checksum (spec invariant I7).
package prim

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/werr"
)

// ElementType enumerates the numeric primitives a WFM curve buffer can
// be stored as, keyed directly to the explicit dimension's format code
// (see pkg/wfmformat for the code table).
type ElementType uint8

const (
	I8 ElementType = iota
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
)

// ByteLen returns the fixed on-disk width of the element type.
func (et ElementType) ByteLen() int {
	switch et {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		return 0
	}
}

func (et ElementType) String() string {
	switch et {
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// PackU8 writes a single byte and returns the number of bytes written.
func PackU8(dst []byte, v uint8) int {
	dst[0] = v
	return 1
}

// UnpackU8 reads a single byte.
func UnpackU8(src []byte) (uint8, error) {
	if len(src) < 1 {
		return 0, werr.ErrShortRead
	}
	return src[0], nil
}

func PackI8(dst []byte, v int8) int { return PackU8(dst, uint8(v)) }

func UnpackI8(src []byte) (int8, error) {
	v, err := UnpackU8(src)
	return int8(v), err
}

func PackU16(engine endian.EndianEngine, dst []byte, v uint16) int {
	engine.PutUint16(dst, v)
	return 2
}

func UnpackU16(engine endian.EndianEngine, src []byte) (uint16, error) {
	if len(src) < 2 {
		return 0, werr.ErrShortRead
	}
	return engine.Uint16(src), nil
}

func PackI16(engine endian.EndianEngine, dst []byte, v int16) int {
	return PackU16(engine, dst, uint16(v))
}

func UnpackI16(engine endian.EndianEngine, src []byte) (int16, error) {
	v, err := UnpackU16(engine, src)
	return int16(v), err
}

func PackU32(engine endian.EndianEngine, dst []byte, v uint32) int {
	engine.PutUint32(dst, v)
	return 4
}

func UnpackU32(engine endian.EndianEngine, src []byte) (uint32, error) {
	if len(src) < 4 {
		return 0, werr.ErrShortRead
	}
	return engine.Uint32(src), nil
}

func PackI32(engine endian.EndianEngine, dst []byte, v int32) int {
	return PackU32(engine, dst, uint32(v))
}

func UnpackI32(engine endian.EndianEngine, src []byte) (int32, error) {
	v, err := UnpackU32(engine, src)
	return int32(v), err
}

func PackU64(engine endian.EndianEngine, dst []byte, v uint64) int {
	engine.PutUint64(dst, v)
	return 8
}

func UnpackU64(engine endian.EndianEngine, src []byte) (uint64, error) {
	if len(src) < 8 {
		return 0, werr.ErrShortRead
	}
	return engine.Uint64(src), nil
}

func PackI64(engine endian.EndianEngine, dst []byte, v int64) int {
	return PackU64(engine, dst, uint64(v))
}

func UnpackI64(engine endian.EndianEngine, src []byte) (int64, error) {
	v, err := UnpackU64(engine, src)
	return int64(v), err
}

func PackF32(engine endian.EndianEngine, dst []byte, v float32) int {
	return PackU32(engine, dst, math.Float32bits(v))
}

func UnpackF32(engine endian.EndianEngine, src []byte) (float32, error) {
	v, err := UnpackU32(engine, src)
	return math.Float32frombits(v), err
}

func PackF64(engine endian.EndianEngine, dst []byte, v float64) int {
	return PackU64(engine, dst, math.Float64bits(v))
}

func UnpackF64(engine endian.EndianEngine, src []byte) (float64, error) {
	v, err := UnpackU64(engine, src)
	return math.Float64frombits(v), err
}

// PackString null-pads s to length n on write. If s is longer than n it
// is truncated (callers that care should validate length beforehand).
func PackString(dst []byte, s string, n int) int {
	b := make([]byte, n)
	copy(b, s)
	copy(dst, b)
	return n
}

// UnpackString decodes a fixed-length field as UTF-8 up to the first NUL
// byte. A field that isn't valid UTF-8 up to that point is returned as a
// Go string holding the raw bytes unchanged rather than failing, since
// metadata labels from real instruments occasionally carry stray
// high-bit bytes this spec chooses to preserve rather than reject.
func UnpackString(src []byte, n int) (string, error) {
	if len(src) < n {
		return "", werr.ErrShortRead
	}
	field := src[:n]
	end := n
	for i, b := range field {
		if b == 0 {
			end = i
			break
		}
	}
	raw := field[:end]
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return string(raw), nil
}

// ByteSum sums the raw bytes a pack call would have produced,
// reinterpreted as unsigned 8-bit, widened to u64. It underlies the
// file_checksum computation (invariant I7) and must therefore match the
// literal on-disk byte sequence exactly -- no shortcuts through the
// numeric value itself.
func ByteSum(b []byte) uint64 {
	var sum uint64
	for _, v := range b {
		sum += uint64(v)
	}
	return sum
}

// Unpack is a generic dispatcher used by pkg/record's declarative field
// list, covering every numeric ElementType. Strings are handled
// separately since they carry a length parameter prim's numeric types
// don't need.
func Unpack(et ElementType, engine endian.EndianEngine, src []byte) (any, error) {
	switch et {
	case I8:
		return UnpackI8(src)
	case U8:
		return UnpackU8(src)
	case I16:
		return UnpackI16(engine, src)
	case U16:
		return UnpackU16(engine, src)
	case I32:
		return UnpackI32(engine, src)
	case U32:
		return UnpackU32(engine, src)
	case I64:
		return UnpackI64(engine, src)
	case U64:
		return UnpackU64(engine, src)
	case F32:
		return UnpackF32(engine, src)
	case F64:
		return UnpackF64(engine, src)
	default:
		return nil, fmt.Errorf("prim: %w: unknown element type %v", werr.ErrConversion, et)
	}
}

// Pack is the corresponding generic dispatcher for write paths.
func Pack(et ElementType, engine endian.EndianEngine, dst []byte, v any) (int, error) {
	switch et {
	case I8:
		iv, ok := v.(int8)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want int8", werr.ErrConversion)
		}
		return PackI8(dst, iv), nil
	case U8:
		uv, ok := v.(uint8)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want uint8", werr.ErrConversion)
		}
		return PackU8(dst, uv), nil
	case I16:
		iv, ok := v.(int16)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want int16", werr.ErrConversion)
		}
		return PackI16(engine, dst, iv), nil
	case U16:
		uv, ok := v.(uint16)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want uint16", werr.ErrConversion)
		}
		return PackU16(engine, dst, uv), nil
	case I32:
		iv, ok := v.(int32)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want int32", werr.ErrConversion)
		}
		return PackI32(engine, dst, iv), nil
	case U32:
		uv, ok := v.(uint32)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want uint32", werr.ErrConversion)
		}
		return PackU32(engine, dst, uv), nil
	case I64:
		iv, ok := v.(int64)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want int64", werr.ErrConversion)
		}
		return PackI64(engine, dst, iv), nil
	case U64:
		uv, ok := v.(uint64)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want uint64", werr.ErrConversion)
		}
		return PackU64(engine, dst, uv), nil
	case F32:
		fv, ok := v.(float32)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want float32", werr.ErrConversion)
		}
		return PackF32(engine, dst, fv), nil
	case F64:
		fv, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("prim: %w: want float64", werr.ErrConversion)
		}
		return PackF64(engine, dst, fv), nil
	default:
		return 0, fmt.Errorf("prim: %w: unknown element type %v", werr.ErrConversion, et)
	}
}
