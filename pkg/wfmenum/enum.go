// Package wfmenum holds the compile-time lookup tables spec.md names
// as "global lookup dictionaries" (endian table, curve-format table) --
// kept as Go constants and switch-based functions rather than maps. The
// one exception is the pair of endian marker byte slices
// (LittleEndianMarker, BigEndianMarker), which are package-level
// variables.
package wfmenum

import (
	"fmt"

	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/werr"
)

// Version identifies which of the three WFM version strings a file
// declares.
type Version int

const (
	VersionOne Version = iota
	VersionTwo
	VersionThree
)

// VersionString returns the 8-byte on-disk tag for v.
func (v Version) VersionString() string {
	switch v {
	case VersionOne:
		return ":WFM#001"
	case VersionTwo:
		return ":WFM#002"
	case VersionThree:
		return ":WFM#003"
	default:
		return ""
	}
}

// ParseVersion maps the 8-byte on-disk tag back to a Version, ok=false
// if unrecognized.
func ParseVersion(s string) (Version, bool) {
	switch s {
	case ":WFM#001":
		return VersionOne, true
	case ":WFM#002":
		return VersionTwo, true
	case ":WFM#003":
		return VersionThree, true
	default:
		return 0, false
	}
}

// Endian identifies the file's byte order from its 2-byte marker.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// Little/BigEndianMarker are the literal on-disk marker bytes.
var (
	LittleEndianMarker = []byte{0xF0, 0xF0}
	BigEndianMarker    = []byte{0x0F, 0x0F}
)

// ParseEndianMarker maps the 2-byte marker to an Endian, ok=false if
// unrecognized.
func ParseEndianMarker(b []byte) (Endian, bool) {
	if len(b) != 2 {
		return 0, false
	}
	switch {
	case b[0] == 0xF0 && b[1] == 0xF0:
		return LittleEndian, true
	case b[0] == 0x0F && b[1] == 0x0F:
		return BigEndian, true
	default:
		return 0, false
	}
}

// Marker returns the literal on-disk bytes for e.
func (e Endian) Marker() []byte {
	if e == BigEndian {
		return BigEndianMarker
	}
	return LittleEndianMarker
}

// Curve format codes, carried in ExplicitDimension.format and used to
// pick the pre/curve/post buffer's element type.
const (
	ExplicitInt16        int32 = 0
	ExplicitInt32        int32 = 1
	ExplicitUint32       int32 = 2
	ExplicitUint64       int32 = 3
	ExplicitFP32         int32 = 4
	ExplicitFP64         int32 = 5
	ExplicitUint8        int32 = 6
	ExplicitInt8         int32 = 7
	ExplicitNoDimension  int32 = 8
)

// Dimension storage codes.
const (
	ExplicitSampleStorage int32 = 0
	ExplicitMinMaxStorage int32 = 1
	ExplicitVerticalHistogramStorage int32 = 2
	ExplicitInvalidStorage int32 = 3
)

// WaveformHeader.data_type codes.
const (
	DataTypeScalarMeasurement int32 = 0
	DataTypeWfmLabel          int32 = 2
	DataTypeDigital           int32 = 7
	DataTypeAnalog            int32 = 8
	DataTypeIQ                int32 = 9
)

// CurveFormatToElementType maps an ExplicitDimension.format code to the
// pre/curve/post buffer's element type.
func CurveFormatToElementType(format int32) (prim.ElementType, error) {
	switch format {
	case ExplicitInt16:
		return prim.I16, nil
	case ExplicitInt32:
		return prim.I32, nil
	case ExplicitUint32:
		return prim.U32, nil
	case ExplicitUint64:
		return prim.U64, nil
	case ExplicitFP32:
		return prim.F32, nil
	case ExplicitFP64:
		return prim.F64, nil
	case ExplicitUint8:
		return prim.U8, nil
	case ExplicitInt8:
		return prim.I8, nil
	default:
		return 0, fmt.Errorf("wfmenum: %w: unrecognized curve format %d", werr.ErrBadFormat, format)
	}
}

// ElementTypeToCurveFormat is the write-path inverse of
// CurveFormatToElementType.
func ElementTypeToCurveFormat(et prim.ElementType) (int32, error) {
	switch et {
	case prim.I16:
		return ExplicitInt16, nil
	case prim.I32:
		return ExplicitInt32, nil
	case prim.U32:
		return ExplicitUint32, nil
	case prim.U64:
		return ExplicitUint64, nil
	case prim.F32:
		return ExplicitFP32, nil
	case prim.F64:
		return ExplicitFP64, nil
	case prim.U8:
		return ExplicitUint8, nil
	case prim.I8:
		return ExplicitInt8, nil
	default:
		return 0, fmt.Errorf("wfmenum: %w: element type %v has no curve format code", werr.ErrBadFormat, et)
	}
}
