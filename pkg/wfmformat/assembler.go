package wfmformat

import (
	"fmt"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/pkg/record"
	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/werr"
)

// DimensionParams is the caller-facing input to SetupExplicitDimensions
// / SetupImplicitDimensions for one dimension slot.
type DimensionParams struct {
	Scale      float64
	Offset     float64
	Size       uint32
	Units      string
	ExtentMin  float64
	ExtentMax  float64
	Resolution float64
	RefPoint   float64
	Format     int32
	Storage    int32
	Null       int32
	Over       int32
	Under      int32
	High       int32
	Low        int32
}

func (p DimensionParams) values() record.Values {
	return record.Values{
		"scale": p.Scale, "offset": p.Offset, "size": p.Size, "units": p.Units,
		"extent_min": p.ExtentMin, "extent_max": p.ExtentMax, "resolution": p.Resolution,
		"ref_point": p.RefPoint, "format": p.Format, "storage": p.Storage,
		"null_val": p.Null, "over_range": p.Over, "under_range": p.Under,
		"high_range": p.High, "low_range": p.Low,
	}
}

// noDimensionStub fills a dimension slot's "no second dimension" stub
// per spec §4.5: curve_format=EXPLICIT_NO_DIMENSION, storage=EXPLICIT_INVALID_STORAGE.
func noDimensionStub() record.Values {
	return DimensionParams{Format: wfmenum.ExplicitNoDimension, Storage: wfmenum.ExplicitInvalidStorage}.values()
}

// FastFrame pairs one UpdateSpecifications with one CurveInformation,
// the unit of the fast-frame array (spec §3, §4.5).
type FastFrame struct {
	RealPtOffset uint32
	TrigOffset   float64
	FracSec      float64
	GmtSec       int32

	StateFlags uint32
	CkType     int32
	Ck         int16
	PreStart   uint32
	DataStart  uint32
	PostStart  uint32
	PostStop   uint32
	Eob        uint32
}

func (f FastFrame) updateSpecValues() record.Values {
	return record.Values{
		"real_pt_offset": f.RealPtOffset, "trig_offset": f.TrigOffset,
		"frac_sec": f.FracSec, "gmt_sec": f.GmtSec,
	}
}

func (f FastFrame) curveInfoValues() record.Values {
	return record.Values{
		"state_flags": f.StateFlags, "ck_type": f.CkType, "ck": f.Ck,
		"pre_start": f.PreStart, "data_start": f.DataStart,
		"post_start": f.PostStart, "post_stop": f.PostStop, "eob": f.Eob,
	}
}

// Assembler holds every record that composes a WFM file, in emit
// order, and owns the pre/curve/post numeric buffers (spec §4.5).
type Assembler struct {
	Endian  wfmenum.Endian
	Version wfmenum.Version

	FileInfo         record.Values
	Header           record.Values
	SummaryFrameType record.Values
	PixMap           record.Values

	ExplicitDim       [2]record.Values
	HasSecondExplicit bool
	ExplicitUserView  [2]record.Values

	ImplicitDim       [2]record.Values
	HasSecondImplicit bool
	ImplicitUserView  [2]record.Values

	TimeBase [2]record.Values

	UpdateSpecPrimary record.Values
	CurveInfoPrimary  record.Values
	FastFrames        []FastFrame

	PreBuffer   sample.SampleArray
	CurveBuffer sample.SampleArray
	PostBuffer  sample.SampleArray

	Checksum uint64
	Tekmeta  map[string]any
}

// New returns an empty Assembler for the given endian/version.
func New(e wfmenum.Endian, v wfmenum.Version) *Assembler {
	return &Assembler{Endian: e, Version: v, Tekmeta: make(map[string]any)}
}

func (a *Assembler) engine() endian.EndianEngine {
	if a.Endian == wfmenum.BigEndian {
		return endian.GetBigEndianEngine()
	}
	return endian.GetLittleEndianEngine()
}

// SetupPixelMap fills the PixMap record.
func (a *Assembler) SetupPixelMap(displFormat int32, maxValue uint64) {
	a.PixMap = record.Values{"displ_format": displFormat, "max_value": maxValue}
}

// SetupExplicitDimensions fills both explicit dimension slots. If
// second is nil, slot 1 gets the "no dimension" stub (spec §4.5).
// ExplicitUserView defaults to point_density=1, per spec.
func (a *Assembler) SetupExplicitDimensions(first DimensionParams, second *DimensionParams) {
	a.ExplicitDim[0] = first.values()
	a.ExplicitUserView[0] = a.userViewValues(1)

	if second != nil {
		a.ExplicitDim[1] = second.values()
		a.HasSecondExplicit = true
	} else {
		a.ExplicitDim[1] = noDimensionStub()
		a.HasSecondExplicit = false
	}
	a.ExplicitUserView[1] = a.userViewValues(1)
}

// SetupImplicitUserView lets the caller set the implicit user view's
// point_density. Unlike explicit, the caller's value is kept:
// SetupImplicitDimensions only fills point_density=1 into a slot that
// is still unset.
func (a *Assembler) SetupImplicitUserView(slot int, pointDensity float64) {
	a.ImplicitUserView[slot] = a.userViewValues(pointDensity)
}

func (a *Assembler) userViewValues(pointDensity float64) record.Values {
	if a.Version == wfmenum.VersionThree {
		return record.Values{"point_density": pointDensity}
	}
	return record.Values{"point_density": uint32(pointDensity)}
}

// SetupImplicitDimensions requires CurveBuffer (and Pre/PostBuffer, if
// any) to already be populated: size is computed as
// len(pre)+len(curve)+len(post), invariant I5.
func (a *Assembler) SetupImplicitDimensions(first DimensionParams, second *DimensionParams) {
	first.Size = uint32(a.PreBuffer.Len() + a.CurveBuffer.Len() + a.PostBuffer.Len())
	a.ImplicitDim[0] = first.values()
	if _, ok := a.ImplicitUserView[0]["point_density"]; !ok {
		a.ImplicitUserView[0] = a.userViewValues(1)
	}

	if second != nil {
		second.Size = first.Size
		a.ImplicitDim[1] = second.values()
		a.HasSecondImplicit = true
	} else {
		a.ImplicitDim[1] = noDimensionStub()
		a.HasSecondImplicit = false
	}
	if _, ok := a.ImplicitUserView[1]["point_density"]; !ok {
		a.ImplicitUserView[1] = a.userViewValues(1)
	}
}

// SetupTimeBaseInfo fills time base slot i (0 or 1).
func (a *Assembler) SetupTimeBaseInfo(slot int, realPtSpacing uint32, sweep, baseType int32) {
	a.TimeBase[slot] = record.Values{"real_pt_spacing": realPtSpacing, "sweep": sweep, "base_type": baseType}
}

// SetupUpdateSpecs fills the primary update spec / curve info plus the
// fast-frame array (spec §4.5, §4.6 step 7).
func (a *Assembler) SetupUpdateSpecs(primary FastFrame, fastFrames []FastFrame) {
	a.UpdateSpecPrimary = primary.updateSpecValues()
	a.CurveInfoPrimary = primary.curveInfoValues()
	a.FastFrames = fastFrames
}

// SetupHeader must run after dimensions and update specs are set: it
// reports their counts (invariants I3, I4).
func (a *Assembler) SetupHeader(wtype int32, dataType int32, slot int32, isStatic int32) {
	impDimCnt := uint32(1)
	if a.HasSecondImplicit {
		impDimCnt = 2
	}
	expDimCnt := uint32(1)
	if a.HasSecondExplicit {
		expDimCnt = 2
	}

	a.Header = record.Values{
		"wtype":         wtype,
		"wfm_count":     uint32(1),
		"acq_counter":   uint64(0),
		"txn":           uint64(0),
		"slot":          slot,
		"is_static":     isStatic,
		"upd_spec_cnt":  uint32(len(a.FastFrames) + 1),
		"imp_dim_cnt":   impDimCnt,
		"exp_dim_cnt":   expDimCnt,
		"data_type":     dataType,
		"gp_ctr":        uint64(0),
		"accum_cnt":     uint32(0),
		"target_cnt":    uint32(0),
		"curve_ref_cnt": uint32(0),
		"req_ff":        uint32(len(a.FastFrames)),
		"acq_ff":        uint32(len(a.FastFrames)),
	}

	if a.Version != wfmenum.VersionOne {
		a.SummaryFrameType = record.Values{"summary_frame_type": uint16(0)}
	}
}

// SetupFileInfo must run last: bytes_till_eof depends on the
// cumulative byte count of everything else.
func (a *Assembler) SetupFileInfo(label string) error {
	bodyLen, err := a.bodyByteLength()
	if err != nil {
		return err
	}

	bytesPerPoint, err := a.bytesPerPoint()
	if err != nil {
		return err
	}

	a.FileInfo = record.Values{
		"digit_count":      uint8(9),
		"bytes_till_eof":   uint32(bodyLen),
		"bytes_per_point":  bytesPerPoint,
		"byte_offset":      int32(10 + StaticFileInfo.ByteLength()),
		"h_zoom_scale":     int32(0),
		"h_zoom_pos":       float32(0),
		"v_zoom_scale":     float64(1),
		"v_zoom_pos":       float32(0),
		"label":            label,
		"number_of_frames": uint32(len(a.FastFrames)),
		"header_size":      uint16(StaticFileInfo.ByteLength()),
	}
	return nil
}

func (a *Assembler) bytesPerPoint() (uint8, error) {
	format, ok := a.ExplicitDim[0]["format"].(int32)
	if !ok {
		return 0, fmt.Errorf("wfmformat: %w: explicit dimension 0 format not set", werr.ErrInvariantViolation)
	}
	et, err := wfmenum.CurveFormatToElementType(format)
	if err != nil {
		return 0, err
	}
	return uint8(et.ByteLen()), nil
}

// bodyByteLength sums every record/buffer after the static file info
// itself, for bytes_till_eof.
func (a *Assembler) bodyByteLength() (int, error) {
	n := Header.ByteLength()
	if a.Version != wfmenum.VersionOne {
		n += SummaryFrameType.ByteLength()
	}
	n += PixMap.ByteLength()
	n += 2 * Dimension.ByteLength() // explicit
	n += 2 * a.userViewByteLength()
	n += 2 * Dimension.ByteLength() // implicit
	n += 2 * a.userViewByteLength()
	n += 2 * TimeBaseInfo.ByteLength()
	n += UpdateSpec.ByteLength() + CurveInfo.ByteLength() // primary
	n += len(a.FastFrames) * (UpdateSpec.ByteLength() + CurveInfo.ByteLength())

	bpp, err := a.bytesPerPoint()
	if err != nil {
		return 0, err
	}
	n += (a.PreBuffer.Len() + a.CurveBuffer.Len() + a.PostBuffer.Len()) * int(bpp)
	n += 8 // file_checksum
	return n, nil
}

func (a *Assembler) userViewByteLength() int {
	if a.Version == wfmenum.VersionThree {
		return UserViewV3.ByteLength()
	}
	return UserViewV1V2.ByteLength()
}
