// Package wfmformat implements the WFM format assembler: every record
// spec.md §3 names, in emit order, with idempotent SetupXxx helpers,
// dimension-pair defaulting, fast-frame tables, the file-wide checksum,
// and the trailing tekmeta block (spec §4.5, §6).
package wfmformat

import (
	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/pkg/record"
)

// StaticFileInfo is WaveformStaticFileInfo (spec §3).
var StaticFileInfo = record.New(
	record.Num("digit_count", prim.U8),
	record.Num("bytes_till_eof", prim.U32),
	record.Num("bytes_per_point", prim.U8),
	record.Num("byte_offset", prim.I32),
	record.Num("h_zoom_scale", prim.I32),
	record.Num("h_zoom_pos", prim.F32),
	record.Num("v_zoom_scale", prim.F64),
	record.Num("v_zoom_pos", prim.F32),
	record.Str("label", 32),
	record.Num("number_of_frames", prim.U32),
	record.Num("header_size", prim.U16),
)

// Header is WaveformHeader (spec §3).
var Header = record.New(
	record.Num("wtype", prim.I32),
	record.Num("wfm_count", prim.U32),
	record.Num("acq_counter", prim.U64),
	record.Num("txn", prim.U64),
	record.Num("slot", prim.I32),
	record.Num("is_static", prim.I32),
	record.Num("upd_spec_cnt", prim.U32),
	record.Num("imp_dim_cnt", prim.U32),
	record.Num("exp_dim_cnt", prim.U32),
	record.Num("data_type", prim.I32),
	record.Num("gp_ctr", prim.U64),
	record.Num("accum_cnt", prim.U32),
	record.Num("target_cnt", prim.U32),
	record.Num("curve_ref_cnt", prim.U32),
	record.Num("req_ff", prim.U32),
	record.Num("acq_ff", prim.U32),
)

// SummaryFrameType is the standalone u16 field present iff version != ONE.
var SummaryFrameType = record.New(record.Num("summary_frame_type", prim.U16))

// PixMap is the PixMap record (spec §3).
var PixMap = record.New(
	record.Num("displ_format", prim.I32),
	record.Num("max_value", prim.U64),
)

// Dimension is shared by ExplicitDimension and ImplicitDimension
// (spec §3: "Same pattern for implicit dimensions").
var Dimension = record.New(
	record.Num("scale", prim.F64),
	record.Num("offset", prim.F64),
	record.Num("size", prim.U32),
	record.Str("units", 20),
	record.Num("extent_min", prim.F64),
	record.Num("extent_max", prim.F64),
	record.Num("resolution", prim.F64),
	record.Num("ref_point", prim.F64),
	record.Num("format", prim.I32),
	record.Num("storage", prim.I32),
	record.Num("null_val", prim.I32),
	record.Num("over_range", prim.I32),
	record.Num("under_range", prim.I32),
	record.Num("high_range", prim.I32),
	record.Num("low_range", prim.I32),
)

// UserViewV1V2 and UserViewV3 are the two point_density widths the
// ExplicitUserView/ImplicitUserView records take depending on file
// version (spec §3).
var (
	UserViewV1V2 = record.New(record.Num("point_density", prim.U32))
	UserViewV3   = record.New(record.Num("point_density", prim.F64))
)

// TimeBaseInfo is TimeBaseInformation (spec §3).
var TimeBaseInfo = record.New(
	record.Num("real_pt_spacing", prim.U32),
	record.Num("sweep", prim.I32),
	record.Num("base_type", prim.I32),
)

// UpdateSpec is UpdateSpecifications (spec §3).
var UpdateSpec = record.New(
	record.Num("real_pt_offset", prim.U32),
	record.Num("trig_offset", prim.F64),
	record.Num("frac_sec", prim.F64),
	record.Num("gmt_sec", prim.I32),
)

// CurveInfo is CurveInformation (spec §3).
var CurveInfo = record.New(
	record.Num("state_flags", prim.U32),
	record.Num("ck_type", prim.I32),
	record.Num("ck", prim.I16),
	record.Num("pre_start", prim.U32),
	record.Num("data_start", prim.U32),
	record.Num("post_start", prim.U32),
	record.Num("post_stop", prim.U32),
	record.Num("eob", prim.U32),
)
