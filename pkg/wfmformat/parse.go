package wfmformat

import (
	"fmt"

	"github.com/scopewave/wfmgo/pkg/wfmenum"
	"github.com/scopewave/wfmgo/werr"
)

// Parse decodes a full WFM byte stream into an Assembler, implementing
// spec.md §4.6's read pipeline steps 1-10 (the checksum and tekmeta
// steps tolerate truncation/absence as documented).
func Parse(data []byte) (*Assembler, error) {
	if len(data) < 10 {
		return nil, werr.ErrUnexpectedEOF
	}

	e, ok := wfmenum.ParseEndianMarker(data[0:2])
	if !ok {
		return nil, fmt.Errorf("wfmformat: %w", werr.ErrBadEndian)
	}
	versionStr, err := safeSlice(data, 2, 8)
	if err != nil {
		return nil, err
	}
	v, ok := wfmenum.ParseVersion(string(versionStr))
	if !ok {
		return nil, fmt.Errorf("wfmformat: %w", werr.ErrBadVersion)
	}

	a := New(e, v)
	engine := a.engine()
	cursor := 10

	fileInfo, n, err := StaticFileInfo.UnpackInOrder(engine, data[cursor:])
	if err != nil {
		return nil, fmt.Errorf("wfmformat: file info: %w", err)
	}
	a.FileInfo = fileInfo
	cursor += n

	header, n, err := Header.UnpackInOrder(engine, data[cursor:])
	if err != nil {
		return nil, fmt.Errorf("wfmformat: header: %w", err)
	}
	a.Header = header
	cursor += n

	if v != wfmenum.VersionOne {
		sft, n, err := SummaryFrameType.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: summary_frame_type: %w", err)
		}
		a.SummaryFrameType = sft
		cursor += n
	}

	pm, n, err := PixMap.UnpackInOrder(engine, data[cursor:])
	if err != nil {
		return nil, fmt.Errorf("wfmformat: pixmap: %w", err)
	}
	a.PixMap = pm
	cursor += n

	uv := a.userViewRecord()

	for i := 0; i < 2; i++ {
		dv, n, err := Dimension.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: explicit dim %d: %w", i, err)
		}
		a.ExplicitDim[i] = dv
		cursor += n

		uvv, n, err := uv.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: explicit user view %d: %w", i, err)
		}
		a.ExplicitUserView[i] = uvv
		cursor += n
	}
	a.HasSecondExplicit = mustFormat(a.ExplicitDim[1]) != wfmenum.ExplicitNoDimension

	for i := 0; i < 2; i++ {
		dv, n, err := Dimension.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: implicit dim %d: %w", i, err)
		}
		a.ImplicitDim[i] = dv
		cursor += n

		uvv, n, err := uv.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: implicit user view %d: %w", i, err)
		}
		a.ImplicitUserView[i] = uvv
		cursor += n
	}
	a.HasSecondImplicit = mustFormat(a.ImplicitDim[1]) != wfmenum.ExplicitNoDimension

	for i := 0; i < 2; i++ {
		tb, n, err := TimeBaseInfo.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: time base %d: %w", i, err)
		}
		a.TimeBase[i] = tb
		cursor += n
	}

	us, n, err := UpdateSpec.UnpackInOrder(engine, data[cursor:])
	if err != nil {
		return nil, fmt.Errorf("wfmformat: primary update spec: %w", err)
	}
	a.UpdateSpecPrimary = us
	cursor += n

	ci, n, err := CurveInfo.UnpackInOrder(engine, data[cursor:])
	if err != nil {
		return nil, fmt.Errorf("wfmformat: primary curve info: %w", err)
	}
	a.CurveInfoPrimary = ci
	cursor += n

	acqFF, _ := a.Header["acq_ff"].(uint32)
	fastFrameUpdates := make([]map[string]any, acqFF)
	for i := range fastFrameUpdates {
		v, n, err := UpdateSpec.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: fast frame update spec %d: %w", i, err)
		}
		fastFrameUpdates[i] = v
		cursor += n
	}
	a.FastFrames = make([]FastFrame, acqFF)
	for i := range a.FastFrames {
		v, n, err := CurveInfo.UnpackInOrder(engine, data[cursor:])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: fast frame curve info %d: %w", i, err)
		}
		cursor += n
		a.FastFrames[i] = fastFrameFromValues(fastFrameUpdates[i], v)
	}

	et, err := wfmenum.CurveFormatToElementType(mustFormat(a.ExplicitDim[0]))
	if err != nil {
		return nil, err
	}
	bpp := et.ByteLen()

	preStart, _ := a.CurveInfoPrimary["pre_start"].(uint32)
	dataStart, _ := a.CurveInfoPrimary["data_start"].(uint32)
	postStart, _ := a.CurveInfoPrimary["post_start"].(uint32)
	postStop, _ := a.CurveInfoPrimary["post_stop"].(uint32)

	preCount := int(dataStart-preStart) / bpp
	curveCount := int(postStart-dataStart) / bpp
	postCount := int(postStop-postStart) / bpp

	for _, count := range []*int{&preCount, &curveCount, &postCount} {
		if *count < 0 {
			*count = 0
		}
	}

	a.PreBuffer, err = decodeBuffer(engine, et, data[cursor:], preCount)
	if err != nil {
		return nil, fmt.Errorf("wfmformat: pre buffer: %w", err)
	}
	cursor += preCount * bpp

	a.CurveBuffer, err = decodeBuffer(engine, et, data[cursor:], curveCount)
	if err != nil {
		return nil, fmt.Errorf("wfmformat: curve buffer: %w", err)
	}
	cursor += curveCount * bpp

	a.PostBuffer, err = decodeBuffer(engine, et, data[cursor:], postCount)
	if err != nil {
		return nil, fmt.Errorf("wfmformat: post buffer: %w", err)
	}
	cursor += postCount * bpp

	// file_checksum: absence tolerated (spec §4.6 step 9, §7).
	if cursor+8 <= len(data) {
		a.Checksum = engine.Uint64(data[cursor : cursor+8])
		cursor += 8
	}

	// tekmeta: scan forward for "tekmeta!"; absent tag means empty
	// metadata, not an error (spec §4.6 step 10, §6).
	meta, err := parseTekmeta(engine, data[cursor:])
	if err != nil {
		return nil, err
	}
	a.Tekmeta = meta

	return a, nil
}

func fastFrameFromValues(us, ci map[string]any) FastFrame {
	realPtOffset, _ := us["real_pt_offset"].(uint32)
	trigOffset, _ := us["trig_offset"].(float64)
	fracSec, _ := us["frac_sec"].(float64)
	gmtSec, _ := us["gmt_sec"].(int32)

	stateFlags, _ := ci["state_flags"].(uint32)
	ckType, _ := ci["ck_type"].(int32)
	ck, _ := ci["ck"].(int16)
	preStart, _ := ci["pre_start"].(uint32)
	dataStart, _ := ci["data_start"].(uint32)
	postStart, _ := ci["post_start"].(uint32)
	postStop, _ := ci["post_stop"].(uint32)
	eob, _ := ci["eob"].(uint32)

	return FastFrame{
		RealPtOffset: realPtOffset, TrigOffset: trigOffset, FracSec: fracSec, GmtSec: gmtSec,
		StateFlags: stateFlags, CkType: ckType, Ck: ck,
		PreStart: preStart, DataStart: dataStart, PostStart: postStart, PostStop: postStop, Eob: eob,
	}
}

func safeSlice(data []byte, start, length int) ([]byte, error) {
	if start+length > len(data) {
		return nil, werr.ErrUnexpectedEOF
	}
	return data[start : start+length], nil
}
