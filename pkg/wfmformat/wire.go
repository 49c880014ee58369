package wfmformat

import (
	"fmt"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/pkg/record"
	"github.com/scopewave/wfmgo/pkg/sample"
	"github.com/scopewave/wfmgo/pkg/wfmenum"
)

func (a *Assembler) userViewRecord() *record.Record {
	if a.Version == wfmenum.VersionThree {
		return UserViewV3
	}
	return UserViewV1V2
}

// Marshal emits the assembler's records in canonical order, followed
// by the pre/curve/post buffers, the file checksum, and the tekmeta
// block (spec §4.5, §6).
func (a *Assembler) Marshal() ([]byte, error) {
	engine := a.engine()
	var out []byte

	out = append(out, a.Endian.Marker()...)
	out = append(out, []byte(a.Version.VersionString())...)

	for _, p := range []struct {
		rec    *record.Record
		values record.Values
	}{
		{StaticFileInfo, a.FileInfo},
		{Header, a.Header},
	} {
		b, err := p.rec.PackInOrder(engine, p.values)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	if a.Version != wfmenum.VersionOne {
		b, err := SummaryFrameType.PackInOrder(engine, a.SummaryFrameType)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}

	b, err := PixMap.PackInOrder(engine, a.PixMap)
	if err != nil {
		return nil, err
	}
	out = append(out, b...)

	uv := a.userViewRecord()
	for i := 0; i < 2; i++ {
		db, err := Dimension.PackInOrder(engine, a.ExplicitDim[i])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: explicit dim %d: %w", i, err)
		}
		out = append(out, db...)
		ub, err := uv.PackInOrder(engine, a.ExplicitUserView[i])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: explicit user view %d: %w", i, err)
		}
		out = append(out, ub...)
	}
	for i := 0; i < 2; i++ {
		db, err := Dimension.PackInOrder(engine, a.ImplicitDim[i])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: implicit dim %d: %w", i, err)
		}
		out = append(out, db...)
		ub, err := uv.PackInOrder(engine, a.ImplicitUserView[i])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: implicit user view %d: %w", i, err)
		}
		out = append(out, ub...)
	}

	for i := 0; i < 2; i++ {
		tb, err := TimeBaseInfo.PackInOrder(engine, a.TimeBase[i])
		if err != nil {
			return nil, fmt.Errorf("wfmformat: time base %d: %w", i, err)
		}
		out = append(out, tb...)
	}

	usb, err := UpdateSpec.PackInOrder(engine, a.UpdateSpecPrimary)
	if err != nil {
		return nil, err
	}
	out = append(out, usb...)
	cib, err := CurveInfo.PackInOrder(engine, a.CurveInfoPrimary)
	if err != nil {
		return nil, err
	}
	out = append(out, cib...)

	for _, ff := range a.FastFrames {
		fb, err := UpdateSpec.PackInOrder(engine, ff.updateSpecValues())
		if err != nil {
			return nil, err
		}
		out = append(out, fb...)
	}
	for _, ff := range a.FastFrames {
		fb, err := CurveInfo.PackInOrder(engine, ff.curveInfoValues())
		if err != nil {
			return nil, err
		}
		out = append(out, fb...)
	}

	et, err := wfmenum.CurveFormatToElementType(mustFormat(a.ExplicitDim[0]))
	if err != nil {
		return nil, err
	}

	for _, buf := range []sample.SampleArray{a.PreBuffer, a.CurveBuffer, a.PostBuffer} {
		bb, err := encodeBuffer(engine, et, buf)
		if err != nil {
			return nil, err
		}
		out = append(out, bb...)
	}

	a.Checksum = prim.ByteSum(out)
	checksumBytes := make([]byte, 8)
	prim.PackU64(engine, checksumBytes, a.Checksum)
	out = append(out, checksumBytes...)

	tekmetaBytes, err := marshalTekmeta(engine, a.Tekmeta)
	if err != nil {
		return nil, err
	}
	out = append(out, tekmetaBytes...)

	return out, nil
}

func mustFormat(v record.Values) int32 {
	f, _ := v["format"].(int32)
	return f
}

// encodeBuffer packs every element of s using et's width, boxing each
// element through `any` (anyAt) and handing it to pkg/prim.Pack's
// generic dispatcher.
func encodeBuffer(engine endian.EndianEngine, et prim.ElementType, s sample.SampleArray) ([]byte, error) {
	width := et.ByteLen()
	out := make([]byte, s.Len()*width)
	for i := 0; i < s.Len(); i++ {
		v := anyAt(s.Data, i)
		if _, err := prim.Pack(et, engine, out[i*width:(i+1)*width], v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeBuffer is encodeBuffer's read-side inverse.
func decodeBuffer(engine endian.EndianEngine, et prim.ElementType, data []byte, count int) (sample.SampleArray, error) {
	width := et.ByteLen()
	values := make([]float64, count)
	for i := 0; i < count; i++ {
		v, err := prim.Unpack(et, engine, data[i*width:(i+1)*width])
		if err != nil {
			return sample.SampleArray{}, err
		}
		values[i] = toFloat(v)
	}
	return sample.SampleArray{ET: et, Domain: sample.Raw, Data: sample.CastFromFloat64(values, et)}, nil
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
