// Package record implements the declarative structured record codec
// every WFM section (static file info, header, dimension pairs, time
// base, update spec, curve info, ...) is built from: an ordered field
// list with typed pack/unpack, byte length, byte sum, and the
// string/bytes coercions spec.md documents for Construct.
package record

import (
	"fmt"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/werr"
)

// FieldKind distinguishes a fixed-width numeric field from a
// fixed-length string field; strings carry an explicit length instead
// of a prim.ElementType.
type FieldKind int

const (
	KindNumeric FieldKind = iota
	KindString
)

// Field describes one named, fixed-width slot in a Record.
type Field struct {
	Name   string
	Kind   FieldKind
	ET     prim.ElementType
	StrLen int
}

// Num declares a fixed-width numeric field.
func Num(name string, et prim.ElementType) Field {
	return Field{Name: name, Kind: KindNumeric, ET: et}
}

// Str declares a fixed-length, null-padded string field.
func Str(name string, length int) Field {
	return Field{Name: name, Kind: KindString, StrLen: length}
}

// byteLen returns the field's fixed on-disk width.
func (f Field) byteLen() int {
	if f.Kind == KindString {
		return f.StrLen
	}
	return f.ET.ByteLen()
}

// Values holds a record's field values keyed by field name, the result
// of UnpackInOrder/Construct and the input to PackInOrder/PackWithOrder.
type Values map[string]any

// Record is an ordered, declarative list of fields -- one per WFM
// section type (WaveformStaticFileInfo, WaveformHeader, PixMap,
// ExplicitDimension, ...). The same Record/Values pair replaces what
// the teacher expressed as one hand-written Go struct per section.
type Record struct {
	Fields []Field
}

// New builds a Record from an ordered field list.
func New(fields ...Field) *Record {
	return &Record{Fields: fields}
}

// ByteLength returns the record's static total on-disk size.
func (r *Record) ByteLength() int {
	n := 0
	for _, f := range r.Fields {
		n += f.byteLen()
	}
	return n
}

// PackInOrder emits every field in declaration order.
func (r *Record) PackInOrder(engine endian.EndianEngine, values Values) ([]byte, error) {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return r.PackWithOrder(engine, values, names)
}

// PackWithOrder emits the named subset of fields in the given order,
// failing ErrUnknownField if a name isn't declared on this record.
func (r *Record) PackWithOrder(engine endian.EndianEngine, values Values, order []string) ([]byte, error) {
	byName := make(map[string]Field, len(r.Fields))
	for _, f := range r.Fields {
		byName[f.Name] = f
	}

	total := 0
	fields := make([]Field, 0, len(order))
	for _, name := range order {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("record: %w: %q", werr.ErrUnknownField, name)
		}
		fields = append(fields, f)
		total += f.byteLen()
	}

	out := make([]byte, total)
	offset := 0
	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("record: %w: missing value for field %q", werr.ErrConversion, f.Name)
		}
		n := f.byteLen()
		if f.Kind == KindString {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("record: %w: field %q wants string", werr.ErrConversion, f.Name)
			}
			prim.PackString(out[offset:offset+n], s, n)
		} else {
			written, err := prim.Pack(f.ET, engine, out[offset:offset+n], v)
			if err != nil {
				return nil, fmt.Errorf("record: field %q: %w", f.Name, err)
			}
			_ = written
		}
		offset += n
	}
	return out, nil
}

// UnpackInOrder parses a byte slice into field values, in declaration
// order, returning the consumed byte count alongside the values so
// callers composing records back-to-back in a larger buffer can advance
// their own cursor.
func (r *Record) UnpackInOrder(engine endian.EndianEngine, data []byte) (Values, int, error) {
	values := make(Values, len(r.Fields))
	offset := 0
	for _, f := range r.Fields {
		n := f.byteLen()
		if offset+n > len(data) {
			return nil, offset, fmt.Errorf("record: field %q: %w", f.Name, werr.ErrShortRead)
		}
		chunk := data[offset : offset+n]
		if f.Kind == KindString {
			s, err := prim.UnpackString(chunk, n)
			if err != nil {
				return nil, offset, fmt.Errorf("record: field %q: %w", f.Name, err)
			}
			values[f.Name] = s
		} else {
			v, err := prim.Unpack(f.ET, engine, chunk)
			if err != nil {
				return nil, offset, fmt.Errorf("record: field %q: %w", f.Name, err)
			}
			values[f.Name] = v
		}
		offset += n
	}
	return values, offset, nil
}

// ByteSum sums the packed bytes of every field, in declaration order.
// This is what the file_checksum field (invariant I7) calls per record.
func (r *Record) ByteSum(engine endian.EndianEngine, values Values) (uint64, error) {
	b, err := r.PackInOrder(engine, values)
	if err != nil {
		return 0, err
	}
	return prim.ByteSum(b), nil
}

// Construct applies the spec's documented coercions when a caller
// supplies kwargs whose Go types don't exactly match a field's declared
// kind: a string value for a numeric field is packed as UTF-8 and
// reinterpreted big-endian (padded to the field's width); a []byte
// value for a string field is truncated at the first non-alphabetic
// byte. This mirrors the legacy round-trip heuristic real WFM-writing
// tools rely on for a handful of fields whose Python origin blurred
// the bytes/string boundary.
func (r *Record) Construct(kwargs Values) (Values, error) {
	byName := make(map[string]Field, len(r.Fields))
	for _, f := range r.Fields {
		byName[f.Name] = f
	}

	out := make(Values, len(kwargs))
	for name, v := range kwargs {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("record: %w: %q", werr.ErrUnknownField, name)
		}

		switch want := f.Kind; want {
		case KindString:
			switch tv := v.(type) {
			case string:
				out[name] = tv
			case []byte:
				end := len(tv)
				for i, b := range tv {
					if !isAlpha(b) {
						end = i
						break
					}
				}
				out[name] = string(tv[:end])
			default:
				return nil, fmt.Errorf("record: field %q: %w", name, werr.ErrConversion)
			}
		case KindNumeric:
			switch tv := v.(type) {
			case string:
				n := f.ET.ByteLen()
				padded := make([]byte, n)
				if len(tv) < n {
					copy(padded[n-len(tv):], tv)
				} else {
					copy(padded, tv)
				}
				coerced, err := bytesToNumeric(f.ET, padded)
				if err != nil {
					return nil, fmt.Errorf("record: field %q: %w", name, err)
				}
				out[name] = coerced
			default:
				out[name] = v
			}
		}
	}
	return out, nil
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// bytesToNumeric reinterprets a big-endian byte string as the target
// numeric element type, the companion coercion to Construct's
// string-field byte truncation.
func bytesToNumeric(et prim.ElementType, b []byte) (any, error) {
	be := endian.GetBigEndianEngine()
	switch et {
	case prim.U8:
		return b[len(b)-1], nil
	case prim.I8:
		return int8(b[len(b)-1]), nil
	case prim.U16:
		return be.Uint16(b[len(b)-2:]), nil
	case prim.I16:
		return int16(be.Uint16(b[len(b)-2:])), nil
	case prim.U32:
		return be.Uint32(b[len(b)-4:]), nil
	case prim.I32:
		return int32(be.Uint32(b[len(b)-4:])), nil
	case prim.U64:
		return be.Uint64(b[len(b)-8:]), nil
	case prim.I64:
		return int64(be.Uint64(b[len(b)-8:])), nil
	default:
		return nil, werr.ErrConversion
	}
}
