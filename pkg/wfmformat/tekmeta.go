package wfmformat

import (
	"fmt"
	"unicode/utf8"

	"github.com/scopewave/wfmgo/endian"
	"github.com/scopewave/wfmgo/pkg/prim"
	"github.com/scopewave/wfmgo/werr"
)

var tekmetaTag = []byte("tekmeta!")

const (
	tekmetaTypeBytes  uint8 = 1
	tekmetaTypeInt32  uint8 = 2
	tekmetaTypeFloat64 uint8 = 3
	tekmetaTypeUint32 uint8 = 4
)

// marshalTekmeta always writes the tag, even for an empty map, so a
// reader never has to distinguish "no tekmeta" from "empty tekmeta"
// for files this package itself produced.
func marshalTekmeta(engine endian.EndianEngine, meta map[string]any) ([]byte, error) {
	out := append([]byte(nil), tekmetaTag...)

	countBuf := make([]byte, 4)
	prim.PackU32(engine, countBuf, uint32(len(meta)))
	out = append(out, countBuf...)

	for key, value := range meta {
		keyBytes := []byte(key)
		keyLenBuf := make([]byte, 4)
		prim.PackU32(engine, keyLenBuf, uint32(len(keyBytes)))
		out = append(out, keyLenBuf...)
		out = append(out, keyBytes...)

		switch v := value.(type) {
		case string:
			out = append(out, tekmetaTypeBytes)
			out = append(out, lengthPrefixed(engine, []byte(v))...)
		case []byte:
			out = append(out, tekmetaTypeBytes)
			out = append(out, lengthPrefixed(engine, v)...)
		case int32:
			out = append(out, tekmetaTypeInt32)
			buf := make([]byte, 4)
			prim.PackI32(engine, buf, v)
			out = append(out, buf...)
		case float64:
			out = append(out, tekmetaTypeFloat64)
			buf := make([]byte, 8)
			prim.PackF64(engine, buf, v)
			out = append(out, buf...)
		case uint32:
			out = append(out, tekmetaTypeUint32)
			buf := make([]byte, 4)
			prim.PackU32(engine, buf, v)
			out = append(out, buf...)
		default:
			return nil, fmt.Errorf("wfmformat: tekmeta key %q: %w: unsupported value type %T", key, werr.ErrConversion, value)
		}
	}
	return out, nil
}

func lengthPrefixed(engine endian.EndianEngine, b []byte) []byte {
	out := make([]byte, 4+len(b))
	prim.PackU32(engine, out, uint32(len(b)))
	copy(out[4:], b)
	return out
}

// parseTekmeta scans forward for the "tekmeta!" tag. If it is not
// found before EOF, metadata is empty -- not an error (spec §4.6 step
// 10, §6). If the tag is found but a record is malformed, it fails
// ErrMetadataUnreadable.
func parseTekmeta(engine endian.EndianEngine, data []byte) (map[string]any, error) {
	idx := indexOf(data, tekmetaTag)
	if idx < 0 {
		return map[string]any{}, nil
	}

	cursor := idx + len(tekmetaTag)
	if cursor+4 > len(data) {
		return nil, fmt.Errorf("wfmformat: %w: truncated element_count", werr.ErrMetadataUnreadable)
	}
	count := engine.Uint32(data[cursor : cursor+4])
	cursor += 4

	meta := make(map[string]any, count)
	for i := uint32(0); i < count; i++ {
		if cursor+4 > len(data) {
			return nil, fmt.Errorf("wfmformat: %w: truncated key_size at entry %d", werr.ErrMetadataUnreadable, i)
		}
		keySize := engine.Uint32(data[cursor : cursor+4])
		cursor += 4

		if cursor+int(keySize) > len(data) {
			return nil, fmt.Errorf("wfmformat: %w: truncated key at entry %d", werr.ErrMetadataUnreadable, i)
		}
		key := string(data[cursor : cursor+int(keySize)])
		cursor += int(keySize)

		if cursor+1 > len(data) {
			return nil, fmt.Errorf("wfmformat: %w: truncated type_indicator at entry %d", werr.ErrMetadataUnreadable, i)
		}
		typeIndicator := data[cursor]
		cursor++

		switch typeIndicator {
		case tekmetaTypeBytes:
			if cursor+4 > len(data) {
				return nil, fmt.Errorf("wfmformat: %w: truncated value_size at entry %d", werr.ErrMetadataUnreadable, i)
			}
			valueSize := engine.Uint32(data[cursor : cursor+4])
			cursor += 4
			if cursor+int(valueSize) > len(data) {
				return nil, fmt.Errorf("wfmformat: %w: truncated value at entry %d", werr.ErrMetadataUnreadable, i)
			}
			raw := data[cursor : cursor+int(valueSize)]
			cursor += int(valueSize)
			if utf8.Valid(raw) {
				meta[key] = string(raw)
			} else {
				meta[key] = append([]byte(nil), raw...)
			}
		case tekmetaTypeInt32:
			if cursor+4 > len(data) {
				return nil, fmt.Errorf("wfmformat: %w: truncated i32 value at entry %d", werr.ErrMetadataUnreadable, i)
			}
			meta[key] = int32(engine.Uint32(data[cursor : cursor+4]))
			cursor += 4
		case tekmetaTypeFloat64:
			if cursor+8 > len(data) {
				return nil, fmt.Errorf("wfmformat: %w: truncated f64 value at entry %d", werr.ErrMetadataUnreadable, i)
			}
			v, err := prim.UnpackF64(engine, data[cursor:cursor+8])
			if err != nil {
				return nil, fmt.Errorf("wfmformat: %w", werr.ErrMetadataUnreadable)
			}
			meta[key] = v
			cursor += 8
		case tekmetaTypeUint32:
			if cursor+4 > len(data) {
				return nil, fmt.Errorf("wfmformat: %w: truncated u32 value at entry %d", werr.ErrMetadataUnreadable, i)
			}
			meta[key] = engine.Uint32(data[cursor : cursor+4])
			cursor += 4
		default:
			return nil, fmt.Errorf("wfmformat: %w: unknown type_indicator %d at entry %d", werr.ErrMetadataUnreadable, typeIndicator, i)
		}
	}
	return meta, nil
}

func indexOf(haystack, needle []byte) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
