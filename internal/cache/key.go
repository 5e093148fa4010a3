package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Key derives a stable cache key from a tool name and its arguments. The
// arguments are serialized canonically (sorted keys) so logically identical
// requests hash identically regardless of map iteration order.
func Key(toolName string, args map[string]any) string {
	data, err := canonicalJSON(args)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return toolName + ":" + hex.EncodeToString(sum[:])
}

func canonicalJSON(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte("null"), nil
	case string:
		return []byte(strconv.Quote(v)), nil
	case json.Number:
		return []byte(v.String()), nil
	case bool, float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return json.Marshal(v)
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := canonicalJSON(item)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		return canonicalMapJSON(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, item := range v {
			converted[fmt.Sprint(key)] = item
		}
		return canonicalMapJSON(converted)
	default:
		return json.Marshal(v)
	}
}

func canonicalMapJSON(value map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(value))
	for key := range value {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
		data, err := canonicalJSON(value[key])
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
