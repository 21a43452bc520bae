package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxExactFloatInt is the largest integer a float64 holds without rounding.
const maxExactFloatInt = 1 << 53

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// getID reads an integral id from a JSON number or a numeric string.
func getID(src map[string]any, key string) (int64, error) {
	raw, ok := src[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s is missing", key)
	}
	switch typed := raw.(type) {
	case float64:
		if typed != math.Trunc(typed) || math.Abs(typed) > maxExactFloatInt {
			return 0, fmt.Errorf("%s %v is not an integer", key, typed)
		}
		return int64(typed), nil
	case int64:
		return typed, nil
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s %q is not numeric", key, typed)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%s has unsupported %s value", key, jsonKind(raw))
	}
}

// jsonKind names the JSON type of a decoded value for log fields.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, int64:
		return "number"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func firstString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := getString(src, key); v != "" {
			return v
		}
	}
	return ""
}

// displayName reads a name from either a bare string or an object carrying
// one of fields, in order.
func displayName(raw any, fields ...string) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		return firstString(typed, fields...)
	default:
		return ""
	}
}
