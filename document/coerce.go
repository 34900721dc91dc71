package document

import (
	"strconv"
	"strings"
)

// Coercion selects how a raw control value is converted before it is
// written into the document.
type Coercion int

const (
	CoerceText Coercion = iota
	CoerceBoolean
	CoerceNumber
	CoerceList
)

// Coerce converts raw for storage. Checkbox-like values become booleans,
// numeric values float64 with 0 as the fallback, list values []any; text
// keeps the raw value.
func Coerce(c Coercion, raw any) any {
	switch c {
	case CoerceBoolean:
		switch t := raw.(type) {
		case bool:
			return t
		case string:
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "true", "on", "1", "yes", "checked":
				return true
			}
			return false
		}
		return raw != nil
	case CoerceNumber:
		switch t := raw.(type) {
		case float64:
			return t
		case int:
			return float64(t)
		case int64:
			return float64(t)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return float64(0)
			}
			return f
		}
		return float64(0)
	case CoerceList:
		switch t := raw.(type) {
		case []any:
			return t
		case []string:
			out := make([]any, len(t))
			for i, s := range t {
				out[i] = s
			}
			return out
		case string:
			out := []any{}
			for _, part := range strings.Split(t, ",") {
				if s := strings.TrimSpace(part); s != "" {
					out = append(out, s)
				}
			}
			return out
		case nil:
			return []any{}
		}
		return []any{raw}
	}
	return raw
}
