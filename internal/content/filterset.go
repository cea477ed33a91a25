package content

import "strconv"

// FilterSet is an opaque provider-agnostic filter mapping. Values are
// strings, string/number arrays, or numbers (JSON-decoded, so numbers arrive
// as float64). An absent key means "no constraint"; normalizers never treat
// an empty string or zero as a constraint either.
type FilterSet map[string]any

// String returns the string value for key, or "" if absent or not a string.
func (f FilterSet) String(key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return ""
}

// Strings returns the array value for key coerced to strings. Scalars become
// a singleton slice so callers can treat every filter uniformly. Numbers are
// formatted without a decimal point when integral (genre IDs travel as JSON
// numbers).
func (f FilterSet) Strings(key string) []string {
	switch v := f[key].(type) {
	case nil:
		return nil
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := coerceString(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Number returns the numeric value for key. ok is false when the key is
// absent, non-numeric, or zero - zero is the "no constraint" sentinel and
// must be indistinguishable from absent.
func (f FilterSet) Number(key string) (val float64, ok bool) {
	switch v := f[key].(type) {
	case float64:
		val = v
	case int:
		val = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		val = parsed
	default:
		return 0, false
	}
	if val == 0 {
		return 0, false
	}
	return val, true
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}
