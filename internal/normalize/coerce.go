package normalize

import (
	"math"
	"strings"
	"time"
)

// lookup walks a dotted path through a generic JSON tree. Returns nil when any
// hop is absent or not an object.
func lookup(raw map[string]any, path string) any {
	var current any = raw
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// coerceString returns a trimmed non-empty string, or false for anything else.
func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// coerceNumber accepts JSON numbers and numeric strings in the transcript
// languages' formats.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		return parseNumber(n)
	default:
		return 0, false
	}
}

// coerceInt accepts whole-valued numbers only; "2.5 dependents" is malformed,
// not roundable.
func coerceInt(v any) (int, bool) {
	n, ok := coerceNumber(v)
	if !ok || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

var truthyWords = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true, "да": true, "так": true,
	"false": false, "no": false, "n": false, "0": false, "нет": false, "ні": false,
}

// coerceBool accepts JSON booleans plus the yes/no words the backend
// occasionally emits instead.
func coerceBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		val, ok := truthyWords[strings.ToLower(strings.TrimSpace(b))]
		return val, ok
	default:
		return false, false
	}
}

// coerceDate validates an ISO calendar date and re-emits it in canonical form.
func coerceDate(v any) (string, bool) {
	s, ok := coerceString(v)
	if !ok {
		return "", false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", false
	}
	return t.Format(time.DateOnly), true
}

// coerceStringSlice keeps the string members of a JSON array, dropping the
// rest. A nil result means the field was absent or not an array.
func coerceStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := coerceString(item); ok {
			out = append(out, s)
		}
	}
	return out
}
