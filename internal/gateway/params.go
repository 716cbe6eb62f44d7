package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// params renders caller-supplied values into prompt text without escaping.
type params map[string]interface{}

// str returns the rendered value for key, or def when the key is missing,
// null or an empty string.
func (p params) str(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s := render(v); s != "" {
		return s
	}
	return def
}

func render(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ", ")
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, render(item))
		}
		return strings.Join(parts, ", ")
	default:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// encode renders the whole parameter map as JSON for the custom kind.
func (p params) encode() (string, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]interface{}(p))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedParameters, err)
	}
	return string(b), nil
}
