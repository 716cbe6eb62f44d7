package gateway

import (
	"encoding/json"
	"strings"
)

type NormalizedResult struct {
	IsStructured bool
	Payload      map[string]interface{}
	RawText      string
}

// Normalize extracts the span from the first '{' to the last '}' and decodes it
// as a JSON object. Anything else is kept as raw text. It never fails.
func Normalize(raw string) NormalizedResult {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return NormalizedResult{RawText: raw}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil || payload == nil {
		return NormalizedResult{RawText: raw}
	}
	return NormalizedResult{IsStructured: true, Payload: payload}
}

// Value is the envelope form: the payload, or {text, raw: true}.
func (r NormalizedResult) Value() interface{} {
	if r.IsStructured {
		return r.Payload
	}
	return map[string]interface{}{"text": r.RawText, "raw": true}
}
