package agent

import (
	"encoding/json"
	"strings"
)

// DecodeLenient attempts to parse model output as JSON into T. Markdown code
// fences around the payload are tolerated. Returns the zero value and false
// when the text does not decode; it never fails harder than that.
func DecodeLenient[T any](text string) (T, bool) {
	var out T
	trimmed := strings.TrimSpace(text)
	if after, found := strings.CutPrefix(trimmed, "```json"); found {
		trimmed = after
	} else if after, found := strings.CutPrefix(trimmed, "```"); found {
		trimmed = after
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}
