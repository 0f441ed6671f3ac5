package ai

import (
	"encoding/json"
	"log/slog"
)

// Structured is the {content, css} pair expected back when generating or
// editing a section, header or footer.
type Structured struct {
	Content string `json:"content"`
	CSS     string `json:"css"`
}

// ExtractJSON strictly parses raw as a single JSON value. It returns the
// parsed value unchanged, or nil when raw is not valid JSON (or is the
// literal null). It never fails loudly so callers can decide to retry.
// No schema is checked: a well-formed value of the wrong shape is returned
// as-is.
func ExtractJSON(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Debug("llm response is not valid JSON", "error", err, "length", len(raw))
		return nil
	}
	return v
}

// DecodeStructured destructures an extracted value into a Structured pair.
// Missing members, non-string members and non-object values all read as
// empty strings.
func DecodeStructured(v any) Structured {
	obj, ok := v.(map[string]any)
	if !ok {
		return Structured{}
	}
	content, _ := obj["content"].(string)
	css, _ := obj["css"].(string)
	return Structured{Content: content, CSS: css}
}
