package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("```(?:json)?\\n?")

// ExtractJSON pulls a JSON object out of free-form model output. Markdown
// code fences are removed and the span from the first '{' to the last '}'
// is returned. Text without such a span is returned trimmed so the caller
// still sees a parse failure for non-JSON replies.
func ExtractJSON(text string) (json.RawMessage, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	if start, end := strings.IndexByte(clean, '{'), strings.LastIndexByte(clean, '}'); start >= 0 && end > start {
		clean = clean[start : end+1]
	}
	if clean == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("empty response")}
	}
	if !json.Valid([]byte(clean)) {
		return nil, &ErrInvalidResponse{
			Content: json.RawMessage(clean),
			Err:     errors.New("response is not valid JSON"),
		}
	}
	return json.RawMessage(clean), nil
}

// decodeContent turns provider text into Response.Content. With a schema
// the text is extracted and validated as JSON; without one it is wrapped
// as a JSON string.
func decodeContent(schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		raw, err := json.Marshal(text)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		return raw, nil
	}

	content, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(schema, content); err != nil {
		return nil, err
	}
	return content, nil
}
