package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPacketJSON = `{
  "summary": ["Plants turn light into sugar.", "Chlorophyll absorbs light.", "Oxygen is released."],
  "quiz": [
    {"question": "What absorbs light?", "options": ["A) Chlorophyll", "B) Water", "C) Soil", "D) Air"], "correctAnswer": "A"},
    {"question": "What is released?", "options": ["A) Nitrogen", "B) Oxygen", "C) Helium", "D) Argon"], "correctAnswer": "B"},
    {"question": "What is produced?", "options": ["A) Salt", "B) Iron", "C) Sugar", "D) Wax"], "correctAnswer": "C"}
  ],
  "studyTip": "Draw the cycle from memory."
}`

func testPacketSchema() *Schema {
	return &Schema{
		Name:        "study-packet-test",
		Description: "Summary, quiz and tip for a topic",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"quiz": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question":      map[string]any{"type": "string"},
							"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"correctAnswer": map[string]any{"type": "string"},
						},
						"required": []any{"question", "options", "correctAnswer"},
					},
				},
				"studyTip": map[string]any{"type": "string"},
			},
			"required": []any{"summary", "quiz", "studyTip"},
		},
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! Here it is: {\"a\":{\"b\":2}} Hope that helps.", `{"a":{"b":2}}`},
		{"padded", "  \n{\"a\":1}\n\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSON_Failures(t *testing.T) {
	for _, in := range []string{"", "   ", "```json\n```", "no json here", "{broken: true}"} {
		_, err := ExtractJSON(in)
		var inv *ErrInvalidResponse
		assert.True(t, errors.As(err, &inv), "input %q: got %v", in, err)
	}
}

func TestDecodeContent_NoSchemaWrapsText(t *testing.T) {
	raw, err := decodeContent(nil, "x = 4")
	require.NoError(t, err)

	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, "x = 4", s)
}

func TestDecodeContent_ValidatesAgainstSchema(t *testing.T) {
	raw, err := decodeContent(testPacketSchema(), "```json\n"+testPacketJSON+"\n```")
	require.NoError(t, err)
	assert.JSONEq(t, testPacketJSON, string(raw))

	_, err = decodeContent(testPacketSchema(), `{"summary":["only"]}`)
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}
