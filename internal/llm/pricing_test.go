package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  float64 // input price
	}{
		{"gemini-2.5-flash", 0.3},
		{"gemini-flash", 0.3},
		{"google/gemini-2.5-flash", 0.3},
		{"openai/gpt-4o-mini", 0.15},
		{"claude-haiku", 1},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		require.NotNil(t, c, tt.model)
		assert.Equal(t, tt.want, c.InputPerMTok, tt.model)
	}
	assert.Nil(t, LookupCost("mock-model"))
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.3, OutputPerMTok: 2.5}
	assert.InDelta(t, 0.0008, c.Cost(1000, 200), 1e-12)
}
