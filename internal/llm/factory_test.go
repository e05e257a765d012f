package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_NothingConfigured(t *testing.T) {
	_, err := NewProvider(context.Background(), DefaultConfig(), nil, nil)
	assert.True(t, errors.Is(err, ErrNotConfigured), "got %v", err)
}

func TestNewProvider_DiscoversOpenAI(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	_, logged := p.(*LoggingProvider)
	assert.True(t, logged, "expected logging decorator, got %T", p)
}

func TestNewProvider_RateLimitWrapsOutermost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.RequestsPerSecond = 5

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	_, limited := p.(*RateLimitedProvider)
	assert.True(t, limited, "expected rate limiter, got %T", p)
	assert.Equal(t, "mock", p.ModelID())
}
