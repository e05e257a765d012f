package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with event
// logging and the optional process-wide rate limit. Retries and timeouts
// are left to callers because each use site wants a different policy.
// It returns an error wrapping ErrNotConfigured when no key is available.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	cfg, ok := cfg.Discover()
	if !ok {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → rate limit → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithRateLimit(logged, cfg.RequestsPerSecond, cfg.Burst), nil
}
