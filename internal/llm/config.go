package llm

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock".
	// Empty means "pick the first provider with a key" (see Discover).
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// RequestsPerSecond caps outbound calls across the process. Zero disables.
	RequestsPerSecond float64
	Burst             int
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Jitter is the +/- fraction applied to each wait. Zero waits exactly.
	Jitter float64

	// RetryOn overrides the default retry policy when set.
	RetryOn func(error) bool

	// OnRetry is called before each sleep with the 1-based attempt that failed.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// placeholderKeys are sample values shipped in .env templates. They count
// as unset.
var placeholderKeys = map[string]bool{
	"your_gemini_api_key_here":     true,
	"your_openai_api_key_here":     true,
	"your_anthropic_api_key_here":  true,
	"your_openrouter_api_key_here": true,
}

// usableKey reports whether k looks like a real credential.
func usableKey(k string) bool {
	k = strings.TrimSpace(k)
	return k != "" && !placeholderKeys[strings.ToLower(k)]
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Burst: 1,
	}
}

// Discover fills in Provider when it is empty by probing the configured
// keys in priority order (Gemini, OpenAI, Anthropic, OpenRouter).
// It returns false when no usable key is present.
func (c Config) Discover() (Config, bool) {
	if c.Provider != "" {
		return c, true
	}
	switch {
	case usableKey(c.Gemini.APIKey):
		c.Provider = "gemini"
	case usableKey(c.OpenAI.APIKey):
		c.Provider = "openai"
	case usableKey(c.Anthropic.APIKey):
		c.Provider = "anthropic"
	case usableKey(c.OpenRouter.APIKey):
		c.Provider = "openrouter"
	default:
		return c, false
	}
	return c, true
}

// Validate checks that the selected provider has its required API key set.
// A missing key yields an error wrapping ErrNotConfigured.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "OPENROUTER_API_KEY"
	case "mock":
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !usableKey(key) {
		return fmt.Errorf("%s is required for the %s provider: %w", env, c.Provider, ErrNotConfigured)
	}
	return nil
}
