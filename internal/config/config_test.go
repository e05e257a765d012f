package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no inherited settings.
func isolate(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "APP_ENV", "NODE_ENV", "JWT_SECRET", "CORS_ORIGINS",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"STUDYBUDDY_PORT", "STUDYBUDDY_ENV", "STUDYBUDDY_LLM_PROVIDER",
		"STUDYBUDDY_LLM_GEMINI_API_KEY", "STUDYBUDDY_LLM_GENERATE_TIMEOUT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://en.wikipedia.org/api/rest_v1/page/summary", cfg.Wikipedia.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Wikipedia.Timeout)
	assert.Equal(t, 15*time.Second, cfg.LLM.GenerateTimeout)
	assert.Equal(t, 64, cfg.History.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.History.WriteTimeout)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STUDYBUDDY_PORT", "9090")
	t.Setenv("STUDYBUDDY_LLM_GENERATE_TIMEOUT", "20s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 20*time.Second, cfg.LLM.GenerateTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "studybuddy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 7000
llm:
  provider: openai
  openai:
    api_key: sk-file
    model: gpt-4o
history:
  queue_size: 8
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 8, cfg.History.QueueSize)

	p := cfg.Provider()
	assert.Equal(t, "openai", p.Provider)
	assert.Equal(t, "sk-file", p.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", p.OpenAI.Model)
	assert.NoError(t, p.Validate())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestProvider_DiscoversFromKeys(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, err := Load("")
	require.NoError(t, err)

	p, ok := cfg.Provider().Discover()
	require.True(t, ok)
	assert.Equal(t, "openrouter", p.Provider)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=6000\nJWT_SECRET=from-dotenv\n"), 0o600))
	t.Setenv("PORT", "7000")

	LoadDotEnv()
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
}
