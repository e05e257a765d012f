// Package config loads service settings from an optional YAML file, a
// .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/studybuddy/internal/llm"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. llm.gemini.model becomes STUDYBUDDY_LLM_GEMINI_MODEL.
const EnvPrefix = "STUDYBUDDY"

type Config struct {
	Env            string   `mapstructure:"env"`
	Port           int      `mapstructure:"port"`
	DBPath         string   `mapstructure:"db_path"`
	JWTSecret      string   `mapstructure:"jwt_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
	LogHashSalt    string   `mapstructure:"log_hash_salt"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	LLM       LLMConfig       `mapstructure:"llm"`
	History   HistoryConfig   `mapstructure:"history"`
}

type WikipediaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Provider          string        `mapstructure:"provider"` // empty: first provider with a key
	GenerateTimeout   time.Duration `mapstructure:"generate_timeout"`
	TutorTimeout      time.Duration `mapstructure:"tutor_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`

	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type HistoryConfig struct {
	QueueSize    int           `mapstructure:"queue_size"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// legacyEnv are the unprefixed variable names accepted for compatibility
// with existing deployments. They rank below the prefixed names.
var legacyEnv = map[string][]string{
	"env":                   {"APP_ENV", "NODE_ENV"},
	"port":                  {"PORT"},
	"jwt_secret":            {"JWT_SECRET"},
	"allowed_origins":       {"CORS_ORIGINS"},
	"llm.gemini.api_key":    {"GEMINI_API_KEY"},
	"llm.openai.api_key":    {"OPENAI_API_KEY"},
	"llm.anthropic.api_key": {"ANTHROPIC_API_KEY"},
	"llm.openrouter.api_key": {"OPENROUTER_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("env", "development")
	v.SetDefault("port", 5000)
	v.SetDefault("db_path", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("log_level", "")
	v.SetDefault("log_hash_salt", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetDefault("wikipedia.base_url", "https://en.wikipedia.org/api/rest_v1/page/summary")
	v.SetDefault("wikipedia.timeout", 10*time.Second)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.generate_timeout", 15*time.Second)
	v.SetDefault("llm.tutor_timeout", 30*time.Second)
	v.SetDefault("llm.requests_per_second", 0)
	v.SetDefault("llm.burst", llmDefaults.Burst)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("history.queue_size", 64)
	v.SetDefault("history.write_timeout", 5*time.Second)
}

// LoadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads configuration. When configFile is empty, studybuddy.yaml is
// looked up in the working directory and ~/.config/studybuddy; a missing
// file is not an error in that case.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("studybuddy")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studybuddy")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// Provider returns the LLM settings in the shape the llm package expects.
func (c *Config) Provider() llm.Config {
	return llm.Config{
		Provider: strings.ToLower(strings.TrimSpace(c.LLM.Provider)),
		Gemini: llm.GeminiConfig{
			APIKey: c.LLM.Gemini.APIKey,
			Model:  c.LLM.Gemini.Model,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.LLM.OpenAI.APIKey,
			Model:   c.LLM.OpenAI.Model,
			BaseURL: c.LLM.OpenAI.BaseURL,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: c.LLM.Anthropic.APIKey,
			Model:  c.LLM.Anthropic.Model,
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  c.LLM.OpenRouter.APIKey,
			Model:   c.LLM.OpenRouter.Model,
			BaseURL: c.LLM.OpenRouter.BaseURL,
		},
		RequestsPerSecond: c.LLM.RequestsPerSecond,
		Burst:             c.LLM.Burst,
	}
}
