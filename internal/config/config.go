package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration, resolved once at
// process start and passed into the orchestrator and adapters. A
// missing provider credential disables that provider at request time;
// it is never a startup failure.
type Config struct {
	Addr        string
	MetricsAddr string

	GeminiAPIKey string
	OpenAIAPIKey string

	GeminiModel string
	OpenAIModel string
	MaxTokens   int
	Temperature float64

	ProviderTimeout time.Duration

	LogLevel     string
	LogFormat    string
	AuditLogPath string
}

// fileOverlay is the YAML file shape. Durations are strings so they
// can be written as "30s". API keys are environment-only on purpose.
type fileOverlay struct {
	Addr            string   `yaml:"addr"`
	MetricsAddr     string   `yaml:"metrics_addr"`
	GeminiModel     string   `yaml:"gemini_model"`
	OpenAIModel     string   `yaml:"openai_model"`
	MaxTokens       int      `yaml:"max_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	ProviderTimeout string   `yaml:"provider_timeout"`
	LogLevel        string   `yaml:"log_level"`
	LogFormat       string   `yaml:"log_format"`
	AuditLogPath    string   `yaml:"audit_log_path"`
}

// SynthesisEnabled reports whether the synthesis provider can be used.
func (c Config) SynthesisEnabled() bool {
	return c.GeminiAPIKey != ""
}

func defaults() Config {
	return Config{
		Addr:            ":8080",
		MetricsAddr:     ":2112",
		GeminiModel:     "gemini-1.5-flash",
		OpenAIModel:     "gpt-4o-mini",
		MaxTokens:       1024,
		Temperature:     0.7,
		ProviderTimeout: 30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load resolves configuration as defaults, then the optional YAML file
// at path, then environment overrides. API keys come from the
// environment only.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var overlay fileOverlay
		if err := yaml.Unmarshal(b, &overlay); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if err := cfg.applyFile(overlay); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(o fileOverlay) error {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
	if o.GeminiModel != "" {
		c.GeminiModel = o.GeminiModel
	}
	if o.OpenAIModel != "" {
		c.OpenAIModel = o.OpenAIModel
	}
	if o.MaxTokens > 0 {
		c.MaxTokens = o.MaxTokens
	}
	if o.Temperature != nil && *o.Temperature >= 0 {
		c.Temperature = *o.Temperature
	}
	if o.ProviderTimeout != "" {
		d, err := time.ParseDuration(o.ProviderTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid provider_timeout %q", o.ProviderTimeout)
		}
		c.ProviderTimeout = d
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.AuditLogPath != "" {
		c.AuditLogPath = o.AuditLogPath
	}
	return nil
}

// FromEnv resolves configuration from defaults and environment alone.
func FromEnv() Config {
	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "ADDR")
	setString(&c.MetricsAddr, "METRICS_ADDR")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.OpenAIModel, "OPENAI_MODEL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.AuditLogPath, "AUDIT_LOG_PATH")

	if v := os.Getenv("FUSION_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("FUSION_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Temperature = f
		}
	}
	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.ProviderTimeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
