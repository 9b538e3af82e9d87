// Package config holds all client configuration. Values come from, in
// precedence order: explicit flags, environment variables, an optional YAML
// config file, and built-in defaults. A .env file in the working directory is
// loaded first so local setups behave like the hosted deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"contra/internal/types"
)

// Config is the full client configuration.
type Config struct {
	// Backend holds the HTTP contract endpoints.
	Backend BackendConfig `yaml:"backend"`

	// Content holds generation defaults mirrored from the backend.
	Content ContentConfig `yaml:"content"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the generation backend connection.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL controls how long normalized generation results are cached
	// per request. Zero disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ContentConfig carries the generation defaults.
type ContentConfig struct {
	DefaultTone        types.Tone           `yaml:"default_tone"`
	DefaultExpertise   types.ExpertiseLevel `yaml:"default_expertise"`
	DefaultVariants    int                  `yaml:"default_variants"`
	DefaultMaxLength   int                  `yaml:"default_max_length"`
	DefaultTemperature float64              `yaml:"default_temperature"`

	// ConversationTemperature is the default for follow-up turns when the
	// advanced control is untouched.
	ConversationTemperature float64 `yaml:"conversation_temperature"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// UnmarshalYAML accepts durations in time.ParseDuration form ("30s", "2m").
// Absent fields keep the values already in place, so defaults survive a
// partial config file.
func (b *BackendConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
		CacheTTL string `yaml:"cache_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		b.BaseURL = raw.BaseURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("backend timeout: %w", err)
		}
		b.Timeout = d
	}
	if raw.CacheTTL != "" {
		d, err := time.ParseDuration(raw.CacheTTL)
		if err != nil {
			return fmt.Errorf("backend cache_ttl: %w", err)
		}
		b.CacheTTL = d
	}
	return nil
}

// Default returns the built-in configuration. The content defaults mirror
// the backend's own (tone informative, temperature 0.7, one image variant).
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:  "http://localhost:5000",
			Timeout:  120 * time.Second,
			CacheTTL: time.Hour,
		},
		Content: ContentConfig{
			DefaultTone:             types.ToneInformative,
			DefaultExpertise:        types.ExpertiseIntermediate,
			DefaultVariants:         1,
			DefaultMaxLength:        1024,
			DefaultTemperature:      0.7,
			ConversationTemperature: 0.7,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the effective configuration. path may be empty, in which case
// only .env, environment variables and defaults apply. A missing config file
// at an explicit path is an error; a missing .env is not.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONTRA_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("CONTRA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("DEFAULT_TONE"); v != "" {
		cfg.Content.DefaultTone = types.ParseTone(v)
	}
	if v := os.Getenv("DEFAULT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Content.DefaultTemperature = f
		}
	}
	if v := os.Getenv("DEFAULT_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Content.DefaultMaxLength = n
		}
	}
	if v := os.Getenv("CONTRA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	return nil
}

// DefaultRequest builds a generation request carrying the configured
// defaults for everything except the topic.
func (c Config) DefaultRequest(topic string) types.GenerationRequest {
	return types.GenerationRequest{
		Topic:          topic,
		Tone:           c.Content.DefaultTone,
		ExpertiseLevel: c.Content.DefaultExpertise,
		Variants:       c.Content.DefaultVariants,
		MaxLength:      c.Content.DefaultMaxLength,
		Temperature:    c.Content.DefaultTemperature,
	}
}
