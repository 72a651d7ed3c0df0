package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "MINDECHO_"

	DefaultModelName  = "gemini-3-flash-preview"
	DefaultPort       = "8080"
	DefaultSessionTTL = 2 * time.Hour
	DefaultRateLimit  = 5.0
	DefaultRateBurst  = 10
)

type Config struct {
	// APIKey is the Gemini credential. Empty selects the mock analysis client.
	APIKey    string `koanf:"api_key"`
	ModelName string `koanf:"model_name"`

	Port      string `koanf:"port"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // "json" or "text"

	SessionTTL time.Duration `koanf:"session_ttl"`
	RateLimit  float64       `koanf:"rate_limit"` // requests per second per client
	RateBurst  int           `koanf:"rate_burst"`
}

// UseMock reports whether no credential is configured.
func (c *Config) UseMock() bool {
	return strings.TrimSpace(c.APIKey) == ""
}

// Load reads .env (if any), then the optional YAML file at path, then
// MINDECHO_* environment variables. Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// MINDECHO_SESSION_TTL -> session_ttl
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	// The credential has historically been supplied as API_KEY.
	if cfg.APIKey == "" {
		cfg.APIKey = getEnv("GEMINI_API_KEY", getEnv("API_KEY", ""))
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModelName
	}
	if cfg.Port == "" {
		cfg.Port = getEnv("PORT", DefaultPort)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
