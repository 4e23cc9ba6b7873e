// Package config loads service settings: built-in defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config is the resolved service configuration
type Config struct {
	Port     string `yaml:"port"`
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`

	NLP struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
		Strict  bool          `yaml:"strict"`
	} `yaml:"nlp"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		PerMinute           int `yaml:"per_minute"`
		PrecomputePerMinute int `yaml:"precompute_per_minute"`
	} `yaml:"rate_limit"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	CacheTTL               time.Duration `yaml:"cache_ttl"`
	CORSOrigins            []string      `yaml:"cors_origins"`
	EnableHSTS             bool          `yaml:"enable_hsts"`
	ParticipationThreshold float64       `yaml:"participation_threshold"`
}

// Default returns the built-in configuration
func Default() Config {
	var cfg Config
	cfg.Port = "8080"
	cfg.DataDir = "./data"
	cfg.LogLevel = "info"
	cfg.NLP.BaseURL = "https://api.openai.com"
	cfg.NLP.Model = "gpt-4-turbo"
	cfg.NLP.Timeout = 20 * time.Second
	cfg.RateLimit.PerMinute = 120
	cfg.RateLimit.PrecomputePerMinute = 10
	cfg.Kafka.Topic = "engagement.reports"
	cfg.CacheTTL = 15 * time.Minute
	cfg.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfg.ParticipationThreshold = 60
	return cfg
}

// Load resolves configuration. A missing file is not an error; an unreadable
// or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, apperrors.NewConfigurationError("parse config file", fmt.Errorf("%s: %w", path, err))
			}
		case !os.IsNotExist(err):
			return Config{}, apperrors.NewConfigurationError("read config file", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.DataDir = getEnvOrDefault("DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.NLP.APIKey = getEnvOrDefault("OPENAI_API_KEY", cfg.NLP.APIKey)
	cfg.NLP.BaseURL = getEnvOrDefault("NLP_BASE_URL", cfg.NLP.BaseURL)
	cfg.NLP.Model = getEnvOrDefault("NLP_MODEL", cfg.NLP.Model)
	cfg.NLP.Timeout = getEnvDuration("NLP_TIMEOUT", cfg.NLP.Timeout)
	cfg.NLP.Strict = getEnvBool("NLP_STRICT", cfg.NLP.Strict)

	cfg.Redis.Addr = getEnvOrDefault("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.RateLimit.PerMinute = getEnvInt("RATE_LIMIT_PER_MIN", cfg.RateLimit.PerMinute)
	cfg.RateLimit.PrecomputePerMinute = getEnvInt("RATE_LIMIT_PRECOMPUTE_PER_MIN", cfg.RateLimit.PrecomputePerMinute)

	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnvOrDefault("KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ParticipationThreshold = getEnvFloat("PARTICIPATION_THRESHOLD", cfg.ParticipationThreshold)
}

// Validate rejects settings the service cannot start with
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return apperrors.NewConfigurationError(fmt.Sprintf("invalid port %q", c.Port), err)
	}
	if c.DataDir == "" {
		return apperrors.NewConfigurationError("data dir must not be empty", nil)
	}
	if c.NLP.Timeout <= 0 {
		return apperrors.NewConfigurationError("nlp timeout must be positive", nil)
	}
	if c.ParticipationThreshold < 0 || c.ParticipationThreshold > 100 {
		return apperrors.NewConfigurationError("participation threshold must be within [0, 100]", nil)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return apperrors.NewConfigurationError("kafka topic is required when brokers are set", nil)
	}
	return nil
}

// KafkaEnabled reports whether report events should be published
func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvDuration accepts Go durations ("30s") or bare seconds ("30")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
