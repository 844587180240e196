package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	SaveDir string `env:"IMPACT_SAVE_DIR" envDefault:".saves"`
	// DBPath defaults to profile.db inside SaveDir.
	DBPath string `env:"IMPACT_DB_PATH"`

	HTTPAddr       string        `env:"IMPACT_HTTP_ADDR" envDefault:":5000"`
	APIURL         string        `env:"IMPACT_API_URL" envDefault:"http://localhost:5000"`
	RequestTimeout time.Duration `env:"IMPACT_REQUEST_TIMEOUT" envDefault:"5s"`
	RequestRetries int           `env:"IMPACT_REQUEST_RETRIES" envDefault:"2"`
	// Remote folds Future Decisions rounds through the decision service
	// instead of locally.
	Remote bool `env:"IMPACT_REMOTE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.SaveDir, "profile.db")
	}
	if cfg.RequestRetries < 0 {
		return nil, fmt.Errorf("IMPACT_REQUEST_RETRIES must not be negative, got %d", cfg.RequestRetries)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("IMPACT_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return &cfg, nil
}

// CoachEnabled reports whether a Gemini key is configured.
func (c *Config) CoachEnabled() bool {
	return c.GeminiAPIKey != ""
}
