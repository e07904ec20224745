package validation

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/validkit/pkg/config"
	"github.com/dmitrymomot/validkit/pkg/logger"
)

// Config holds the environment driven engine settings.
type Config struct {
	AsyncPolicy AsyncPolicy `env:"VALIDATION_ASYNC_POLICY" envDefault:"throw"`
	// MaxDepth limits object-graph nesting; 0 means unlimited.
	MaxDepth int `env:"VALIDATION_MAX_DEPTH" envDefault:"0"`
	// Concurrency bounds parallel parameter validation in ValidateAll; 0 means unbounded.
	Concurrency int `env:"VALIDATION_CONCURRENCY" envDefault:"0"`

	LogLevel  string `env:"VALIDATION_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"VALIDATION_LOG_FORMAT" envDefault:"json"`
}

// LoadConfig reads Config from the environment (and an optional .env file).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply makes cfg.AsyncPolicy the process-wide default.
func (cfg Config) Apply() error {
	return SetDefaultAsyncPolicy(cfg.AsyncPolicy)
}

// Logger builds a logger writing to w at the configured level and format.
func (cfg Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
	), nil
}
