package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// ProviderURL points at a running identity backend. Empty starts an
	// embedded stub on a loopback port.
	ProviderURL string `env:"PROVIDER_URL"`

	Email      string `env:"DEMO_EMAIL" envDefault:"ada@example.com" validate:"required,email"`
	Password   string `env:"DEMO_PASSWORD" envDefault:"correct horse" validate:"required"`
	RememberMe bool   `env:"DEMO_REMEMBER_ME" envDefault:"true"`

	Store     string `env:"CRED_STORE" envDefault:"memory" validate:"oneof=memory file redis"`
	StorePath string `env:"CRED_STORE_PATH"`
	RedisAddr string `env:"REDIS_ADDR"`
}

func loadConfig() (*config, error) {
	cfg := &config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *config) slogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
