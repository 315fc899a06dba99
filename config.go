package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config holds the trust-root settings read from the environment. Server
// knobs (addr, timeouts, origin) stay on flags in main.go.
type config struct {
	// TokenKey is the HMAC secret bearer tokens are verified against.
	// When empty, every presented token fails verification and falls back
	// to anonymous.
	TokenKey string `env:"CHATFOX_TOKEN_KEY"`

	// PrincipalHeader names the trusted header a fronting proxy uses to
	// hand over a pre-authenticated principal.
	PrincipalHeader string `env:"CHATFOX_PRINCIPAL_HEADER" envDefault:"X-Chatfox-User"`

	// Subjects maps token subjects to display names, e.g.
	// "7:alice,12:bob".
	Subjects map[string]string `env:"CHATFOX_SUBJECTS"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
