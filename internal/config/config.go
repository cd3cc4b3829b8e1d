package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Backend
	ChatEndpoint       string `env:"CHAT_ENDPOINT" envDefault:"http://localhost:3001/api/chat/message"`
	HTTPTimeoutSeconds int    `env:"HTTP_TIMEOUT_SECONDS" envDefault:"60"`

	// Identity
	IdentityFilePath string `env:"IDENTITY_FILE_PATH" envDefault:"data/identity.json"`

	// Storage
	SessionsFilePath string `env:"SESSIONS_FILE_PATH" envDefault:"data/sessions.json"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
