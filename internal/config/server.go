package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// PostgresDSN is optional: without it the server runs with the match
	// archive disabled and history endpoints return 404.
	PostgresDSN string `env:"POSTGRES_DSN"`

	// FaucetAmount is credited to newly registered players.
	FaucetAmount int64 `env:"FAUCET_AMOUNT" envDefault:"100000"`

	EventBufferSize int `env:"EVENT_BUFFER_SIZE" envDefault:"500"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
