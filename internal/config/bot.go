package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	ServerURL  string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"bot"`
	APIKey     string `env:"API_KEY" envDefault:""`
	Bet        int64  `env:"BET" envDefault:"100"`
	GameMode   string `env:"GAME_MODE" envDefault:"bo1"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
