package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type GameConfig struct {
	OwnerAddress      string   `env:"OWNER_ADDRESS" envDefault:"owner"`
	MinBet            int64    `env:"MIN_BET" envDefault:"100"`
	MaxBet            int64    `env:"MAX_BET" envDefault:"1000000"`
	CommissionRateBps uint16   `env:"COMMISSION_RATE_BPS" envDefault:"250"`
	CommissionWallets []string `env:"COMMISSION_WALLETS" envSeparator:"," envDefault:"treasury"`

	CommitTimeout time.Duration `env:"COMMIT_TIMEOUT" envDefault:"60s"`
	RevealTimeout time.Duration `env:"REVEAL_TIMEOUT" envDefault:"60s"`
	MatchExpiry   time.Duration `env:"MATCH_EXPIRY" envDefault:"24h"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
