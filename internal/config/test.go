package config

import "github.com/caarlos0/env/v11"

// TestConfig points integration tests at a disposable database. The DSN is
// required so LoadTest fails fast and callers can skip when it is unset.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

// LoadTest reads TestConfig from the environment.
func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
