package config

import "github.com/caarlos0/env/v11"

// LogConfig tunes the zerolog output. File is optional; when set, the log
// goes to a size-capped file (MaxMB megabytes) instead of stdout.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
}

// LoadLog reads LogConfig from the environment.
func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}
