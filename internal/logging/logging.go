package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rps-arena/internal/config"
)

var sink io.Writer = os.Stdout

// Writer returns the raw log sink, for collaborators (request logging) that
// bring their own formatter.
func Writer() io.Writer {
	return sink
}

// Init configures the global zerolog logger. With cfg.File set, output goes
// to a size-capped file that truncates instead of rotating.
func Init(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		w, err := newTruncatingFileWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		output = w
	}
	sink = output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}
