package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger global baseando-se na configuração.
func Configure(cfg config.LoggingConf, service, environment string) zerolog.Logger {
	return New(os.Stdout, cfg, service, environment)
}

// New é o Configure com destino injetável.
func New(out io.Writer, cfg config.LoggingConf, service, environment string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console "bonito" para local se solicitado
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	if environment != "" {
		ctx = ctx.Str("environment", environment)
	}
	return ctx.Logger()
}
