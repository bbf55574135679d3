// Package logger wraps a process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. It is usable before Init with zerolog defaults.
var Logger = log.Logger

type Config struct {
	Level        string
	Format       string // json or pretty
	TimeFormat   string
	ReportCaller bool
	// Output defaults to stdout.
	Output io.Writer
}

func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}

	Logger = ctx.Logger()
	log.Logger = Logger
}

func Debug() *zerolog.Event { return Logger.Debug() }

func Info() *zerolog.Event { return Logger.Info() }

func Warn() *zerolog.Event { return Logger.Warn() }

func Error() *zerolog.Event { return Logger.Error() }

func Fatal() *zerolog.Event { return Logger.Fatal() }

// Ctx returns the logger stored in ctx, falling back to the global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
