package logging

import (
	"context"

	"github.com/rs/zerolog"
)

var Logger zerolog.Logger

func init() {
	SetGlobalLogger(zerolog.Nop())
}

// SetGlobalLogger installs logger as the package logger and as the fallback
// returned by Ctx for contexts that carry none.
func SetGlobalLogger(logger zerolog.Logger) {
	Logger = logger
	zerolog.DefaultContextLogger = &Logger
}

// Ctx returns the logger carried by ctx, or the global logger.
func Ctx(ctx context.Context) *zerolog.Logger { return zerolog.Ctx(ctx) }
