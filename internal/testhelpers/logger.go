// Package testhelpers wires loggers into tests.
package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/pfaplan/internal/logging"
)

// NewLogger returns a debug level logger with the context handler the CLI uses, writing to sink.
func NewLogger(sink io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(sink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	})))
}
