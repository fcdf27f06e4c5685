package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything it is given,
// for tests that do not care about log output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
