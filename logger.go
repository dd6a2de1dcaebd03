package warepath

import (
	"log/slog"

	"github.com/katalvlaran/warepath/internal/logging"
)

// SetLogger configures the logger for warepath and all its sub-packages.
// By default, warepath produces no log output. Pass nil to restore the
// default silent behavior.
//
// Log levels used by warepath:
//   - [slog.LevelDebug]: grid dimensions, per-source timings
//   - [slog.LevelInfo]: build lifecycle (generation, build id, durations)
//   - [slog.LevelWarn]: failed sources, superseded builds
//
// Example:
//
//	warepath.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by warepath.
func Logger() *slog.Logger {
	return logging.Logger()
}
