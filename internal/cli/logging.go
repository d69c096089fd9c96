package cli

import (
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
)

// newLogger builds smtk's root logger: a human-readable text handler to
// stderr always, plus a JSON handler to stderr when jsonLogs is set (either
// -v/--verbose or SMTK_LOG_JSON), fanned out via slog-multi the way a team
// runs one handler for a human and one for log shipping.
func newLogger(jsonLogs bool) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}
	if jsonLogs {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// initLogger sets the package logger once, honoring whichever caller sees
// it first: RootCmd's PersistentPreRun when run through smtk, or a
// standalone smasm/smold/smfix subcommand's own RunE otherwise.
func initLogger(jsonLogs bool) {
	loggerOnce.Do(func() {
		logger = newLogger(jsonLogs)
		slog.SetDefault(logger)
	})
}

// ensureLogger guarantees logger is non-nil, for a subcommand invoked
// directly without ever going through RootCmd's PersistentPreRun.
func ensureLogger() *slog.Logger {
	initLogger(jsonLogs || os.Getenv("SMTK_LOG_JSON") != "")
	return logger
}
