// Package smopt holds the one functional option pkg/sm's library packages
// share: an optional *slog.Logger, defaulting to slog.Default() when the
// caller gives none. Kept as its own leaf package so assembler.NewContext
// and link.NewLinker can take the identical Option type without either
// package importing the other.
package smopt

import "log/slog"

// Settings is the option target every constructor resolves before use.
type Settings struct {
	Logger *slog.Logger
}

// Option mutates Settings; built only via With* constructors below.
type Option func(*Settings)

// WithLogger overrides the default logger (slog.Default()) a library
// package uses for its own diagnostic/progress logging. Never constructs
// its own multi-handler - fanning out to multiple handlers stays a cmd-
// layer concern (see internal/cli/logging.go).
func WithLogger(l *slog.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// Resolve applies opts over the zero value, filling in slog.Default() if no
// WithLogger option was given.
func Resolve(opts ...Option) Settings {
	var s Settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	return s
}
