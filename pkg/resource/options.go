package resource

import (
	"log/slog"
	"os"
)

// Options configures a Manager.
type Options struct {
	Logger        *slog.Logger
	NameGenerator func() string
	FileMode      os.FileMode // Applied to staged uploads when non-zero
}

// Option is a functional option for configuring a Manager.
type Option func(*Options)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithNameGenerator replaces NewName, e.g. to get predictable names in tests.
func WithNameGenerator(gen func() string) Option {
	return func(o *Options) {
		o.NameGenerator = gen
	}
}

// WithFileMode sets the permission bits applied to a staged upload after it
// has been written. Backends without permissions ignore it.
func WithFileMode(mode os.FileMode) Option {
	return func(o *Options) {
		o.FileMode = mode
	}
}
