package internal

import (
	"io"
	"log/slog"

	"github.com/starford/meshbake/internal/storage"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	logger   *slog.Logger
	progress io.Writer
	store    storage.Provider
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger overrides the logger built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithProgress sets where progress lines ("Extracted 2 vertices") are
// printed. Defaults to stdout.
func WithProgress(w io.Writer) Option {
	return func(a *application) {
		a.progress = w
	}
}

// WithStorage replaces the file-system provider rooted at Paths.Root.
func WithStorage(store storage.Provider) Option {
	return func(a *application) {
		a.store = store
	}
}
