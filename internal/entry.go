// Package internal wires configuration, storage and the extract/render
// stages into the commands exposed by the CLI.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/meshbake/internal/apperr"
	"github.com/starford/meshbake/internal/artifact"
	"github.com/starford/meshbake/internal/checksum"
	"github.com/starford/meshbake/internal/extract"
	"github.com/starford/meshbake/internal/render"
	"github.com/starford/meshbake/internal/storage"
	"github.com/starford/meshbake/internal/watch"
)

// NewLogger builds the slog logger described by cfg, writing to stderr.
func NewLogger(cfg ApplicationConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if app.logger == nil {
		app.logger = NewLogger(app.config.App)
	}
	if app.progress == nil {
		app.progress = os.Stdout
	}
	if app.store == nil {
		store, err := storage.NewFS(app.config.Paths.Root)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		app.store = store
	}
	return app, nil
}

// Extract reads the source document and writes the intermediate artifact.
func Extract(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.extract(ctx)
}

// Render reads the intermediate artifact and writes the Swift source file.
func Render(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.render(ctx)
}

// Bake runs Extract followed by Render.
func Bake(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.bake(ctx)
}

// Watch bakes once, then bakes again every time the source document changes
// until ctx is cancelled or the process receives SIGINT/SIGTERM. Failed
// bakes are logged and do not stop the loop.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.watch(ctx)
}

func (a *application) extract(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := a.config.Paths

	doc, err := a.store.Read(paths.Source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	mesh, report, err := extract.Extract(doc, a.config.Extract.Options())
	if err != nil {
		return fmt.Errorf("extract %s: %w", paths.Source, err)
	}

	for _, marker := range report.Missing {
		a.logger.Warn("block not found, using empty sequence",
			slog.String("marker", marker),
			slog.String("source", paths.Source))
	}
	if !isMissing(a.config.Extract.VerticesMarker, report) {
		fmt.Fprintf(a.progress, "Extracted %d vertices\n", report.Vertices)
	}
	if !isMissing(a.config.Extract.IndicesMarker, report) {
		fmt.Fprintf(a.progress, "Extracted %d triangles\n", report.Triangles)
	}

	data, err := artifact.Marshal(mesh)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := a.store.Write(paths.Intermediate, data); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	a.logger.Debug("artifact written",
		slog.String("path", paths.Intermediate),
		slog.Int("vertices", report.Vertices),
		slog.Int("triangles", report.Triangles),
		slog.Int("vertices_at", report.VerticesAt),
		slog.Int("indices_at", report.IndicesAt),
		slog.String("checksum", checksum.Short(data)))
	fmt.Fprintf(a.progress, "Saved to %s\n", paths.Intermediate)
	return nil
}

func isMissing(marker string, report extract.Report) bool {
	for _, m := range report.Missing {
		if m == marker {
			return true
		}
	}
	return false
}

func (a *application) render(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	paths := a.config.Paths

	data, err := a.store.Read(paths.Intermediate)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	mesh, err := artifact.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", paths.Intermediate, err)
	}

	if issues := mesh.Check(); len(issues) > 0 {
		for _, is := range issues {
			a.logger.Warn("mesh check", slog.String("issue", is.String()))
		}
		if a.config.Render.Strict {
			return fmt.Errorf("render %s: %w: %d issue(s), first: %s",
				paths.Intermediate, apperr.ErrInvalidMesh, len(issues), issues[0])
		}
	}

	out, err := render.Bytes(mesh, a.config.Render.Options())
	if err != nil {
		return fmt.Errorf("render %s: %w", paths.Intermediate, err)
	}
	changed, err := a.store.WriteIfChanged(paths.Output, out)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	a.logger.Debug("output written",
		slog.String("path", paths.Output),
		slog.Bool("changed", changed),
		slog.String("checksum", checksum.Short(out)))
	fmt.Fprintf(a.progress, "Generated %s\n", paths.Output)
	return nil
}

func (a *application) bake(ctx context.Context) error {
	if err := a.extract(ctx); err != nil {
		return err
	}
	return a.render(ctx)
}

func (a *application) watch(ctx context.Context) error {
	cfg := a.config
	logger := a.logger

	source, err := a.store.Abs(cfg.Paths.Source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	if err := a.bake(ctx); err != nil {
		logger.Error("bake failed", slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.File(gCtx, source, cfg.Watch.Debounce, logger, func(ctx context.Context) {
			if err := a.bake(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Error("bake failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("bake complete", slog.String("output", cfg.Paths.Output))
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
