package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/meshbake/internal"
	pkgconfig "github.com/starford/meshbake/pkg/config"
)

type stage func(ctx context.Context, opts ...internal.Option) error

func action(run stage) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		found, err := pkgconfig.LoadOptional(configPath, cfg)
		if err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		logger := internal.NewLogger(cfg.App)
		slog.SetDefault(logger)

		logger.Debug("Configuration loaded",
			slog.String("config_file", configPath),
			slog.Bool("config_found", found),
			slog.String("root", cfg.Paths.Root),
			slog.String("source", cfg.Paths.Source),
			slog.String("intermediate", cfg.Paths.Intermediate),
			slog.String("output", cfg.Paths.Output))

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithLogger(logger),
		}

		if err := run(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", cmd.Name, err)
		}

		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "meshbake",
		Usage:  "Extract a triangle mesh from an HTML page and bake it into a Swift array literal",
		Action: action(internal.Bake),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "meshbake.yaml",
				Value:       "meshbake.yaml",
				Sources:     cli.EnvVars("MESHBAKE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Parse the vertices and faceTriIds blocks into the intermediate JSON file",
				Action: action(internal.Extract),
			},
			{
				Name:   "render",
				Usage:  "Generate the Swift source file from the intermediate JSON file",
				Action: action(internal.Render),
			},
			{
				Name:   "bake",
				Usage:  "Run extract then render",
				Action: action(internal.Bake),
			},
			{
				Name:   "watch",
				Usage:  "Bake, then bake again whenever the source document changes",
				Action: action(internal.Watch),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
