package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/synapsemed/synapse/internal"
	pkgconfig "github.com/synapsemed/synapse/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func clientFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Base URL of the search service",
			Value:   "http://localhost:8080",
			Sources: cli.EnvVars("SYNAPSE_SERVER"),
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Collection filter: all, books, articles, drugs or topics",
			Value: "all",
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "Category filter",
			Value: "all",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout (0 waits indefinitely)",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "synapse",
		Usage:   "Medical library search service: books, articles, drugs and topics",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP search service (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the search tools over MCP on stdin/stdout",
				Action: serveMCP,
			},
			{
				Name:      "search",
				Usage:     "Run one query against a running service",
				ArgsUsage: "<query>",
				Flags:     clientFlags(),
				Action:    runSearch,
			},
			{
				Name:  "lookup",
				Usage: "Read queries line by line from stdin and show live results",
				Flags: append(clientFlags(),
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a query is sent",
						Value: 300 * time.Millisecond,
					},
				),
				Action: runLookup,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
