package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

// configPath is read from MARQUEE_CONFIG, falling back to ./config.toml.
func configPath() string {
	if p := os.Getenv("MARQUEE_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

func main() {
	logger := shared.NewLogger(nil)

	path := configPath()
	config, err := shared.ResolveConfig(path, ".env")
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := shared.ApplyLogLevel(logger, config.Log.Level); err != nil {
		logger.Fatalf("failed to apply log level: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: path,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "marquee",
		Usage:    "Browse cinema listings and manage the catalog from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
