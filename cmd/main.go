package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"zoomcal/internal/config"
	"zoomcal/internal/icloud"
	"zoomcal/internal/scheduler"
	"zoomcal/internal/zoom"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "zoomcal",
		Usage:  "Create Zoom meetings and matching Google Calendar links.",
		Flags:  scheduleFlags(),
		Action: scheduleAction,
		Commands: []*cli.Command{
			authCommand(),
			refreshCommand(),
			scheduleCommand(),
			serveCommand(),
		},
	}
}

// loadConfig reads the configuration and builds the logger it asks for.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, setupLogger(cfg.LogLevel), nil
}

// newScheduler wires the Zoom client and, when configured, the CalDAV publisher.
// Publishing is optional, so a CalDAV setup failure only disables it.
func newScheduler(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts ...scheduler.Option) *scheduler.Scheduler {
	client := zoom.NewClient(ctx, logger, cfg)

	if cfg.CalDAV.Enabled() {
		publisher, err := icloud.NewClient(logger, cfg.CalDAV, cfg.HTTPTimeout)
		if err != nil {
			logger.Warn("CalDAV publishing disabled", "error", err)
		} else {
			opts = append(opts, scheduler.WithPublisher(publisher))
		}
	}

	return scheduler.NewScheduler(logger, client, opts...)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
