package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"zoomcal/internal/scheduler"
	"zoomcal/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the meeting form and the /create-meeting JSON API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address. Overrides LISTEN_ADDR."},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.ListenAddr = c.String("addr")
			}
			if cfg.Credentials.AccessToken == "" {
				logger.Warn("ZOOM_ACCESS_TOKEN is not set, meeting creation will fail until it is. Run the 'auth' command.")
			}

			gin.SetMode(ginMode(cfg.LogLevel))
			metrics := server.NewMetrics()
			s := newScheduler(c.Context, logger, cfg, scheduler.WithResultHook(metrics.RecordMeeting))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(logger, cfg, s, metrics).Run(ctx)
		},
	}
}

// ginMode maps LOG_LEVEL to a gin mode: debug routing output only at debug level.
func ginMode(logLevel string) string {
	if strings.ToLower(logLevel) == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}
