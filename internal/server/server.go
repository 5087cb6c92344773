package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zoomcal/internal/config"
	"zoomcal/internal/models"
	"zoomcal/internal/scheduler"
)

const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

//go:embed static/index.html
var indexHTML []byte

// Scheduler is the part of scheduler.Scheduler the HTTP handlers need.
type Scheduler interface {
	Schedule(ctx context.Context, req models.MeetingRequest) (*scheduler.Result, error)
}

// Server serves the meeting form and the JSON API.
type Server struct {
	logger    *slog.Logger
	scheduler Scheduler
	location  *time.Location
	metrics   *Metrics
	addr      string
	engine    *gin.Engine
}

// New builds the router. metrics may be nil.
// gin's process-wide mode is left to the caller.
func New(logger *slog.Logger, cfg *config.Config, s Scheduler, metrics *Metrics) *Server {
	srv := &Server{
		logger:    logger,
		scheduler: s,
		location:  cfg.Location,
		metrics:   metrics,
		addr:      cfg.ListenAddr,
		engine:    gin.New(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), requestLogger(s.logger))
	if s.metrics != nil {
		s.engine.Use(s.metrics.Middleware())
		s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.POST("/create-meeting", s.createMeeting)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: DefaultReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server.", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
