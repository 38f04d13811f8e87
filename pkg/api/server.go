// Package api exposes the tool registry, operation history and backup
// store over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcli-org/orcli/pkg/backup"
	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/tool"
)

// Server hosts the Gin engine over the tool dispatcher and file engine.
type Server struct {
	Engine     *gin.Engine
	registry   *tool.Registry
	dispatcher *tool.Dispatcher
	files      *engine.Engine
	apiKey     string
	addr       string
	log        *slog.Logger
}

// NewServer wires the routes. The registry must already hold its tools.
func NewServer(cfg config.HTTPConfig, reg *tool.Registry, disp *tool.Dispatcher, files *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())

	srv := &Server{
		Engine:     e,
		registry:   reg,
		dispatcher: disp,
		files:      files,
		apiKey:     cfg.APIKey,
		addr:       cfg.Addr,
		log:        logger,
	}

	e.Use(srv.requestLogger())
	e.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := e.Group("/api/v1", srv.apiKeyMiddleware())
	v1.GET("/tools", srv.handleListTools)
	v1.GET("/tools/:name", srv.handleDescribeTool)
	v1.POST("/tools/:name/invoke", srv.handleInvokeTool)
	v1.GET("/history", srv.handleListHistory)
	v1.POST("/history/undo", srv.handleUndo)
	v1.DELETE("/history", srv.handleClearHistory)
	v1.GET("/backups", srv.handleListBackups)
	v1.POST("/backups/prune", srv.handlePruneBackups)

	return srv
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{Addr: s.addr, Handler: s.Engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) apiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.apiKey == "" {
			return
		}
		if c.GetHeader("X-API-Key") != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		}
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) backups() *backup.Store { return s.files.Backups() }
