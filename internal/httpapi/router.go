// ABOUTME: Gin router and HTTP server for the wellness API.
// ABOUTME: Registers routes and custom validators and shuts down with the context.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/harperreed/wellness/internal/wellness"
)

const shutdownTimeout = 5 * time.Second

// RouterConfig holds the router's collaborators.
type RouterConfig struct {
	Repo    storage.Repository
	Service *wellness.Service
	Log     *logger.Logger
}

// NewRouter builds the gin engine with every API route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	h := NewHandler(cfg.Repo, cfg.Service)
	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/users", h.ListUsers)
		api.POST("/users/:user_id/daily", h.RecordDaily)
		api.GET("/users/:user_id/daily", h.ListDaily)
		api.GET("/users/:user_id/demographics", h.GetDemographics)
		api.PUT("/users/:user_id/demographics", h.SetDemographics)
		api.GET("/users/:user_id/score", h.Score)
		api.GET("/users/:user_id/weekly", h.ListWeekly)
		api.POST("/backfill", h.Backfill)
	}
	return r
}

// registerValidators adds the "day" and "metric_type" binding tags.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDay(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("metric_type", func(fl validator.FieldLevel) bool {
		return models.IsValidMetricType(fl.Field().String())
	})
}

// Server serves the router over HTTP.
type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

// NewServer creates a Server for cfg.
func NewServer(cfg RouterConfig) *Server {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Server{Engine: NewRouter(cfg), log: log}
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
