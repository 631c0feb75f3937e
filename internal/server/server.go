// Package server carries the HTTP surface: echo routing, the response
// envelope, per-IP rate limiting and graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"BlogCurator/internal/config"
)

const gracefulShutdownTimeout = 10 * time.Second

// Server hosts the API on an echo engine.
type Server struct {
	Echo *echo.Echo

	cfg    config.ServerConfig
	logger *slog.Logger
}

func NewServer(cfg config.ServerConfig, limits config.RateLimitConfig, handler *Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:   e,
		cfg:    cfg,
		logger: logger.With("component", "server"),
	}

	s.setupMiddlewares(limits)
	s.registerRoutes(handler, limits)

	return s
}

func (s *Server) setupMiddlewares(limits config.RateLimitConfig) {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	s.Echo.Use(s.requestLogger())

	burst := NewRateLimiter(limits.Burst, 10*time.Second,
		"Too many requests too quickly. Please slow down.")
	api := NewRateLimiter(limits.API, time.Minute,
		"Too many requests from this IP, please try again later.")
	s.Echo.Use(burst.Middleware())
	s.Echo.Use(api.Middleware())

	s.Echo.HTTPErrorHandler = s.errorHandler()
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			s.logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start))
			return err
		}
	}
}

// errorHandler renders echo-level failures (unknown routes, bad methods,
// panics surfaced by Recover) as the standard envelope.
func (s *Server) errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		}
		if status == http.StatusNotFound {
			message = "Route not found"
		}

		detail := ""
		if s.cfg.Development() {
			detail = err.Error()
		}
		if err := respondError(c, status, message, detail); err != nil {
			s.logger.Error("write error response", "error", err)
		}
	}
}

func (s *Server) registerRoutes(h *Handler, limits config.RateLimitConfig) {
	strict := NewRateLimiter(limits.Strict, time.Minute,
		"Too many requests for this operation, please try again later.")
	update := NewRateLimiter(limits.Update, time.Hour,
		"Content update limit reached. Please try again in an hour.")

	s.Echo.GET("/health", h.health)

	api := s.Echo.Group("/api")
	api.GET("/articles", h.listArticles)
	api.GET("/articles/search", h.searchArticles)
	api.GET("/articles/:id", h.getArticle)
	api.POST("/articles", h.createArticle)
	api.PUT("/articles/:id", h.updateArticle)
	api.DELETE("/articles/:id", h.deleteArticle)

	api.GET("/analysis", h.listAnalyses)
	api.GET("/analysis/:id", h.getAnalysis)
	api.GET("/analysis/article/:articleId", h.listAnalysesByArticle)

	internal := s.Echo.Group("/internal")
	internal.POST("/scrape-and-store", h.scrapeAndStore, strict.Middleware())
	internal.POST("/scrape-url", h.scrapeURL, strict.Middleware())
	internal.POST("/predict-articles", h.predictArticles, strict.Middleware())
	internal.POST("/update-and-rate", h.updateAndRate, update.Middleware())
	internal.GET("/scrape-status", h.scrapeStatus)
}

// Start serves until SIGINT, then drains in-flight requests.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		s.logger.Info("listening", "port", s.cfg.Port)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
