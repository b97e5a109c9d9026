// Package api is the HTTP entry point: route dispatch, CORS, and the
// mapping from pipeline failures to response envelopes.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/showgrab/showgrab/internal/catalog"
	"github.com/showgrab/showgrab/internal/config"
	"github.com/showgrab/showgrab/internal/pipeline"
	"github.com/showgrab/showgrab/internal/provider"
	"github.com/showgrab/showgrab/internal/scrape"
)

// Server handles HTTP requests for the showgrab API.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	logger   zerolog.Logger
	pipeline *pipeline.Pipeline
}

// NewServer creates a new API server instance and wires the pipeline.
func NewServer(cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	cat := catalog.NewClient(cfg.Catalog, logger)
	fetcher := scrape.NewFetcher(time.Duration(cfg.Site.Timeout)*time.Second, cfg.Site.CookieHeader(), logger)

	probeTimeout := time.Duration(cfg.Provider.ProbeTimeout) * time.Second
	probers := []provider.Prober{
		provider.NewDriveProber(cfg.Provider.DriveBaseURL, probeTimeout, logger),
		provider.NewPixeldrainProber(cfg.Provider.PixeldrainBaseURL, probeTimeout, logger),
	}

	resolver := pipeline.NewResolver(cat, fetcher, probers,
		time.Duration(cfg.Pipeline.EpisodeTimeout)*time.Second, logger)

	s := &Server{
		echo:     e,
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(cat, fetcher, resolver, cfg.Pipeline.BatchSize, logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Gzip())

	// Permissive CORS; OPTIONS preflights are answered by the middleware.
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.HTTPErrorHandler = s.errorHandler
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/hash/:encoded", s.handleSeries)
}

// errorHandler renders every failure as the one normalized envelope:
// {"success": false, "error": "..."}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if err := c.JSON(status, failureEnvelope{Success: false, Error: message}); err != nil {
		s.logger.Error().Err(err).Msg("failed to write error response")
	}
}

// Echo exposes the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins listening on the given address.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
