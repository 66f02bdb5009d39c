// Package server exposes the HTTP surface of the bridge: admin settings
// and reference data, storefront tracking, carrier webhooks, health and
// metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/provider"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/internal/telemetry"
	"github.com/siamship/makesend-bridge/pkg/host"
)

// Server is the HTTP server for the bridge.
type Server struct {
	port         int
	provider     *provider.Provider
	settings     *settings.Service
	geo          *geo.Resolver
	fulfillments host.FulfillmentUpdater
	logger       *otelzap.Logger
	metrics      *telemetry.Metrics
	validate     *validator.Validate
	echo         *echo.Echo
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(
	cfg Config,
	prov *provider.Provider,
	settingsSvc *settings.Service,
	resolver *geo.Resolver,
	fulfillments host.FulfillmentUpdater,
	logger *otelzap.Logger,
	metrics *telemetry.Metrics,
) *Server {
	s := &Server{
		port:         cfg.Port,
		provider:     prov,
		settings:     settingsSvc,
		geo:          resolver,
		fulfillments: fulfillments,
		logger:       logger,
		metrics:      metrics,
		validate:     validator.New(),
	}
	s.echo = s.buildEcho()
	return s
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	admin := e.Group("/admin/makesend")
	admin.GET("/settings", s.handleGetSettings)
	admin.POST("/settings", s.handleSaveSettings)
	admin.GET("/fulfillment-options", s.handleFulfillmentOptions)
	admin.GET("/provinces", s.handleProvinces)
	admin.GET("/districts", s.handleDistricts)
	admin.GET("/parcel-sizes", s.handleParcelSizes)

	e.GET("/store/makesend/track/:id", s.handleTrack)

	webhooks := e.Group("/webhooks/makesend")
	webhooks.POST("/status", s.handleStatusWebhook)
	webhooks.POST("/parcel-size", s.handleParcelSizeWebhook)

	return e
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// internalError logs the real cause and answers with a generic message so
// carrier and platform details never leak to callers.
func (s *Server) internalError(c echo.Context, op string, err error) error {
	s.logger.Ctx(c.Request().Context()).Error("Request failed",
		zap.String("operation", op),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"message": "internal error",
	})
}
