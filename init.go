package main

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/siamship/makesend-bridge/internal/assembly"
	"github.com/siamship/makesend-bridge/internal/config"
	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/jobs"
	"github.com/siamship/makesend-bridge/internal/provider"
	"github.com/siamship/makesend-bridge/internal/server"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/internal/telemetry"
	"github.com/siamship/makesend-bridge/internal/workflow"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

// bridge holds the composed service.
type bridge struct {
	server     *server.Server
	webhookJob *jobs.WebhookRegistrationJob
}

func initBridge(cfg *config.Config, logger *otelzap.Logger) (*bridge, error) {
	var tracer trace.Tracer
	if cfg.OTELEnabled {
		tracer = otel.GetTracerProvider().Tracer(cfg.ServiceName)
	}
	metrics := telemetry.NewMetrics()

	client := makesend.New(makesend.Config{
		APIKey:          cfg.MakesendAPIKey,
		BaseURL:         cfg.MakesendBaseURL,
		TrackingBaseURL: cfg.MakesendTrackingBaseURL,
		LabelBaseURL:    cfg.MakesendLabelBaseURL,
		UseMock:         cfg.MakesendUseMock,
	}, logger, tracer)

	resolver := geo.NewResolver(cfg.GeoDataPath, logger)
	settingsSvc, err := settings.Open(cfg.SettingsDBPath, logger)
	if err != nil {
		return nil, err
	}

	locations, options, fulfillments := initHostServices(cfg, logger)

	builder := assembly.NewBuilder(resolver, metrics, logger, cfg.GeoStrict)
	creator := workflow.NewCreator(client, builder, locations, options, settingsSvc, logger, nil)
	prov := provider.New(client, creator, settingsSvc, resolver, logger, metrics, cfg.GeoStrict)

	srv := server.New(server.Config{Port: cfg.Port}, prov, settingsSvc, resolver, fulfillments, logger, metrics)
	job := jobs.NewWebhookRegistrationJob(client, cfg.WebhookPublicBaseURL, cfg.WebhookCronSchedule, logger)

	return &bridge{server: srv, webhookJob: job}, nil
}

// initHostServices wires the platform-side services. Without a platform
// attached the in-memory implementations stand in, which keeps the admin,
// tracking and webhook surfaces usable on their own.
func initHostServices(cfg *config.Config, logger *otelzap.Logger) (host.StockLocationService, host.ShippingOptionService, host.FulfillmentUpdater) {
	if !cfg.HostUseMock {
		logger.Warn("No platform adapter is built in; using in-memory host services")
	}
	return host.NewMockStockLocationService(),
		host.NewMockShippingOptionService(),
		host.NewMockFulfillmentUpdater()
}
