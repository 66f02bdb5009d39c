package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"9080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Makesend
	MakesendAPIKey          string `envconfig:"MAKESEND_API_KEY"`
	MakesendBaseURL         string `envconfig:"MAKESEND_BASE_URL" default:"https://apis.makesend.asia/oapi/api"`
	MakesendTrackingBaseURL string `envconfig:"MAKESEND_TRACKING_BASE_URL" default:"https://app.makesend.asia"`
	MakesendLabelBaseURL    string `envconfig:"MAKESEND_LABEL_BASE_URL" default:"https://app.makesend.asia"`
	MakesendUseMock         bool   `envconfig:"MAKESEND_USE_MOCK" default:"false"`

	// Platform
	HostUseMock bool `envconfig:"HOST_USE_MOCK" default:"true"`

	// Storage and reference data
	SettingsDBPath string `envconfig:"SETTINGS_DB_PATH" default:"makesend.db"`
	GeoDataPath    string `envconfig:"GEODATA_PATH"`
	GeoStrict      bool   `envconfig:"GEO_STRICT" default:"false"`

	// Webhooks
	WebhookPublicBaseURL  string `envconfig:"WEBHOOK_PUBLIC_BASE_URL"`
	WebhookRegisterOnBoot bool   `envconfig:"WEBHOOK_REGISTER_ON_BOOT" default:"true"`
	WebhookCronSchedule   string `envconfig:"WEBHOOK_CRON_SCHEDULE" default:"0 4 * * *"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"makesend-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from the environment, with a .env file as the
// optional base layer.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("makesend.use_mock", c.MakesendUseMock),
		attribute.Bool("host.use_mock", c.HostUseMock),
	}
}
