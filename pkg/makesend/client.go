// Package makesend provides integration with the Makesend logistics API.
package makesend

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Default base URLs for the Makesend API and its customer-facing pages.
const (
	DefaultBaseURL         = "https://apis.makesend.asia/oapi/api"
	DefaultTrackingBaseURL = "https://app.makesend.asia"
	DefaultLabelBaseURL    = "https://app.makesend.asia"
)

// Config holds Makesend client configuration.
type Config struct {
	APIKey          string
	BaseURL         string
	TrackingBaseURL string
	LabelBaseURL    string
	UseMock         bool
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TrackingBaseURL == "" {
		c.TrackingBaseURL = DefaultTrackingBaseURL
	}
	if c.LabelBaseURL == "" {
		c.LabelBaseURL = DefaultLabelBaseURL
	}
}

// Client is the Makesend carrier client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Makesend client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	cfg.applyDefaults()

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Makesend client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	cfg.applyDefaults()
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// CreateOrder creates a delivery order with Makesend.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	c.logger.Info("Creating Makesend order",
		zap.String("delivery_date", req.DeliveryDate),
		zap.Int("pickup_province", req.PickupProvince),
		zap.Int("shipment_count", len(req.Shipment)),
	)

	resp, err := c.apiClient.CreateOrder(ctx, req)
	if err != nil {
		c.logger.Error("Makesend API error", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// TrackShipment retrieves tracking information by tracking or alias ID.
func (c *Client) TrackShipment(ctx context.Context, trackingID string) (*TrackingResponse, error) {
	c.logger.Info("Tracking Makesend shipment", zap.String("tracking_id", trackingID))

	resp, err := c.apiClient.GetTracking(ctx, trackingID)
	if err != nil {
		c.logger.Error("Makesend API error", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// CalculateFee requests a delivery fee quote.
func (c *Client) CalculateFee(ctx context.Context, req *CalculateFeeRequest) (*CalculateFeeResponse, error) {
	c.logger.Info("Calculating Makesend fee",
		zap.Int("origin_province", req.OriginProvinceID),
		zap.Int("destination_province", req.DestinationProvinceID),
		zap.Int("parcel_size", int(req.ParcelSize)),
	)

	resp, err := c.apiClient.CalculateFee(ctx, req)
	if err != nil {
		c.logger.Error("Makesend API error", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// CancelShipment cancels one or more shipments.
func (c *Client) CancelShipment(ctx context.Context, trackingIDs []string) (*CancelShipmentResponse, error) {
	c.logger.Info("Cancelling Makesend shipments", zap.Strings("tracking_ids", trackingIDs))

	resp, err := c.apiClient.CancelShipment(ctx, trackingIDs)
	if err != nil {
		c.logger.Error("Makesend API error", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// CheckPromoCode validates a promotion code.
func (c *Client) CheckPromoCode(ctx context.Context, req *PromotionCheckRequest) (*PromotionCheckResponse, error) {
	resp, err := c.apiClient.CheckPromoCode(ctx, req)
	if err != nil {
		c.logger.Error("Makesend API error", zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// RegisterStatusWebhook registers the URL status updates are pushed to.
func (c *Client) RegisterStatusWebhook(ctx context.Context, url string) error {
	c.logger.Info("Registering Makesend status webhook", zap.String("url", url))
	return c.apiClient.SetupStatusWebhook(ctx, url)
}

// RegisterParcelSizeWebhook registers the URL parcel-size adjustments are
// pushed to.
func (c *Client) RegisterParcelSizeWebhook(ctx context.Context, url string) error {
	c.logger.Info("Registering Makesend parcel-size webhook", zap.String("url", url))
	return c.apiClient.SetupParcelSizeWebhook(ctx, url)
}

// TrackingURL returns the customer-facing tracking page for a shipment.
func (c *Client) TrackingURL(trackingID string) string {
	return fmt.Sprintf("%s/tracking?t=%s", c.config.TrackingBaseURL, trackingID)
}

// LabelURL returns the waybill page for a shipment.
func (c *Client) LabelURL(trackingID string) string {
	return fmt.Sprintf("%s/waybill/%s", c.config.LabelBaseURL, trackingID)
}
