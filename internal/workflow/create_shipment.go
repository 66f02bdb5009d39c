package workflow

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/assembly"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// Fulfillment option identifiers exposed to the platform. Each maps to a
// carrier temperature mode.
const (
	OptionStandard = "makesend-standard"
	OptionChill    = "makesend-chill"
	OptionFrozen   = "makesend-frozen"
)

var optionTemperatures = map[string]makesend.Temperature{
	OptionStandard: makesend.TemperatureNormal,
	OptionChill:    makesend.TemperatureChill,
	OptionFrozen:   makesend.TemperatureFrozen,
}

// TemperatureForOption maps a fulfillment option identifier to its carrier
// temperature. Unknown identifiers get the ambient mode.
func TemperatureForOption(optionID string) makesend.Temperature {
	if temp, ok := optionTemperatures[optionID]; ok {
		return temp
	}
	return makesend.TemperatureNormal
}

// SettingsStore is the slice of the settings service the workflow needs.
type SettingsStore interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// Creator runs the shipment creation pipeline: gather context from the
// platform, build the carrier request, create the order. Platform lookups
// degrade gracefully; only the carrier call itself is fatal.
type Creator struct {
	client    *makesend.Client
	builder   *assembly.Builder
	locations host.StockLocationService
	options   host.ShippingOptionService
	settings  SettingsStore
	logger    *otelzap.Logger
	now       func() time.Time
}

// NewCreator wires a Creator. A nil now defaults to time.Now.
func NewCreator(
	client *makesend.Client,
	builder *assembly.Builder,
	locations host.StockLocationService,
	options host.ShippingOptionService,
	store SettingsStore,
	logger *otelzap.Logger,
	now func() time.Time,
) *Creator {
	if now == nil {
		now = time.Now
	}
	return &Creator{
		client:    client,
		builder:   builder,
		locations: locations,
		options:   options,
		settings:  store,
		logger:    logger,
		now:       now,
	}
}

// CreateShipmentInput is the platform-side context for one shipment.
type CreateShipmentInput struct {
	FulfillmentID    string
	Order            *host.Order
	Data             host.FulfillmentData
	Items            []host.FulfillmentItem
	LocationID       string
	ShippingOptionID string
	// OptionID is the fulfillment option identifier chosen at checkout,
	// used as the temperature fallback when the platform lookup fails.
	OptionID string
}

// CreateShipmentResult is the carrier outcome recorded on the fulfillment.
type CreateShipmentResult struct {
	OrderID     string
	TrackingID  string
	AliasID     string
	DeliveryFee int64 // satang
}

// CreateShipment runs the pipeline. On failure after the carrier order
// exists, the order is cancelled best-effort before the error returns.
func (c *Creator) CreateShipment(ctx context.Context, in CreateShipmentInput) (*CreateShipmentResult, error) {
	saga := NewSaga(c.logger)

	location := c.fetchLocation(ctx, in.LocationID)
	temp := c.resolveTemperature(ctx, in)
	cfg := c.loadSettings(ctx)

	req, err := c.builder.BuildOrderRequest(ctx, assembly.OrderInput{
		FulfillmentID: in.FulfillmentID,
		Order:         in.Order,
		Data:          in.Data,
		Location:      location,
		Settings:      cfg,
		Temperature:   temp,
		Now:           c.now(),
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.CreateOrder(ctx, req)
	if err != nil {
		return nil, host.WrapError(host.ErrUnexpectedState, err,
			"creating carrier order for fulfillment %s", in.FulfillmentID)
	}

	if len(resp.Shipment) == 0 {
		err := host.NewError(host.ErrUnexpectedState,
			"carrier order %s created without shipments", resp.OrderID)
		saga.Add("create carrier order", c.cancelOrder(resp))
		saga.Rollback(ctx)
		return nil, err
	}

	created := resp.Shipment[0]
	c.logger.Ctx(ctx).Info("Created carrier order",
		zap.String("fulfillment_id", in.FulfillmentID),
		zap.String("order_id", resp.OrderID),
		zap.String("tracking_id", created.TrackingID),
		zap.Int64("delivery_fee", created.DeliveryFee),
	)

	return &CreateShipmentResult{
		OrderID:     resp.OrderID,
		TrackingID:  created.TrackingID,
		AliasID:     created.AliasID,
		DeliveryFee: created.DeliveryFee,
	}, nil
}

// cancelOrder is the compensation for a created carrier order.
func (c *Creator) cancelOrder(resp *makesend.CreateOrderResponse) CompensateFunc {
	ids := make([]string, 0, len(resp.Shipment))
	for _, s := range resp.Shipment {
		ids = append(ids, s.TrackingID)
	}
	return func(ctx context.Context) error {
		if len(ids) == 0 {
			return nil
		}
		_, err := c.client.CancelShipment(ctx, ids)
		return err
	}
}

// fetchLocation retrieves the pickup stock location. A failed lookup only
// loses the location-specific sender data, so it degrades to nil.
func (c *Creator) fetchLocation(ctx context.Context, id string) *host.StockLocation {
	if id == "" || c.locations == nil {
		return nil
	}
	location, err := c.locations.Retrieve(ctx, id)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Stock location lookup failed, using configured origin",
			zap.String("location_id", id),
			zap.Error(err),
		)
		return nil
	}
	return location
}

// resolveTemperature picks the shipping temperature: explicit fulfillment
// data first, then the shipping option's stored value, then the option
// identifier, then ambient.
func (c *Creator) resolveTemperature(ctx context.Context, in CreateShipmentInput) makesend.Temperature {
	if in.Data.Temperature != nil {
		return makesend.Temperature(*in.Data.Temperature)
	}

	if in.ShippingOptionID != "" && c.options != nil {
		option, err := c.options.Retrieve(ctx, in.ShippingOptionID)
		if err != nil {
			c.logger.Ctx(ctx).Warn("Shipping option lookup failed, deriving temperature from option id",
				zap.String("shipping_option_id", in.ShippingOptionID),
				zap.Error(err),
			)
		} else if option != nil {
			if option.Data.Temperature != nil {
				return makesend.Temperature(*option.Data.Temperature)
			}
			if option.Data.ID != "" {
				return TemperatureForOption(option.Data.ID)
			}
		}
	}

	return TemperatureForOption(in.OptionID)
}

// loadSettings reads the stored configuration, degrading to defaults.
func (c *Creator) loadSettings(ctx context.Context) *settings.Settings {
	if c.settings == nil {
		return &settings.Settings{}
	}
	cfg, err := c.settings.Get(ctx)
	if err != nil {
		c.logger.Ctx(ctx).Warn("Settings lookup failed, using defaults", zap.Error(err))
		return &settings.Settings{}
	}
	return cfg
}
