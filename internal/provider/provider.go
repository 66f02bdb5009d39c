// Package provider adapts the Makesend carrier to the fulfillment
// provider contract of the commerce platform.
package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/telemetry"
	"github.com/siamship/makesend-bridge/internal/workflow"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// satangPerBaht converts carrier fee amounts to the platform currency unit.
var satangPerBaht = decimal.NewFromInt(100)

// Provider implements host.Provider for Makesend.
type Provider struct {
	client   *makesend.Client
	creator  *workflow.Creator
	settings workflow.SettingsStore
	geo      *geo.Resolver
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	strict   bool
}

// New wires the provider. With strict set, quotes for unresolvable
// geography fail instead of falling back to the default routing place.
func New(
	client *makesend.Client,
	creator *workflow.Creator,
	store workflow.SettingsStore,
	resolver *geo.Resolver,
	logger *otelzap.Logger,
	metrics *telemetry.Metrics,
	strict bool,
) *Provider {
	return &Provider{
		client:   client,
		creator:  creator,
		settings: store,
		geo:      resolver,
		logger:   logger,
		metrics:  metrics,
		strict:   strict,
	}
}

var _ host.Provider = (*Provider)(nil)

// GetFulfillmentOptions lists the three temperature-mode options with the
// parcel sizes the merchant has enabled.
func (p *Provider) GetFulfillmentOptions(ctx context.Context) ([]host.FulfillmentOption, error) {
	cfg, err := p.settings.Get(ctx)
	if err != nil {
		return nil, host.WrapError(host.ErrUnexpectedState, err, "loading settings")
	}

	sizes := make([]int, 0, len(cfg.SupportedParcelSizes()))
	for _, s := range cfg.SupportedParcelSizes() {
		sizes = append(sizes, int(s))
	}

	return []host.FulfillmentOption{
		{
			ID:          workflow.OptionStandard,
			Name:        "Makesend Standard",
			Temperature: int(makesend.TemperatureNormal),
			ParcelSizes: sizes,
		},
		{
			ID:          workflow.OptionChill,
			Name:        "Makesend Chill",
			Temperature: int(makesend.TemperatureChill),
			ParcelSizes: sizes,
		},
		{
			ID:          workflow.OptionFrozen,
			Name:        "Makesend Frozen",
			Temperature: int(makesend.TemperatureFrozen),
			ParcelSizes: sizes,
		},
	}, nil
}

// ValidateFulfillmentData rejects bad fulfillment data before any carrier
// call and returns it back unchanged when valid.
func (p *Provider) ValidateFulfillmentData(ctx context.Context, optionData host.OptionData, data host.FulfillmentData) (host.FulfillmentData, error) {
	if !p.ValidateOption(ctx, optionData) {
		return data, host.NewError(host.ErrInvalidData, "unknown fulfillment option %q", optionData.ID)
	}

	if data.Temperature != nil {
		t := makesend.Temperature(*data.Temperature)
		if t < makesend.TemperatureNormal || t > makesend.TemperatureFrozen {
			return data, host.NewError(host.ErrInvalidData, "invalid temperature %d", *data.Temperature)
		}
	}

	if data.ParcelSize != nil {
		size := makesend.ParcelSize(*data.ParcelSize)
		if size < makesend.ParcelSizeENV || size > makesend.ParcelSizeS200 {
			return data, host.NewError(host.ErrInvalidData, "invalid parcel size %d", *data.ParcelSize)
		}
		cfg, err := p.settings.Get(ctx)
		if err != nil {
			return data, host.WrapError(host.ErrUnexpectedState, err, "loading settings")
		}
		if !cfg.IsSupported(size) {
			return data, host.NewError(host.ErrInvalidData, "parcel size %d is not enabled", *data.ParcelSize)
		}
	}

	return data, nil
}

// ValidateOption reports whether the option belongs to this provider.
func (p *Provider) ValidateOption(ctx context.Context, data host.OptionData) bool {
	switch data.ID {
	case workflow.OptionStandard, workflow.OptionChill, workflow.OptionFrozen:
		return true
	}
	return false
}

// CanCalculate reports whether prices for the option are quoted live.
// Every Makesend option is.
func (p *Provider) CanCalculate(ctx context.Context, data host.OptionData) bool {
	return p.ValidateOption(ctx, data)
}

// CalculatePrice quotes the delivery fee for a checkout cart. The carrier
// answers in satang; the platform wants baht.
func (p *Provider) CalculatePrice(ctx context.Context, optionData host.OptionData, data host.PriceData, pctx host.PriceContext) (host.CalculatedPrice, error) {
	start := time.Now()

	req, err := p.buildFeeRequest(ctx, optionData, data, pctx)
	if err != nil {
		return host.CalculatedPrice{}, err
	}

	resp, err := p.client.CalculateFee(ctx, req)
	if err != nil {
		p.record("calculate_price", "error", start)
		return host.CalculatedPrice{}, host.WrapError(host.ErrUnexpectedState, err, "calculating delivery fee")
	}
	if resp.TotalFee == nil {
		p.record("calculate_price", "error", start)
		return host.CalculatedPrice{}, host.NewError(host.ErrUnexpectedState, "carrier fee response has no total")
	}
	p.record("calculate_price", "ok", start)

	return host.CalculatedPrice{
		CalculatedAmount: decimal.NewFromInt(*resp.TotalFee).Div(satangPerBaht),
		TaxInclusive:     false,
	}, nil
}

func (p *Provider) buildFeeRequest(ctx context.Context, optionData host.OptionData, data host.PriceData, pctx host.PriceContext) (*makesend.CalculateFeeRequest, error) {
	cfg, err := p.settings.Get(ctx)
	if err != nil {
		return nil, host.WrapError(host.ErrUnexpectedState, err, "loading settings")
	}

	originProvince := cfg.OriginProvinceID
	originDistrict := data.OriginDistrictID
	if originDistrict == 0 {
		originDistrict = cfg.OriginDistrictID
	}
	if pctx.FromLocation != nil && pctx.FromLocation.Address != nil {
		if provinceID, districtID := p.resolveAddress(pctx.FromLocation.Address); provinceID != geo.Unresolved {
			originProvince = provinceID
			if districtID != geo.Unresolved {
				originDistrict = districtID
			}
		}
	}

	destProvince, destDistrict := geo.Unresolved, data.DestinationDistrictID
	if pctx.ShippingAddress != nil {
		provinceID, districtID := p.resolveAddress(pctx.ShippingAddress)
		destProvince = provinceID
		if destDistrict == 0 {
			destDistrict = districtID
		}
	}
	destProvince, destDistrict, err = p.fallbackPlace(ctx, "destination", destProvince, destDistrict)
	if err != nil {
		return nil, err
	}
	originProvince, originDistrict, err = p.fallbackPlace(ctx, "origin", originProvince, originDistrict)
	if err != nil {
		return nil, err
	}

	size := cfg.DefaultParcelSize()
	if data.ParcelSize != nil {
		size = makesend.ParcelSize(*data.ParcelSize)
	}
	temp := workflow.TemperatureForOption(optionData.ID)
	if optionData.Temperature != nil {
		temp = makesend.Temperature(*optionData.Temperature)
	}

	return &makesend.CalculateFeeRequest{
		OriginProvinceID:      originProvince,
		OriginDistrictID:      originDistrict,
		DestinationProvinceID: destProvince,
		DestinationDistrictID: destDistrict,
		COD:                   data.COD,
		Temperature:           temp,
		ParcelSize:            size,
		ParcelType:            makesend.ParcelType(data.ParcelType),
	}, nil
}

// fallbackPlace substitutes the default routing place for an unresolved
// quote side. Both identifiers move together so the carrier never sees a
// district outside its province. Strict mode fails the quote instead.
func (p *Provider) fallbackPlace(ctx context.Context, side string, provinceID, districtID int) (int, int, error) {
	if provinceID != geo.Unresolved && districtID != geo.Unresolved {
		return provinceID, districtID, nil
	}
	if p.strict {
		return 0, 0, host.NewError(host.ErrInvalidData,
			"could not resolve %s geography for quote", side)
	}

	if p.metrics != nil {
		p.metrics.GeoSentinelFallbacks.Inc()
	}
	p.logger.Ctx(ctx).Warn("Quote geography unresolved, using fallback routing place",
		zap.String("side", side),
		zap.Int("province_id", provinceID),
		zap.Int("district_id", districtID),
	)
	return geo.FallbackPlaceID, geo.FallbackPlaceID, nil
}

func (p *Provider) resolveAddress(addr *host.Address) (int, int) {
	provinceID := geo.ResolveProvince(addr.Province)
	districtID := geo.Unresolved
	if code, ok := postalCode(addr.PostalCode); ok {
		if loc, found := p.geo.PrimaryLocation(code); found {
			if loc.ProvinceID != geo.Unresolved {
				provinceID = loc.ProvinceID
			}
			districtID = loc.DistrictID
		}
	}
	if districtID == geo.Unresolved {
		districtID = p.geo.DistrictID(addr.City, provinceID)
	}
	return provinceID, districtID
}

// CreateFulfillment ships one fulfillment through Makesend and returns the
// tracking data and label links the platform stores.
func (p *Provider) CreateFulfillment(ctx context.Context, data host.FulfillmentData, items []host.FulfillmentItem, order *host.Order, fulfillment *host.Fulfillment) (*host.CreateFulfillmentResult, error) {
	start := time.Now()

	if fulfillment == nil {
		return nil, host.NewError(host.ErrInvalidData, "no fulfillment supplied")
	}
	if fulfillment.LocationID == "" {
		return nil, host.NewError(host.ErrInvalidData,
			"fulfillment %s has no stock location", fulfillment.ID)
	}
	// The stored option id may be a platform identifier rather than one
	// of ours; parcel data is validated either way.
	optionID := fulfillment.ShippingOptionID
	if !p.ValidateOption(ctx, host.OptionData{ID: optionID}) {
		optionID = workflow.OptionStandard
	}
	if _, err := p.ValidateFulfillmentData(ctx, host.OptionData{ID: optionID}, data); err != nil {
		return nil, err
	}

	result, err := p.creator.CreateShipment(ctx, workflow.CreateShipmentInput{
		FulfillmentID:    fulfillment.ID,
		Order:            order,
		Data:             data,
		Items:            items,
		LocationID:       fulfillment.LocationID,
		ShippingOptionID: fulfillment.ShippingOptionID,
		OptionID:         fulfillment.ShippingOptionID,
	})
	if err != nil {
		p.record("create_fulfillment", "error", start)
		return nil, err
	}
	p.record("create_fulfillment", "ok", start)

	return &host.CreateFulfillmentResult{
		Data: host.FulfillmentResultData{
			OrderID:        result.OrderID,
			TrackingNumber: result.TrackingID,
			AliasID:        result.AliasID,
			DeliveryFee:    result.DeliveryFee,
		},
		Labels: []host.Label{{
			TrackingNumber: result.TrackingID,
			TrackingURL:    p.client.TrackingURL(result.TrackingID),
			LabelURL:       p.client.LabelURL(result.TrackingID),
		}},
	}, nil
}

// CancelFulfillment cancels the carrier shipment. A fulfillment that never
// reached the carrier cancels trivially, and a shipment the carrier has
// already cancelled still counts as success.
func (p *Provider) CancelFulfillment(ctx context.Context, fulfillment *host.Fulfillment) (*host.CancelFulfillmentResult, error) {
	if fulfillment == nil || fulfillment.TrackingNumber == "" {
		return &host.CancelFulfillmentResult{Cancelled: true, NoCarrierOrder: true}, nil
	}
	start := time.Now()

	resp, err := p.client.CancelShipment(ctx, []string{fulfillment.TrackingNumber})
	if err != nil {
		p.record("cancel_fulfillment", "error", start)
		return nil, host.WrapError(host.ErrUnexpectedState, err,
			"cancelling shipment %s", fulfillment.TrackingNumber)
	}

	result := &host.CancelFulfillmentResult{TrackingID: fulfillment.TrackingNumber}
	switch {
	case contains(resp.Data.CancelSuccess, fulfillment.TrackingNumber):
		result.Cancelled = true
	case contains(resp.Data.AlreadyCancelled, fulfillment.TrackingNumber):
		result.Cancelled = true
		result.AlreadyCancelled = true
	case contains(resp.Data.OverCancelLimit, fulfillment.TrackingNumber):
		p.record("cancel_fulfillment", "error", start)
		return nil, host.NewError(host.ErrUnexpectedState,
			"shipment %s is past the carrier cancellation window", fulfillment.TrackingNumber)
	default:
		p.record("cancel_fulfillment", "error", start)
		return nil, host.NewError(host.ErrUnexpectedState,
			"carrier does not recognize tracking id %s", fulfillment.TrackingNumber)
	}
	p.record("cancel_fulfillment", "ok", start)

	p.logger.Ctx(ctx).Info("Cancelled shipment",
		zap.String("tracking_id", fulfillment.TrackingNumber),
		zap.Bool("already_cancelled", result.AlreadyCancelled),
	)
	return result, nil
}

// Track fetches live tracking state for a tracking or alias identifier.
func (p *Provider) Track(ctx context.Context, trackingID string) (*makesend.TrackingResponse, error) {
	return p.client.TrackShipment(ctx, trackingID)
}

// GetFulfillmentDocuments is not supported: Makesend labels are linked at
// creation time, not fetched later.
func (p *Provider) GetFulfillmentDocuments(ctx context.Context, data host.FulfillmentData) ([]host.Label, error) {
	return nil, nil
}

// CreateReturnFulfillment succeeds with an empty result. Returns are
// arranged directly with the carrier, so there is nothing to record here.
func (p *Provider) CreateReturnFulfillment(ctx context.Context, fulfillment *host.Fulfillment) (*host.CreateFulfillmentResult, error) {
	return &host.CreateFulfillmentResult{}, nil
}

func (p *Provider) record(operation, status string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordRequest(operation, status, time.Since(start).Seconds())
	if status != "ok" {
		p.metrics.RecordError(operation, "carrier")
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func postalCode(s string) (int, bool) {
	if len(s) != 5 {
		return 0, false
	}
	code := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		code = code*10 + int(r-'0')
	}
	return code, true
}
