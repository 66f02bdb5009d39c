// Package assembly turns platform fulfillment data into Makesend order
// requests: geography resolution, delivery date rules and pickup slots.
package assembly

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/internal/telemetry"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// Builder assembles carrier order requests.
type Builder struct {
	geo     *geo.Resolver
	metrics *telemetry.Metrics
	logger  *otelzap.Logger
	strict  bool
}

// NewBuilder creates a Builder. With strict set, unresolvable geography
// fails the order instead of falling back to the default routing place.
func NewBuilder(g *geo.Resolver, m *telemetry.Metrics, log *otelzap.Logger, strict bool) *Builder {
	return &Builder{geo: g, metrics: m, logger: log, strict: strict}
}

// OrderInput carries everything needed to build one carrier order.
type OrderInput struct {
	FulfillmentID string
	Order         *host.Order
	Data          host.FulfillmentData
	Location      *host.StockLocation
	Settings      *settings.Settings
	Temperature   makesend.Temperature
	Now           time.Time
}

// BuildOrderRequest assembles the complete Makesend create-order payload
// for a single-shipment fulfillment.
func (b *Builder) BuildOrderRequest(ctx context.Context, in OrderInput) (*makesend.CreateOrderRequest, error) {
	if in.Order == nil || in.Order.ShippingAddress == nil {
		return nil, host.NewError(host.ErrInvalidData, "order has no shipping address")
	}
	cfg := in.Settings
	if cfg == nil {
		cfg = &settings.Settings{}
	}

	drop := in.Order.ShippingAddress
	dropProvince, dropDistrict := b.resolvePlace(drop.PostalCode, drop.City, drop.Province)
	dropProvince, dropDistrict, err := b.applyFallback(ctx, "destination", in.FulfillmentID, dropProvince, dropDistrict)
	if err != nil {
		return nil, err
	}

	sender := b.resolveSender(ctx, in.Location, cfg)
	pickupProvince, pickupDistrict, err := b.applyFallback(ctx, "origin", in.FulfillmentID, sender.provinceID, sender.districtID)
	if err != nil {
		return nil, err
	}

	size := cfg.DefaultParcelSize()
	if in.Data.ParcelSize != nil {
		size = makesend.ParcelSize(*in.Data.ParcelSize)
	}
	parcelType := makesend.ParcelType(in.Data.ParcelType)
	if parcelType == "" {
		parcelType = makesend.ParcelTypeOther
	}

	return &makesend.CreateOrderRequest{
		DeliveryDate:   DeliveryDate(in.Now),
		SenderName:     sender.name,
		SenderPhone:    sender.phone,
		PickupAddress:  sender.address,
		PickupProvince: pickupProvince,
		PickupDistrict: pickupDistrict,
		PickupPostcode: sender.postcode,
		PickupType:     makesend.PickupAtSender,
		Branch:         0,
		PickupTime:     PickupSlot(cfg.TimeCutoff, in.Now),
		Shipment: []makesend.Shipment{{
			ParcelSize:    size,
			ParcelType:    parcelType,
			ReceiverName:  receiverName(drop),
			ReceiverPhone: drop.Phone,
			DropAddress:   joinAddress(drop.Address1, drop.Address2),
			DropProvince:  dropProvince,
			DropDistrict:  dropDistrict,
			DropPostcode:  drop.PostalCode,
			COD:           0,
			Temperature:   in.Temperature,
			Note:          in.Data.Note,
			AliasID:       in.FulfillmentID,
		}},
	}, nil
}

// resolvePlace resolves a province and district pair, postal code first
// and free-text names second. Either result may be geo.Unresolved.
func (b *Builder) resolvePlace(postalCode, city, province string) (int, int) {
	provinceID, districtID := geo.Unresolved, geo.Unresolved

	if code, err := strconv.Atoi(strings.TrimSpace(postalCode)); err == nil {
		if loc, ok := b.geo.PrimaryLocation(code); ok {
			provinceID, districtID = loc.ProvinceID, loc.DistrictID
		}
	}
	if provinceID == geo.Unresolved {
		provinceID = geo.ResolveProvince(province)
	}
	if districtID == geo.Unresolved {
		districtID = b.geo.DistrictID(strings.TrimSpace(city), provinceID)
	}
	return provinceID, districtID
}

// applyFallback substitutes the fallback place when resolution failed.
// Both identifiers move together so the carrier never sees a district
// outside its province. Strict mode turns the substitution into an error.
func (b *Builder) applyFallback(ctx context.Context, side, fulfillmentID string, provinceID, districtID int) (int, int, error) {
	if provinceID != geo.Unresolved && districtID != geo.Unresolved {
		return provinceID, districtID, nil
	}
	if b.strict {
		return 0, 0, host.NewError(host.ErrInvalidData,
			"could not resolve %s geography for fulfillment %s", side, fulfillmentID)
	}

	if b.metrics != nil {
		b.metrics.GeoSentinelFallbacks.Inc()
	}
	b.logger.Ctx(ctx).Warn("Geography unresolved, using fallback routing place",
		zap.String("side", side),
		zap.String("fulfillment_id", fulfillmentID),
		zap.Int("province_id", provinceID),
		zap.Int("district_id", districtID),
	)
	return geo.FallbackPlaceID, geo.FallbackPlaceID, nil
}

type senderInfo struct {
	name       string
	phone      string
	address    string
	postcode   string
	provinceID int
	districtID int
}

// resolveSender builds the pickup side from the stock location when one is
// available, filling gaps from the stored settings.
func (b *Builder) resolveSender(ctx context.Context, loc *host.StockLocation, cfg *settings.Settings) senderInfo {
	info := senderInfo{
		name:       cfg.SenderName,
		phone:      cfg.SenderPhone,
		address:    cfg.PickupAddress,
		postcode:   cfg.PickupPostcode,
		provinceID: cfg.OriginProvinceID,
		districtID: cfg.OriginDistrictID,
	}
	if info.name == "" {
		info.name = "Sender"
	}

	if loc == nil || loc.Address == nil {
		return info
	}

	addr := loc.Address
	switch {
	case addr.Company != "":
		info.name = addr.Company
	case loc.Name != "":
		info.name = loc.Name
	}
	if addr.Phone != "" {
		info.phone = addr.Phone
	}
	if joined := joinAddress(addr.Address1, addr.Address2); joined != "" {
		info.address = joined
	}
	if addr.PostalCode != "" {
		info.postcode = addr.PostalCode
	}

	provinceID, districtID := b.resolvePlace(addr.PostalCode, addr.City, addr.Province)
	if provinceID != geo.Unresolved {
		info.provinceID = provinceID
	}
	if districtID != geo.Unresolved {
		info.districtID = districtID
	}
	return info
}

func receiverName(addr *host.Address) string {
	name := strings.TrimSpace(strings.TrimSpace(addr.FirstName) + " " + strings.TrimSpace(addr.LastName))
	if name == "" {
		name = addr.Company
	}
	if name == "" {
		name = "Customer"
	}
	return name
}

func joinAddress(line1, line2 string) string {
	return strings.TrimSpace(strings.TrimSpace(line1) + " " + strings.TrimSpace(line2))
}

// DeliveryDate computes the requested delivery date. Orders placed at or
// after 10:00 deliver the next day, and Sunday is skipped.
func DeliveryDate(now time.Time) string {
	date := now
	if now.Hour() >= 10 {
		date = date.AddDate(0, 0, 1)
	}
	if date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}
	return date.Format("2006-01-02")
}

// PickupSlot chooses the pickup window from the configured cutoff. Orders
// before the cutoff get the morning slot, everything else the midday one.
// An empty or malformed cutoff always yields the midday slot.
func PickupSlot(cutoff string, now time.Time) makesend.PickupTimeSlot {
	boundary, err := time.Parse("15:04", cutoff)
	if err != nil {
		return makesend.Slot10To12
	}
	if now.Hour() < boundary.Hour() ||
		(now.Hour() == boundary.Hour() && now.Minute() < boundary.Minute()) {
		return makesend.Slot8To10
	}
	return makesend.Slot10To12
}
