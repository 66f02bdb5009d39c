package assembly_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/assembly"
	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

func testBuilder(t *testing.T, strict bool) *assembly.Builder {
	t.Helper()
	resolver := geo.NewResolver("../geo/testdata/data", otelzap.New(zap.NewNop()))
	return assembly.NewBuilder(resolver, nil, otelzap.New(zap.NewNop()), strict)
}

func testSettings(t *testing.T) *settings.Settings {
	t.Helper()
	s := &settings.Settings{
		SenderName:       "Siam Ship Co.",
		SenderPhone:      "0811111111",
		PickupAddress:    "88 Sukhumvit Rd",
		PickupPostcode:   "10110",
		OriginProvinceID: 1,
		OriginDistrictID: 101,
		TimeCutoff:       "10:00",
	}
	return s
}

func bangkokAddress() *host.Address {
	return &host.Address{
		FirstName:  "Somchai",
		LastName:   "Jaidee",
		Address1:   "99/1 Rama IV Rd",
		City:       "คลองเตย",
		Province:   "Bangkok",
		PostalCode: "10110",
		Phone:      "0822222222",
	}
}

// Saturday 2026-08-29, 09:00 Bangkok time.
var saturdayMorning = time.Date(2026, 8, 29, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))

func TestBuildOrderRequest(t *testing.T) {
	b := testBuilder(t, false)

	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		FulfillmentID: "ful_01",
		Order:         &host.Order{ID: "order_01", ShippingAddress: bangkokAddress()},
		Settings:      testSettings(t),
		Temperature:   makesend.TemperatureChill,
		Now:           saturdayMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-29", req.DeliveryDate)
	assert.Equal(t, "Siam Ship Co.", req.SenderName)
	assert.Equal(t, "0811111111", req.SenderPhone)
	assert.Equal(t, 1, req.PickupProvince)
	assert.Equal(t, 101, req.PickupDistrict)
	assert.Equal(t, makesend.PickupAtSender, req.PickupType)
	assert.Equal(t, makesend.Slot8To10, req.PickupTime)

	require.Len(t, req.Shipment, 1)
	line := req.Shipment[0]
	assert.Equal(t, "Somchai Jaidee", line.ReceiverName)
	assert.Equal(t, "0822222222", line.ReceiverPhone)
	assert.Equal(t, "99/1 Rama IV Rd", line.DropAddress)
	assert.Equal(t, 1, line.DropProvince)
	assert.Equal(t, 101, line.DropDistrict)
	assert.Equal(t, "10110", line.DropPostcode)
	assert.Equal(t, int64(0), line.COD)
	assert.Equal(t, makesend.TemperatureChill, line.Temperature)
	assert.Equal(t, "ful_01", line.AliasID)
	assert.Equal(t, makesend.ParcelSizeS80, line.ParcelSize)
	assert.Equal(t, makesend.ParcelTypeOther, line.ParcelType)
}

func TestBuildOrderRequestExplicitParcelData(t *testing.T) {
	b := testBuilder(t, false)

	size := int(makesend.ParcelSizeS120)
	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		FulfillmentID: "ful_02",
		Order:         &host.Order{ShippingAddress: bangkokAddress()},
		Data: host.FulfillmentData{
			ParcelSize: &size,
			ParcelType: string(makesend.ParcelTypeFood),
			Note:       "fragile",
		},
		Settings: testSettings(t),
		Now:      saturdayMorning,
	})
	require.NoError(t, err)
	assert.Equal(t, makesend.ParcelSizeS120, req.Shipment[0].ParcelSize)
	assert.Equal(t, makesend.ParcelTypeFood, req.Shipment[0].ParcelType)
	assert.Equal(t, "fragile", req.Shipment[0].Note)
}

func TestBuildOrderRequestStockLocationSender(t *testing.T) {
	b := testBuilder(t, false)

	loc := &host.StockLocation{
		ID:   "loc_01",
		Name: "Chiang Mai Warehouse",
		Address: &host.Address{
			Address1:   "12 Nimman Rd",
			City:       "เมืองเชียงใหม่",
			Province:   "Chiang Mai",
			PostalCode: "50200",
			Phone:      "0833333333",
		},
	}
	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		FulfillmentID: "ful_03",
		Order:         &host.Order{ShippingAddress: bangkokAddress()},
		Location:      loc,
		Settings:      testSettings(t),
		Now:           saturdayMorning,
	})
	require.NoError(t, err)

	assert.Equal(t, "Chiang Mai Warehouse", req.SenderName)
	assert.Equal(t, "0833333333", req.SenderPhone)
	assert.Equal(t, "12 Nimman Rd", req.PickupAddress)
	assert.Equal(t, "50200", req.PickupPostcode)
	assert.Equal(t, 15, req.PickupProvince)
	assert.Equal(t, 1501, req.PickupDistrict)
}

func TestBuildOrderRequestCompanyBeatsLocationName(t *testing.T) {
	b := testBuilder(t, false)

	loc := &host.StockLocation{
		Name:    "Warehouse",
		Address: &host.Address{Company: "Acme Ltd", PostalCode: "50200"},
	}
	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		Order:    &host.Order{ShippingAddress: bangkokAddress()},
		Location: loc,
		Settings: testSettings(t),
		Now:      saturdayMorning,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", req.SenderName)
}

func TestBuildOrderRequestGeoFallback(t *testing.T) {
	b := testBuilder(t, false)

	addr := &host.Address{
		FirstName:  "Nok",
		Address1:   "1 Unknown St",
		City:       "Nowhere",
		Province:   "Atlantis",
		PostalCode: "99999",
	}
	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		FulfillmentID: "ful_04",
		Order:         &host.Order{ShippingAddress: addr},
		Settings:      testSettings(t),
		Now:           saturdayMorning,
	})
	require.NoError(t, err)

	// Both identifiers fall back together.
	assert.Equal(t, 1, req.Shipment[0].DropProvince)
	assert.Equal(t, 1, req.Shipment[0].DropDistrict)
}

func TestBuildOrderRequestStrictGeoFails(t *testing.T) {
	b := testBuilder(t, true)

	addr := &host.Address{Address1: "1 Unknown St", Province: "Atlantis", PostalCode: "99999"}
	_, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		Order:    &host.Order{ShippingAddress: addr},
		Settings: testSettings(t),
		Now:      saturdayMorning,
	})
	require.Error(t, err)
	assert.True(t, host.IsType(err, host.ErrInvalidData))
}

func TestBuildOrderRequestReceiverNameDefaults(t *testing.T) {
	b := testBuilder(t, false)

	addr := bangkokAddress()
	addr.FirstName = ""
	addr.LastName = ""
	addr.Company = ""
	req, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		FulfillmentID: "ful_07",
		Order:         &host.Order{ID: "order_07", ShippingAddress: addr},
		Settings:      testSettings(t),
		Now:           saturdayMorning,
	})
	require.NoError(t, err)

	require.Len(t, req.Shipment, 1)
	assert.Equal(t, "Customer", req.Shipment[0].ReceiverName)
}

func TestBuildOrderRequestNoShippingAddress(t *testing.T) {
	b := testBuilder(t, false)

	_, err := b.BuildOrderRequest(context.Background(), assembly.OrderInput{
		Order: &host.Order{ID: "order"},
	})
	require.Error(t, err)
	assert.True(t, host.IsType(err, host.ErrInvalidData))
}

func TestDeliveryDate(t *testing.T) {
	zone := time.FixedZone("ICT", 7*3600)

	// Saturday before 10:00 delivers the same day.
	sat := time.Date(2026, 8, 29, 9, 59, 0, 0, zone)
	assert.Equal(t, "2026-08-29", assembly.DeliveryDate(sat))

	// Saturday at 10:00 rolls over Sunday to Monday.
	satLate := time.Date(2026, 8, 29, 10, 1, 0, 0, zone)
	assert.Equal(t, "2026-08-31", assembly.DeliveryDate(satLate))

	// Tuesday after the cutoff becomes Wednesday.
	tue := time.Date(2026, 8, 25, 10, 1, 0, 0, zone)
	assert.Equal(t, "2026-08-26", assembly.DeliveryDate(tue))

	// Sunday itself is skipped even for early orders.
	sun := time.Date(2026, 8, 30, 8, 0, 0, 0, zone)
	assert.Equal(t, "2026-08-31", assembly.DeliveryDate(sun))
}

func TestPickupSlot(t *testing.T) {
	zone := time.FixedZone("ICT", 7*3600)
	before := time.Date(2026, 8, 25, 9, 29, 0, 0, zone)
	after := time.Date(2026, 8, 25, 9, 31, 0, 0, zone)

	assert.Equal(t, makesend.Slot8To10, assembly.PickupSlot("09:30", before))
	assert.Equal(t, makesend.Slot10To12, assembly.PickupSlot("09:30", after))
	assert.Equal(t, makesend.Slot10To12, assembly.PickupSlot("", before))
	assert.Equal(t, makesend.Slot10To12, assembly.PickupSlot("not a time", before))
}
