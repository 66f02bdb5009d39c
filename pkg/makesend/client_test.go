package makesend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/pkg/makesend"
)

func newTestClient(mockAPI *makesend.MockAPIClient) *makesend.Client {
	logger := otelzap.New(zap.NewNop())
	return makesend.NewWithAPIClient(makesend.Config{}, mockAPI, logger, nil)
}

func TestClient_CreateOrder(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.CreateOrder(context.Background(), &makesend.CreateOrderRequest{
		DeliveryDate: "2026-08-29",
		SenderName:   "Siam Ship Co.",
		Shipment:     []makesend.Shipment{{AliasID: "ful_01"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderID)
	require.Len(t, resp.Shipment, 1)
	assert.NotEmpty(t, resp.Shipment[0].TrackingID)
	assert.Equal(t, "ful_01", resp.Shipment[0].AliasID)
}

func TestClient_CreateOrder_Error(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.CreateOrder(context.Background(), &makesend.CreateOrderRequest{})
	assert.Error(t, err)
}

func TestClient_TrackShipment(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.TrackShipment(context.Background(), "MS1234")
	require.NoError(t, err)
	assert.Equal(t, "MS1234", resp.TrackingID)
	assert.NotEmpty(t, resp.Steps)
}

func TestClient_CalculateFee(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.CalculateFee(context.Background(), &makesend.CalculateFeeRequest{
		OriginProvinceID:      1,
		OriginDistrictID:      101,
		DestinationProvinceID: 15,
		DestinationDistrictID: 1501,
		ParcelSize:            makesend.ParcelSizeS80,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.TotalFee)
	assert.Positive(t, *resp.TotalFee)
}

func TestClient_CancelShipment(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	client := newTestClient(mockAPI)

	resp, err := client.CancelShipment(context.Background(), []string{"MS1234"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MS1234"}, resp.Data.CancelSuccess)
}

func TestClient_URLs(t *testing.T) {
	client := newTestClient(makesend.NewMockAPIClient())

	assert.Equal(t, "https://app.makesend.asia/tracking?t=MS1234", client.TrackingURL("MS1234"))
	assert.Equal(t, "https://app.makesend.asia/waybill/MS1234", client.LabelURL("MS1234"))
}

func TestClient_RegisterWebhooks(t *testing.T) {
	mockAPI := makesend.NewMockAPIClient()
	client := newTestClient(mockAPI)

	require.NoError(t, client.RegisterStatusWebhook(context.Background(), "https://a.example/status"))
	require.NoError(t, client.RegisterParcelSizeWebhook(context.Background(), "https://a.example/size"))
	assert.Equal(t, []string{"https://a.example/status", "https://a.example/size"}, mockAPI.RegisteredWebhooks)
}

func TestParcelSizeCodes(t *testing.T) {
	size, ok := makesend.ParcelSizeFromCode("s80")
	require.True(t, ok)
	assert.Equal(t, makesend.ParcelSizeS80, size)
	assert.Equal(t, "s80", size.Code())

	_, ok = makesend.ParcelSizeFromCode("giant-crate")
	assert.False(t, ok)
}
