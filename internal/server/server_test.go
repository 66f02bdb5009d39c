package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/internal/assembly"
	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/provider"
	"github.com/siamship/makesend-bridge/internal/server"
	"github.com/siamship/makesend-bridge/internal/settings"
	"github.com/siamship/makesend-bridge/internal/workflow"
	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

type serverEnv struct {
	server       *server.Server
	mockAPI      *makesend.MockAPIClient
	fulfillments *host.MockFulfillmentUpdater
	settings     *settings.Service
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()
	logger := otelzap.New(zap.NewNop())

	mockAPI := makesend.NewMockAPIClient()
	client := makesend.NewWithAPIClient(makesend.Config{}, mockAPI, logger, nil)
	resolver := geo.NewResolver("../geo/testdata/data", logger)
	builder := assembly.NewBuilder(resolver, nil, logger, false)

	settingsSvc, err := settings.Open(":memory:", logger)
	require.NoError(t, err)

	creator := workflow.NewCreator(client, builder,
		host.NewMockStockLocationService(), host.NewMockShippingOptionService(),
		settingsSvc, logger, nil)
	prov := provider.New(client, creator, settingsSvc, resolver, logger, nil, false)
	fulfillments := host.NewMockFulfillmentUpdater()

	return &serverEnv{
		server:       server.New(server.Config{Port: 0}, prov, settingsSvc, resolver, fulfillments, logger, nil),
		mockAPI:      mockAPI,
		fulfillments: fulfillments,
		settings:     settingsSvc,
	}
}

func (e *serverEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealth(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestSaveAndGetSettings(t *testing.T) {
	env := newServerEnv(t)

	body := `{
		"senderName": "Siam Ship Co.",
		"senderPhone": "0811111111",
		"pickupAddress": "88 Sukhumvit Rd",
		"pickupPostcode": "10110",
		"originProvinceId": 1,
		"originDistrictId": 101,
		"timeCutoff": "09:30",
		"parcelSizeCodes": ["s60", "s80"]
	}`
	rec := env.do(t, http.MethodPost, "/admin/makesend/settings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/admin/makesend/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		SenderName      string   `json:"senderName"`
		TimeCutoff      string   `json:"timeCutoff"`
		ParcelSizeCodes []string `json:"parcelSizeCodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Siam Ship Co.", got.SenderName)
	assert.Equal(t, "09:30", got.TimeCutoff)
	assert.Equal(t, []string{"s60", "s80"}, got.ParcelSizeCodes)
}

func TestSaveSettingsValidation(t *testing.T) {
	env := newServerEnv(t)

	// Missing sender and a province outside the carrier's range.
	body := `{"senderPhone": "081", "pickupAddress": "x", "pickupPostcode": "10110", "originProvinceId": 99, "originDistrictId": 1}`
	rec := env.do(t, http.MethodPost, "/admin/makesend/settings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/makesend/settings", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFulfillmentOptionsEndpoint(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/makesend/fulfillment-options", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var options []host.FulfillmentOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	require.Len(t, options, 3)
	assert.Equal(t, "makesend-standard", options[0].ID)
}

func TestReferenceDataEndpoints(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/makesend/provinces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var provinces []geo.Province
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &provinces))
	assert.NotEmpty(t, provinces)

	rec = env.do(t, http.MethodGet, "/admin/makesend/districts?provinceId=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var districts []geo.District
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &districts))
	require.NotEmpty(t, districts)
	for _, d := range districts {
		assert.Equal(t, 1, d.ProvinceID)
	}

	rec = env.do(t, http.MethodGet, "/admin/makesend/districts?provinceId=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/admin/makesend/parcel-sizes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s80")
}

func TestTrackEndpoint(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodGet, "/store/makesend/track/MS1234", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp makesend.TrackingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MS1234", resp.TrackingID)
	assert.NotEmpty(t, resp.Steps)
}

func TestTrackEndpointForbidden(t *testing.T) {
	env := newServerEnv(t)
	env.mockAPI.OnGetTracking = func(ctx context.Context, trackingID string) (*makesend.TrackingResponse, error) {
		return nil, makesend.NewAPIError(http.StatusForbidden, "invalid api key")
	}

	rec := env.do(t, http.MethodGet, "/store/makesend/track/MS1234", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTrackEndpointNotFound(t *testing.T) {
	env := newServerEnv(t)
	env.mockAPI.OnGetTracking = func(ctx context.Context, trackingID string) (*makesend.TrackingResponse, error) {
		return nil, makesend.NewAPIError(http.StatusNotFound, "no such shipment")
	}

	rec := env.do(t, http.MethodGet, "/store/makesend/track/MSBOGUS", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func statusPayload(status string) string {
	payload := makesend.StatusWebhookPayload{
		TrackingID: "MS1234",
		AliasID:    "ful_01",
		StatusID:   makesend.StatusIDs[makesend.StatusCode(status)],
		StatusCode: status,
		StatusName: status,
		Datetime:   "2026-08-25 11:30:00",
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestStatusWebhookShipped(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234", AliasID: "ful_01"})

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("SHIPPED"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, []string{"ful_01"}, env.fulfillments.ShippedIDs)
	shipped := env.fulfillments.Fulfillments["ful_01"].ShippedAt
	require.NotNil(t, shipped)
	assert.Equal(t, time.Date(2026, 8, 25, 11, 30, 0, 0, time.UTC), shipped.UTC())
}

func TestStatusWebhookDelivered(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234"})

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("DELIVERED"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ful_01"}, env.fulfillments.DeliveredIDs)
}

func TestStatusWebhookCanceled(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234"})

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("CANCELED"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ful_01"}, env.fulfillments.CancelledIDs)
}

func TestStatusWebhookDeliveryFailedRecordsReason(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234"})

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("DELIVERY_FAILED"))
	require.Equal(t, http.StatusOK, rec.Code)

	updates := env.fulfillments.Updates["ful_01"]
	require.Len(t, updates, 1)
	assert.Equal(t, "DELIVERY_FAILED", updates[0].FailureReason)
}

func TestStatusWebhookUnknownTrackingAcknowledged(t *testing.T) {
	env := newServerEnv(t)

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("SHIPPED"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no matching fulfillment")
	assert.Empty(t, env.fulfillments.ShippedIDs)
}

func TestStatusWebhookUnknownStatusAcknowledged(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234"})

	rec := env.do(t, http.MethodPost, "/webhooks/makesend/status", statusPayload("TELEPORTED"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown status code")
	assert.Empty(t, env.fulfillments.Updates["ful_01"])
}

func TestParcelSizeWebhook(t *testing.T) {
	env := newServerEnv(t)
	env.fulfillments.Add(&host.Fulfillment{ID: "ful_01", TrackingNumber: "MS1234"})

	payload := `{"trackingID": "MS1234", "aliasID": "ful_01", "sizeID": 8, "sizeCode": "s120", "extraFee": 1500}`
	rec := env.do(t, http.MethodPost, "/webhooks/makesend/parcel-size", payload)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestParcelSizeWebhookUnknownTracking(t *testing.T) {
	env := newServerEnv(t)

	payload := `{"trackingID": "MSBOGUS", "sizeID": 8}`
	rec := env.do(t, http.MethodPost, "/webhooks/makesend/parcel-size", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no matching fulfillment")
}
