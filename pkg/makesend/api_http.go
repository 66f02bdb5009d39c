package makesend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder creates a delivery order.
// POST /order/create
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.post(ctx, "/order/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTracking retrieves tracking information.
// POST /order/tracking
func (c *HTTPAPIClient) GetTracking(ctx context.Context, trackingID string) (*TrackingResponse, error) {
	body := map[string]string{"trackingID": trackingID}
	var out TrackingResponse
	if err := c.post(ctx, "/order/tracking", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateFee calculates a delivery fee quote.
// POST /order/calculateFee
func (c *HTTPAPIClient) CalculateFee(ctx context.Context, req *CalculateFeeRequest) (*CalculateFeeResponse, error) {
	var out CalculateFeeResponse
	if err := c.post(ctx, "/order/calculateFee", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelShipment cancels shipments by tracking ID.
// POST /shipment/cancel
func (c *HTTPAPIClient) CancelShipment(ctx context.Context, trackingIDs []string) (*CancelShipmentResponse, error) {
	body := map[string][]string{"trackingID": trackingIDs}
	var out CancelShipmentResponse
	if err := c.post(ctx, "/shipment/cancel", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckPromoCode validates a promotion code.
// POST /promotion/code/check
func (c *HTTPAPIClient) CheckPromoCode(ctx context.Context, req *PromotionCheckRequest) (*PromotionCheckResponse, error) {
	var out PromotionCheckResponse
	if err := c.post(ctx, "/promotion/code/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetupStatusWebhook registers the status-update webhook URL.
// POST /webhook/setupURL/statusUpdate
func (c *HTTPAPIClient) SetupStatusWebhook(ctx context.Context, url string) error {
	return c.post(ctx, "/webhook/setupURL/statusUpdate", map[string]string{"url": url}, nil)
}

// SetupParcelSizeWebhook registers the parcel-size webhook URL.
// POST /webhook/setupURL/parcelSizeUpdate
func (c *HTTPAPIClient) SetupParcelSizeWebhook(ctx context.Context, url string) error {
	return c.post(ctx, "/webhook/setupURL/parcelSizeUpdate", map[string]string{"url": url}, nil)
}

// post performs a POST request with the ms-key auth header, checks the
// response envelope for application-level failure, and decodes the body
// into out. All failures surface as *APIError.
func (c *HTTPAPIClient) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return transportError(fmt.Errorf("marshaling request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return transportError(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ms-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(fmt.Errorf("reading response body: %w", err))
	}

	if apiErr := checkEnvelope(raw); apiErr != nil {
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{
				StatusCode: TransportFailureCode,
				Message:    fmt.Sprintf("decoding %s response: %v", endpoint, err),
				Raw:        raw,
			}
		}
	}
	return nil
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
