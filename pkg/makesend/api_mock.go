package makesend

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	mu sync.Mutex

	OnCreateOrder    func(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
	OnGetTracking    func(ctx context.Context, trackingID string) (*TrackingResponse, error)
	OnCalculateFee   func(ctx context.Context, req *CalculateFeeRequest) (*CalculateFeeResponse, error)
	OnCancelShipment func(ctx context.Context, trackingIDs []string) (*CancelShipmentResponse, error)
	OnCheckPromoCode func(ctx context.Context, req *PromotionCheckRequest) (*PromotionCheckResponse, error)

	// RegisteredWebhooks records URLs passed to the webhook setup calls.
	// Guarded by mu; the registration job registers both URLs concurrently.
	RegisteredWebhooks []string
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) simulate() error {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return &APIError{StatusCode: 500, Message: "Simulated API error"}
	}
	return nil
}

// CreateOrder returns a mock order with one created shipment per requested
// shipment line.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	suffix := strings.ToUpper(uuid.New().String()[:8])
	shipments := make([]CreatedShipment, len(req.Shipment))
	var total int64
	for i, s := range req.Shipment {
		shipments[i] = CreatedShipment{
			TrackingID:    "MS" + suffix,
			ReceiverName:  s.ReceiverName,
			ReceiverPhone: s.ReceiverPhone,
			AliasID:       s.AliasID,
			DeliveryFee:   4500,
		}
		total += 4500
	}

	return &CreateOrderResponse{
		ResCode:    200,
		Message:    "Order created",
		OrderID:    "ORD-" + suffix,
		PickupFee:  0,
		TotalPrice: total,
		Shipment:   shipments,
	}, nil
}

// GetTracking returns a mock tracking history.
func (m *MockAPIClient) GetTracking(ctx context.Context, trackingID string) (*TrackingResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnGetTracking != nil {
		return m.OnGetTracking(ctx, trackingID)
	}

	now := time.Now()
	return &TrackingResponse{
		ResCode:          200,
		Message:          "success",
		TrackingID:       trackingID,
		ReceiverName:     "Test Receiver",
		ReceiverPhone:    "0812345678",
		Address:          "99 Sukhumvit Rd",
		PickupProvince:   "กรุงเทพ",
		PickupDistrict:   "คลองเตย",
		DropProvince:     "เชียงใหม่",
		DropDistrict:     "เมืองเชียงใหม่",
		PickupProvinceID: 1,
		DropProvinceID:   15,
		Steps: []TrackingStep{
			{Datetime: now.Add(-24 * time.Hour).Format(time.RFC3339), Status: string(StatusShipped), Description: "Parcel picked up"},
			{Datetime: now.Format(time.RFC3339), Status: string(StatusDelivering), Description: "Out for delivery"},
		},
	}, nil
}

// CalculateFee returns a mock fee quote.
func (m *MockAPIClient) CalculateFee(ctx context.Context, req *CalculateFeeRequest) (*CalculateFeeResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCalculateFee != nil {
		return m.OnCalculateFee(ctx, req)
	}

	total := int64(5000)
	return &CalculateFeeResponse{
		ResCode:     200,
		Message:     "success",
		DeliveryFee: 5000,
		TotalFee:    &total,
	}, nil
}

// CancelShipment reports every requested tracking ID as newly cancelled.
func (m *MockAPIClient) CancelShipment(ctx context.Context, trackingIDs []string) (*CancelShipmentResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCancelShipment != nil {
		return m.OnCancelShipment(ctx, trackingIDs)
	}

	return &CancelShipmentResponse{
		Data: CancelResult{
			InvalidTrackingID: []string{},
			OverCancelLimit:   []string{},
			CancelSuccess:     trackingIDs,
			AlreadyCancelled:  []string{},
		},
		Status:  200,
		Message: "Shipment canceled successfully",
	}, nil
}

// CheckPromoCode accepts every code with a fixed discount.
func (m *MockAPIClient) CheckPromoCode(ctx context.Context, req *PromotionCheckRequest) (*PromotionCheckResponse, error) {
	if err := m.simulate(); err != nil {
		return nil, err
	}
	if m.OnCheckPromoCode != nil {
		return m.OnCheckPromoCode(ctx, req)
	}

	return &PromotionCheckResponse{
		ResCode:        200,
		Message:        "success",
		DiscountAmount: 1000,
	}, nil
}

// SetupStatusWebhook records the registered URL.
func (m *MockAPIClient) SetupStatusWebhook(ctx context.Context, url string) error {
	if err := m.simulate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.RegisteredWebhooks = append(m.RegisteredWebhooks, url)
	m.mu.Unlock()
	return nil
}

// SetupParcelSizeWebhook records the registered URL.
func (m *MockAPIClient) SetupParcelSizeWebhook(ctx context.Context, url string) error {
	if err := m.simulate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.RegisteredWebhooks = append(m.RegisteredWebhooks, url)
	m.mu.Unlock()
	return nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
