package host

import (
	"context"
	"sync"
	"time"
)

// MockStockLocationService is an in-memory StockLocationService for tests
// and for running the bridge without a platform attached.
type MockStockLocationService struct {
	Locations  map[string]*StockLocation
	OnRetrieve func(ctx context.Context, id string) (*StockLocation, error)
}

// NewMockStockLocationService creates an empty mock.
func NewMockStockLocationService() *MockStockLocationService {
	return &MockStockLocationService{Locations: make(map[string]*StockLocation)}
}

// Retrieve returns the registered location or a not-found error.
func (m *MockStockLocationService) Retrieve(ctx context.Context, id string) (*StockLocation, error) {
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, id)
	}
	if loc, ok := m.Locations[id]; ok {
		return loc, nil
	}
	return nil, NewError(ErrNotFound, "stock location %s not found", id)
}

// MockShippingOptionService is an in-memory ShippingOptionService.
type MockShippingOptionService struct {
	Options    map[string]*ShippingOption
	OnRetrieve func(ctx context.Context, id string) (*ShippingOption, error)
}

// NewMockShippingOptionService creates an empty mock.
func NewMockShippingOptionService() *MockShippingOptionService {
	return &MockShippingOptionService{Options: make(map[string]*ShippingOption)}
}

// Retrieve returns the registered option or a not-found error.
func (m *MockShippingOptionService) Retrieve(ctx context.Context, id string) (*ShippingOption, error) {
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, id)
	}
	if opt, ok := m.Options[id]; ok {
		return opt, nil
	}
	return nil, NewError(ErrNotFound, "shipping option %s not found", id)
}

// MockFulfillmentUpdater is an in-memory FulfillmentUpdater recording every
// transition it was asked to apply.
type MockFulfillmentUpdater struct {
	mu           sync.Mutex
	Fulfillments map[string]*Fulfillment

	ShippedIDs   []string
	DeliveredIDs []string
	CancelledIDs []string
	Updates      map[string][]TrackingUpdate
}

// NewMockFulfillmentUpdater creates an empty mock.
func NewMockFulfillmentUpdater() *MockFulfillmentUpdater {
	return &MockFulfillmentUpdater{
		Fulfillments: make(map[string]*Fulfillment),
		Updates:      make(map[string][]TrackingUpdate),
	}
}

// Add registers a fulfillment.
func (m *MockFulfillmentUpdater) Add(f *Fulfillment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fulfillments[f.ID] = f
}

// FindByTracking matches on tracking number first, then alias ID.
func (m *MockFulfillmentUpdater) FindByTracking(ctx context.Context, trackingID, aliasID string) (*Fulfillment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.Fulfillments {
		if trackingID != "" && f.TrackingNumber == trackingID {
			return f, nil
		}
	}
	for _, f := range m.Fulfillments {
		if aliasID != "" && (f.AliasID == aliasID || f.ID == aliasID) {
			return f, nil
		}
	}
	return nil, nil
}

// MarkShipped records the transition and stamps ShippedAt once.
func (m *MockFulfillmentUpdater) MarkShipped(ctx context.Context, fulfillmentID string, at time.Time, update TrackingUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShippedIDs = append(m.ShippedIDs, fulfillmentID)
	if f, ok := m.Fulfillments[fulfillmentID]; ok && f.ShippedAt == nil {
		f.ShippedAt = &at
	}
	m.Updates[fulfillmentID] = append(m.Updates[fulfillmentID], update)
	return nil
}

// MarkDelivered records the transition and stamps DeliveredAt once.
func (m *MockFulfillmentUpdater) MarkDelivered(ctx context.Context, fulfillmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveredIDs = append(m.DeliveredIDs, fulfillmentID)
	if f, ok := m.Fulfillments[fulfillmentID]; ok && f.DeliveredAt == nil {
		now := time.Now()
		f.DeliveredAt = &now
	}
	return nil
}

// UpdateTrackingData records the update.
func (m *MockFulfillmentUpdater) UpdateTrackingData(ctx context.Context, fulfillmentID string, update TrackingUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates[fulfillmentID] = append(m.Updates[fulfillmentID], update)
	return nil
}

// CancelFulfillment records the cancellation. Cancelling an unknown
// fulfillment is a no-op, keeping the operation idempotent.
func (m *MockFulfillmentUpdater) CancelFulfillment(ctx context.Context, fulfillmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Fulfillments[fulfillmentID]; !ok {
		return nil
	}
	m.CancelledIDs = append(m.CancelledIDs, fulfillmentID)
	return nil
}

var (
	_ StockLocationService  = (*MockStockLocationService)(nil)
	_ ShippingOptionService = (*MockShippingOptionService)(nil)
	_ FulfillmentUpdater    = (*MockFulfillmentUpdater)(nil)
)
