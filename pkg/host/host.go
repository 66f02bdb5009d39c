// Package host defines the contract between this bridge and the commerce
// platform it plugs into. The platform's persistence and workflow runtime
// are external collaborators, consumed through the interfaces below.
package host

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Address is a platform address. Free-text fields may contain anything a
// customer typed, including mixed Thai/English province names.
type Address struct {
	FirstName   string
	LastName    string
	Company     string
	Address1    string
	Address2    string
	City        string
	Province    string
	PostalCode  string
	Phone       string
	CountryCode string
}

// StockLocation is a warehouse or pickup point with an optional address.
type StockLocation struct {
	ID      string
	Name    string
	Address *Address
}

// OptionData is the stored data of a fulfillment/shipping option.
// Temperature is nil when the option does not carry one directly, in which
// case it is derived from the option identifier.
type OptionData struct {
	ID          string
	Name        string
	Temperature *int
}

// ShippingOption is a platform shipping option referencing a fulfillment
// option of this provider.
type ShippingOption struct {
	ID   string
	Name string
	Data OptionData
}

// FulfillmentData is the per-fulfillment data validated and stored when a
// fulfillment is created.
type FulfillmentData struct {
	Temperature *int
	ParcelSize  *int
	ParcelType  string
	Note        string
}

// FulfillmentItem is one line of a fulfillment.
type FulfillmentItem struct {
	Title    string
	SKU      string
	Barcode  string
	Quantity int
}

// Order is the slice of the platform order a fulfillment provider sees.
type Order struct {
	ID              string
	ShippingAddress *Address
}

// Fulfillment is a platform fulfillment record. TrackingNumber and the
// carrier identifiers are set once after a successful carrier call and
// never mutated, only supplemented by webhook status fields.
type Fulfillment struct {
	ID               string
	LocationID       string
	ShippingOptionID string
	OrderID          string
	TrackingNumber   string
	AliasID          string
	CarrierOrderID   string
	DeliveryFee      int64 // satang
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	Data             map[string]string
}

// FulfillmentOption is one option this provider offers at checkout.
type FulfillmentOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Temperature int    `json:"temperature"`
	ParcelSizes []int  `json:"parcelSizes"`
}

// Label is a tracking/label reference attached to a fulfillment.
type Label struct {
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	LabelURL       string `json:"label_url"`
}

// FulfillmentResultData is the carrier data stored with a fulfillment.
type FulfillmentResultData struct {
	OrderID        string `json:"id"`
	TrackingNumber string `json:"trackingNumber"`
	AliasID        string `json:"aliasId"`
	DeliveryFee    int64  `json:"deliveryFee"`
}

// CreateFulfillmentResult is returned by CreateFulfillment.
type CreateFulfillmentResult struct {
	Data   FulfillmentResultData
	Labels []Label
}

// CancelFulfillmentResult is returned by CancelFulfillment.
type CancelFulfillmentResult struct {
	Cancelled        bool
	AlreadyCancelled bool
	NoCarrierOrder   bool
	TrackingID       string
}

// CalculatedPrice is the result of a shipping price calculation, in the
// store's major currency unit.
type CalculatedPrice struct {
	CalculatedAmount decimal.Decimal
	TaxInclusive     bool
}

// PriceData is caller-supplied data for a price calculation.
type PriceData struct {
	COD                   int64
	ParcelSize            *int
	ParcelType            string
	OriginDistrictID      int
	DestinationDistrictID int
}

// PriceContext carries the origin location and destination address of a
// price calculation.
type PriceContext struct {
	FromLocation    *StockLocation
	ShippingAddress *Address
}

// TrackingUpdate supplements a fulfillment's data with webhook-reported
// status fields.
type TrackingUpdate struct {
	Status             string
	UpdatedAt          string
	FailureReason      string
	CancellationReason string
	ReturnReason       string
}

// StockLocationService retrieves stock locations from the platform.
type StockLocationService interface {
	Retrieve(ctx context.Context, id string) (*StockLocation, error)
}

// ShippingOptionService retrieves shipping options from the platform.
type ShippingOptionService interface {
	Retrieve(ctx context.Context, id string) (*ShippingOption, error)
}

// FulfillmentUpdater applies shipment state transitions to platform
// fulfillment records. Implementations must be idempotent: cancelling an
// absent fulfillment or re-marking a shipped one is not an error.
type FulfillmentUpdater interface {
	// FindByTracking locates a fulfillment by carrier tracking ID, falling
	// back to the alias ID. Returns nil (not an error) when none matches.
	FindByTracking(ctx context.Context, trackingID, aliasID string) (*Fulfillment, error)

	MarkShipped(ctx context.Context, fulfillmentID string, at time.Time, update TrackingUpdate) error
	MarkDelivered(ctx context.Context, fulfillmentID string) error
	UpdateTrackingData(ctx context.Context, fulfillmentID string, update TrackingUpdate) error
	CancelFulfillment(ctx context.Context, fulfillmentID string) error
}

// Provider is the fulfillment-provider capability surface the platform
// requires. This bridge's adapter implements it for Makesend.
type Provider interface {
	GetFulfillmentOptions(ctx context.Context) ([]FulfillmentOption, error)
	ValidateFulfillmentData(ctx context.Context, optionData OptionData, data FulfillmentData) (FulfillmentData, error)
	ValidateOption(ctx context.Context, data OptionData) bool
	CanCalculate(ctx context.Context, data OptionData) bool
	CalculatePrice(ctx context.Context, optionData OptionData, data PriceData, pctx PriceContext) (CalculatedPrice, error)
	CreateFulfillment(ctx context.Context, data FulfillmentData, items []FulfillmentItem, order *Order, fulfillment *Fulfillment) (*CreateFulfillmentResult, error)
	CancelFulfillment(ctx context.Context, fulfillment *Fulfillment) (*CancelFulfillmentResult, error)
	GetFulfillmentDocuments(ctx context.Context, data FulfillmentData) ([]Label, error)
	CreateReturnFulfillment(ctx context.Context, fulfillment *Fulfillment) (*CreateFulfillmentResult, error)
}
