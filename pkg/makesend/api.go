package makesend

import (
	"context"
)

// APIClient defines the interface for Makesend API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// CreateOrder creates a delivery order with one or more shipments.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)

	// GetTracking retrieves tracking information for a shipment.
	GetTracking(ctx context.Context, trackingID string) (*TrackingResponse, error)

	// CalculateFee calculates the delivery fee before creating an order.
	CalculateFee(ctx context.Context, req *CalculateFeeRequest) (*CalculateFeeResponse, error)

	// CancelShipment cancels one or more shipments by tracking ID.
	CancelShipment(ctx context.Context, trackingIDs []string) (*CancelShipmentResponse, error)

	// CheckPromoCode validates a promotion code and returns the discount.
	CheckPromoCode(ctx context.Context, req *PromotionCheckRequest) (*PromotionCheckResponse, error)

	// SetupStatusWebhook registers the URL Makesend pushes status updates to.
	SetupStatusWebhook(ctx context.Context, url string) error

	// SetupParcelSizeWebhook registers the URL for parcel size adjustments.
	SetupParcelSizeWebhook(ctx context.Context, url string) error
}

// ============================================================================
// Reference enumerations (Makesend parcel size / type / temperature tables)
// ============================================================================

// ParcelSize is a Makesend parcel size ID.
type ParcelSize int

const (
	ParcelSizeENV   ParcelSize = 1  // Envelope
	ParcelSizePolyM ParcelSize = 2  // Polymer Bag (M)
	ParcelSizePolyL ParcelSize = 3  // Polymer Bag (L)
	ParcelSizeS40   ParcelSize = 4  // Mini
	ParcelSizeS60   ParcelSize = 5  // S
	ParcelSizeS80   ParcelSize = 6  // S+
	ParcelSizeS100  ParcelSize = 7  // M
	ParcelSizeS120  ParcelSize = 8  // L
	ParcelSizeS140  ParcelSize = 9
	ParcelSizeS160  ParcelSize = 10 // XL
	ParcelSizeS180  ParcelSize = 11
	ParcelSizeS200  ParcelSize = 12 // XXL
)

// ParcelSizeFromCode maps a parcel size code ("s80", "env", ...) to its ID.
// The second return is false for unknown codes.
func ParcelSizeFromCode(code string) (ParcelSize, bool) {
	size, ok := parcelSizeCodes[code]
	return size, ok
}

// Code returns the lower-case size code, or "" for an unknown size.
func (p ParcelSize) Code() string {
	for code, size := range parcelSizeCodes {
		if size == p {
			return code
		}
	}
	return ""
}

var parcelSizeCodes = map[string]ParcelSize{
	"env":   ParcelSizeENV,
	"polym": ParcelSizePolyM,
	"polyl": ParcelSizePolyL,
	"s40":   ParcelSizeS40,
	"s60":   ParcelSizeS60,
	"s80":   ParcelSizeS80,
	"s100":  ParcelSizeS100,
	"s120":  ParcelSizeS120,
	"s140":  ParcelSizeS140,
	"s160":  ParcelSizeS160,
	"s180":  ParcelSizeS180,
	"s200":  ParcelSizeS200,
}

// ParcelType is a Makesend parcel contents category.
type ParcelType string

const (
	ParcelTypeDocument    ParcelType = "document"
	ParcelTypeCake        ParcelType = "cake"
	ParcelTypeSnack       ParcelType = "snack"
	ParcelTypeFruit       ParcelType = "fruit"
	ParcelTypeDrink       ParcelType = "drink"
	ParcelTypeClothe      ParcelType = "clothe"
	ParcelTypeInstrument  ParcelType = "instrument"
	ParcelTypeCosmetics   ParcelType = "cosmetics"
	ParcelTypeToy         ParcelType = "toy"
	ParcelTypeBaby        ParcelType = "baby"
	ParcelTypeSport       ParcelType = "sport"
	ParcelTypeTree        ParcelType = "tree"
	ParcelTypeAutopart    ParcelType = "autopart"
	ParcelTypeGame        ParcelType = "game"
	ParcelTypePet         ParcelType = "pet"
	ParcelTypeFurniture   ParcelType = "furniture"
	ParcelTypeBakery      ParcelType = "bakery"
	ParcelTypeFood        ParcelType = "food"
	ParcelTypeElectronics ParcelType = "electronics"
	ParcelTypeITDevice    ParcelType = "itdevice"
	ParcelTypeFragile     ParcelType = "fragile"
	ParcelTypeMedical     ParcelType = "medical"
	ParcelTypeWine        ParcelType = "wine"
	ParcelTypeAlcohol     ParcelType = "alcohol"
	ParcelTypeOther       ParcelType = "other"
)

// Temperature is the cold-chain requirement of a shipment.
type Temperature int

const (
	TemperatureNormal Temperature = 0
	TemperatureChill  Temperature = 1
	TemperatureFrozen Temperature = 2
)

// PickupType selects between courier pickup and branch drop-off.
type PickupType int

const (
	PickupAtSender PickupType = 0
	DropAtBranch   PickupType = 1
)

// PickupTimeSlot is a Makesend pickup time slot ID.
type PickupTimeSlot int

const (
	Slot8To10  PickupTimeSlot = 1
	Slot10To12 PickupTimeSlot = 2
	Slot12To14 PickupTimeSlot = 3
)

// StatusCode is a Makesend shipment lifecycle status.
type StatusCode string

const (
	StatusPending         StatusCode = "PENDING"
	StatusShipped         StatusCode = "SHIPPED"
	StatusArrivedHub      StatusCode = "ARRIVED_HUB"
	StatusSorted          StatusCode = "SORTED"
	StatusNotFound        StatusCode = "NOT_FOUND"
	StatusRotating        StatusCode = "ROTATING"
	StatusDelivering      StatusCode = "DELIVERING"
	StatusDelivered       StatusCode = "DELIVERED"
	StatusDeliveringDelay StatusCode = "DELIVERING_DELAY"
	StatusDeliveredDelay  StatusCode = "DELIVERED_DELAY"
	StatusDeliveryFailed  StatusCode = "DELIVERY_FAILED"
	StatusDeliveringRe    StatusCode = "DELIVERING_RE"
	StatusDeliveredRe     StatusCode = "DELIVERED_RE"
	StatusReturned        StatusCode = "RETURNED"
	StatusReturning       StatusCode = "RETURNING"
	StatusCanceled        StatusCode = "CANCELED"
)

// StatusIDs maps status codes to Makesend's numeric status IDs.
var StatusIDs = map[StatusCode]int{
	StatusPending:         100,
	StatusShipped:         200,
	StatusArrivedHub:      201,
	StatusSorted:          202,
	StatusNotFound:        203,
	StatusRotating:        204,
	StatusDelivering:      300,
	StatusDelivered:       301,
	StatusDeliveringDelay: 302,
	StatusDeliveredDelay:  303,
	StatusDeliveryFailed:  304,
	StatusDeliveringRe:    305,
	StatusDeliveredRe:     306,
	StatusReturned:        400,
	StatusReturning:       401,
	StatusCanceled:        999,
}

// ============================================================================
// Request types (match the Makesend JSON API)
// ============================================================================

// Shipment is a single shipment line in an order-creation request.
// All monetary fields are in satang (1/100 baht).
type Shipment struct {
	ParcelSize    ParcelSize  `json:"parcelSize"`
	ParcelType    ParcelType  `json:"parcelType"`
	ReceiverName  string      `json:"receiverName"`
	ReceiverPhone string      `json:"receiverPhone"`
	DropAddress   string      `json:"dropAddress"`
	DropProvince  int         `json:"dropProvince"`
	DropDistrict  int         `json:"dropDistrict"`
	DropPostcode  string      `json:"dropPostcode"`
	COD           int64       `json:"cod"`
	Temperature   Temperature `json:"temp"`
	Note          string      `json:"note"`
	AliasID       string      `json:"aliasID"`
}

// CreateOrderRequest creates a delivery order.
type CreateOrderRequest struct {
	DeliveryDate   string         `json:"deliveryDate"` // YYYY-MM-DD
	SenderName     string         `json:"senderName"`
	SenderPhone    string         `json:"senderPhone"`
	PickupAddress  string         `json:"pickupAddress"`
	PickupProvince int            `json:"pickupProvince"`
	PickupDistrict int            `json:"pickupDistrict"`
	PickupPostcode string         `json:"pickupPostcode"`
	PickupType     PickupType     `json:"pickupType"`
	Branch         int            `json:"branch"` // 0 = pickup at sender
	PickupTime     PickupTimeSlot `json:"pickupTime"`
	PromoCode      string         `json:"promocode,omitempty"`
	Shipment       []Shipment     `json:"shipment"`
}

// CalculateFeeRequest asks for a delivery fee quote.
type CalculateFeeRequest struct {
	OriginProvinceID      int         `json:"originProvinceID"`
	OriginDistrictID      int         `json:"originDistrictID"`
	DestinationProvinceID int         `json:"destinationProvinceID"`
	DestinationDistrictID int         `json:"destinationDistrictID"`
	COD                   int64       `json:"cod"`
	Temperature           Temperature `json:"temp"`
	ParcelSize            ParcelSize  `json:"parcelSize"`
	ParcelType            ParcelType  `json:"parcelType,omitempty"`
}

// PromotionShipment describes one shipment in a promotion check.
type PromotionShipment struct {
	DestinationProvinceID int   `json:"destinationProvinceID"`
	COD                   int64 `json:"cod"`
	Temperature           bool  `json:"temp"`
	ParcelSize            int   `json:"parcelSize"`
}

// PromotionCheckRequest validates a promotion code.
type PromotionCheckRequest struct {
	Shipment         []PromotionShipment `json:"shipment"`
	OriginProvinceID int                 `json:"originProvinceID"`
	Code             string              `json:"code"`
}

// ============================================================================
// Response types
// ============================================================================

// CreatedShipment is one shipment in an order-creation response.
type CreatedShipment struct {
	TrackingID    string `json:"trackingID"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	AliasID       string `json:"aliasID"`
	DeliveryFee   int64  `json:"deliveryFee"` // satang
}

// CreateOrderResponse is the order-creation response.
type CreateOrderResponse struct {
	ResCode    int               `json:"resCode"`
	Message    string            `json:"message"`
	OrderID    string            `json:"orderID"`
	PickupFee  int64             `json:"pickupFee"`  // satang
	TotalPrice int64             `json:"totalPrice"` // satang
	Shipment   []CreatedShipment `json:"shipment"`
}

// TrackingStep is one event in a shipment's tracking history.
type TrackingStep struct {
	Datetime    string `json:"datetime"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// TrackingResponse is the tracking lookup response.
type TrackingResponse struct {
	ResCode          int            `json:"resCode"`
	Message          string         `json:"message"`
	TrackingID       string         `json:"trackingID"`
	ReceiverName     string         `json:"receiverName"`
	ReceiverPhone    string         `json:"receiverPhone"`
	Address          string         `json:"address"`
	PickupProvince   string         `json:"pickupProvince"`
	PickupDistrict   string         `json:"pickupDistrict"`
	DropProvince     string         `json:"dropProvince"`
	DropDistrict     string         `json:"dropDistrict"`
	PickupProvinceID int            `json:"pickupProvinceID"`
	DropProvinceID   int            `json:"dropProvinceID"`
	Steps            []TrackingStep `json:"step"`
}

// CalculateFeeResponse is the fee quote response. TotalFee is a pointer so
// a missing field can be told apart from a zero fee.
type CalculateFeeResponse struct {
	ResCode                    int    `json:"resCode"`
	Message                    string `json:"message"`
	DeliveryFee                int64  `json:"deliveryFee"`      // satang
	CODFee                     int64  `json:"codFee"`           // satang
	TempFee                    int64  `json:"tempFee"`          // satang
	DefaultPickupFee           int64  `json:"defaultPickupFee"` // satang
	MinimumParcelForPickupFree int    `json:"minimumParcelForPickupFree"`
	TotalFee                   *int64 `json:"totalFee"` // satang
}

// CancelResult buckets tracking IDs by cancellation outcome.
type CancelResult struct {
	InvalidTrackingID []string `json:"invalidTrackingID"`
	OverCancelLimit   []string `json:"overCencelTimeLimit"` // spelled as the API spells it
	CancelSuccess     []string `json:"cancelSuccess"`
	AlreadyCancelled  []string `json:"alreadyCancel"`
}

// CancelShipmentResponse is the cancellation response. This endpoint signals
// success through "status" rather than "resCode".
type CancelShipmentResponse struct {
	Data    CancelResult `json:"data"`
	Status  int          `json:"status"`
	Message string       `json:"message"`
}

// PromotionCheckResponse is the promotion check response.
type PromotionCheckResponse struct {
	ResCode        int    `json:"resCode"`
	Message        string `json:"message"`
	DiscountAmount int64  `json:"discountAmount"` // satang
}

// StatusWebhookPayload is pushed by Makesend on shipment status changes.
type StatusWebhookPayload struct {
	TrackingID string `json:"trackingID"`
	AliasID    string `json:"aliasID"`
	StatusID   int    `json:"statusID"`
	StatusCode string `json:"statusCode"`
	StatusName string `json:"statusName"`
	Datetime   string `json:"datetime"`
}

// ParcelSizeWebhookPayload is pushed when a shipment's measured size differs
// from the declared size.
type ParcelSizeWebhookPayload struct {
	TrackingID string `json:"trackingID"`
	AliasID    string `json:"aliasID"`
	SizeID     int    `json:"sizeID"`
	SizeCode   string `json:"sizeCode"`
	SizeName   string `json:"sizeName"`
	ExtraFee   int64  `json:"extraFee"` // satang
	Datetime   string `json:"datetime"`
}
