package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/pkg/host"
	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// webhookAck is returned for every accepted delivery. The carrier retries
// on non-200 answers, so the body carries diagnostics instead of status
// codes carrying them.
type webhookAck struct {
	Message string `json:"message"`
}

// handleStatusWebhook applies a carrier status change to the matching
// fulfillment. Unknown tracking IDs and unknown statuses are acknowledged
// and dropped: the carrier must never retry those.
func (s *Server) handleStatusWebhook(c echo.Context) error {
	var payload makesend.StatusWebhookPayload
	if err := c.Bind(&payload); err != nil {
		s.countWebhook("status", "malformed")
		return c.JSON(http.StatusBadRequest, webhookAck{Message: "invalid payload"})
	}
	ctx := c.Request().Context()

	fulfillment, err := s.fulfillments.FindByTracking(ctx, payload.TrackingID, payload.AliasID)
	if err != nil {
		s.countWebhook("status", "error")
		return s.internalError(c, "status_webhook", err)
	}
	if fulfillment == nil {
		s.countWebhook("status", "unmatched")
		s.logger.Ctx(ctx).Warn("Status webhook for unknown shipment",
			zap.String("tracking_id", payload.TrackingID),
			zap.String("alias_id", payload.AliasID),
		)
		return c.JSON(http.StatusOK, webhookAck{Message: "no matching fulfillment"})
	}

	update := host.TrackingUpdate{
		Status:    payload.StatusCode,
		UpdatedAt: payload.Datetime,
	}

	switch makesend.StatusCode(payload.StatusCode) {
	case makesend.StatusShipped:
		err = s.fulfillments.MarkShipped(ctx, fulfillment.ID, eventTime(payload.Datetime), update)

	case makesend.StatusDelivered, makesend.StatusDeliveredDelay, makesend.StatusDeliveredRe:
		if err = s.fulfillments.UpdateTrackingData(ctx, fulfillment.ID, update); err == nil {
			err = s.fulfillments.MarkDelivered(ctx, fulfillment.ID)
		}

	case makesend.StatusDeliveryFailed:
		update.FailureReason = payload.StatusName
		err = s.fulfillments.UpdateTrackingData(ctx, fulfillment.ID, update)

	case makesend.StatusCanceled:
		update.CancellationReason = payload.StatusName
		if err = s.fulfillments.UpdateTrackingData(ctx, fulfillment.ID, update); err == nil {
			err = s.fulfillments.CancelFulfillment(ctx, fulfillment.ID)
		}

	case makesend.StatusReturning, makesend.StatusReturned:
		update.ReturnReason = payload.StatusName
		err = s.fulfillments.UpdateTrackingData(ctx, fulfillment.ID, update)

	case makesend.StatusPending, makesend.StatusArrivedHub, makesend.StatusSorted,
		makesend.StatusNotFound, makesend.StatusRotating, makesend.StatusDelivering,
		makesend.StatusDeliveringDelay, makesend.StatusDeliveringRe:
		err = s.fulfillments.UpdateTrackingData(ctx, fulfillment.ID, update)

	default:
		s.countWebhook("status", "unknown_status")
		s.logger.Ctx(ctx).Warn("Status webhook with unknown status code",
			zap.String("status_code", payload.StatusCode),
			zap.String("tracking_id", payload.TrackingID),
		)
		return c.JSON(http.StatusOK, webhookAck{Message: "unknown status code"})
	}

	if err != nil {
		s.countWebhook("status", "error")
		return s.internalError(c, "status_webhook", err)
	}

	s.countWebhook("status", "applied")
	s.logger.Ctx(ctx).Info("Applied status webhook",
		zap.String("tracking_id", payload.TrackingID),
		zap.String("status_code", payload.StatusCode),
	)
	return c.JSON(http.StatusOK, webhookAck{Message: "ok"})
}

// handleParcelSizeWebhook records a carrier-side parcel remeasurement.
// The platform price is already locked in, so the event is logged for
// reconciliation rather than re-billed.
func (s *Server) handleParcelSizeWebhook(c echo.Context) error {
	var payload makesend.ParcelSizeWebhookPayload
	if err := c.Bind(&payload); err != nil {
		s.countWebhook("parcel_size", "malformed")
		return c.JSON(http.StatusBadRequest, webhookAck{Message: "invalid payload"})
	}
	ctx := c.Request().Context()

	fulfillment, err := s.fulfillments.FindByTracking(ctx, payload.TrackingID, payload.AliasID)
	if err != nil {
		s.countWebhook("parcel_size", "error")
		return s.internalError(c, "parcel_size_webhook", err)
	}
	if fulfillment == nil {
		s.countWebhook("parcel_size", "unmatched")
		return c.JSON(http.StatusOK, webhookAck{Message: "no matching fulfillment"})
	}

	s.countWebhook("parcel_size", "applied")
	s.logger.Ctx(ctx).Warn("Carrier remeasured parcel",
		zap.String("tracking_id", payload.TrackingID),
		zap.String("fulfillment_id", fulfillment.ID),
		zap.String("size_code", payload.SizeCode),
		zap.Int64("extra_fee_satang", payload.ExtraFee),
	)
	return c.JSON(http.StatusOK, webhookAck{Message: "ok"})
}

func (s *Server) countWebhook(kind, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.WebhookEvents.WithLabelValues(kind, outcome).Inc()
}

// eventTime parses the carrier's event timestamp, falling back to now.
func eventTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
