package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// handleTrack proxies storefront tracking queries to the carrier. The id
// may be a Makesend tracking ID or the fulfillment alias.
func (s *Server) handleTrack(c echo.Context) error {
	trackingID := c.Param("id")
	if trackingID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "tracking id is required"})
	}

	resp, err := s.provider.Track(c.Request().Context(), trackingID)
	if err != nil {
		var apiErr *makesend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "tracking access denied"})
		}
		s.logger.Ctx(c.Request().Context()).Warn("Tracking lookup failed",
			zap.String("tracking_id", trackingID),
			zap.Error(err),
		)
		return c.JSON(http.StatusNotFound, map[string]string{"message": "shipment not found"})
	}

	return c.JSON(http.StatusOK, resp)
}
