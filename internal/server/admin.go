package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/siamship/makesend-bridge/internal/geo"
	"github.com/siamship/makesend-bridge/internal/settings"
)

// settingsRequest is the admin settings payload. Parcel sizes travel as
// carrier size codes.
type settingsRequest struct {
	SenderName       string   `json:"senderName" validate:"required"`
	SenderPhone      string   `json:"senderPhone" validate:"required"`
	PickupAddress    string   `json:"pickupAddress" validate:"required"`
	PickupPostcode   string   `json:"pickupPostcode" validate:"required,len=5,numeric"`
	OriginProvinceID int      `json:"originProvinceId" validate:"required,min=1,max=77"`
	OriginProvince   string   `json:"originProvince"`
	OriginDistrictID int      `json:"originDistrictId" validate:"required,min=1"`
	OriginDistrict   string   `json:"originDistrict"`
	TimeCutoff       string   `json:"timeCutoff" validate:"omitempty,datetime=15:04"`
	ParcelSizeCodes  []string `json:"parcelSizeCodes" validate:"omitempty,dive,required"`
}

type settingsResponse struct {
	settings.Settings
	ParcelSizeCodes []string `json:"parcelSizeCodes"`
}

func (s *Server) handleGetSettings(c echo.Context) error {
	cfg, err := s.settings.Get(c.Request().Context())
	if err != nil {
		return s.internalError(c, "get_settings", err)
	}

	codes := make([]string, 0, len(cfg.SupportedParcelSizes()))
	for _, size := range cfg.SupportedParcelSizes() {
		codes = append(codes, size.Code())
	}
	return c.JSON(http.StatusOK, settingsResponse{Settings: *cfg, ParcelSizeCodes: codes})
}

func (s *Server) handleSaveSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if err := s.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	cfg := &settings.Settings{
		SenderName:       req.SenderName,
		SenderPhone:      req.SenderPhone,
		PickupAddress:    req.PickupAddress,
		PickupPostcode:   req.PickupPostcode,
		OriginProvinceID: req.OriginProvinceID,
		OriginProvince:   req.OriginProvince,
		OriginDistrictID: req.OriginDistrictID,
		OriginDistrict:   req.OriginDistrict,
		TimeCutoff:       req.TimeCutoff,
	}
	if len(req.ParcelSizeCodes) > 0 {
		if err := cfg.SetParcelSizeCodes(req.ParcelSizeCodes); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid parcel size codes"})
		}
	}

	saved, err := s.settings.Upsert(c.Request().Context(), cfg)
	if err != nil {
		return s.internalError(c, "save_settings", err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (s *Server) handleFulfillmentOptions(c echo.Context) error {
	options, err := s.provider.GetFulfillmentOptions(c.Request().Context())
	if err != nil {
		return s.internalError(c, "fulfillment_options", err)
	}
	return c.JSON(http.StatusOK, options)
}

func (s *Server) handleProvinces(c echo.Context) error {
	return c.JSON(http.StatusOK, s.geo.Provinces())
}

func (s *Server) handleDistricts(c echo.Context) error {
	provinceID := 0
	if raw := c.QueryParam("provinceId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "provinceId must be numeric"})
		}
		provinceID = id
	}
	districts := s.geo.Districts(provinceID)
	if districts == nil {
		districts = []geo.District{}
	}
	return c.JSON(http.StatusOK, districts)
}

func (s *Server) handleParcelSizes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.geo.ParcelSizes())
}
