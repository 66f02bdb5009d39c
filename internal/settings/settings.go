// Package settings persists the merchant-facing Makesend configuration:
// sender identity, pickup origin and parcel size policy. A single row
// holds everything; reads fall back to defaults when nothing was saved.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/siamship/makesend-bridge/pkg/makesend"
)

// Settings is the stored Makesend configuration row.
type Settings struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	SenderName  string `json:"senderName" validate:"required"`
	SenderPhone string `json:"senderPhone" validate:"required"`

	PickupAddress    string `json:"pickupAddress" validate:"required"`
	PickupPostcode   string `json:"pickupPostcode" validate:"required,len=5,numeric"`
	OriginProvinceID int    `json:"originProvinceId" validate:"required,min=1,max=77"`
	OriginProvince   string `json:"originProvince"`
	OriginDistrictID int    `json:"originDistrictId" validate:"required,min=1"`
	OriginDistrict   string `json:"originDistrict"`

	// TimeCutoff is the "HH:MM" boundary between the morning and midday
	// pickup slots. Empty means always midday.
	TimeCutoff string `json:"timeCutoff" validate:"omitempty,datetime=15:04"`

	// ParcelSizeCodes is a JSON array of supported size codes ("s80", ...).
	ParcelSizeCodes string `json:"-"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Settings) TableName() string { return "makesend_settings" }

// defaultParcelSizeCodes covers the sizes most merchants ship with.
var defaultParcelSizeCodes = []string{"s80", "s100"}

// Service reads and writes the configuration row.
type Service struct {
	db     *gorm.DB
	logger *otelzap.Logger
}

// Open connects to the sqlite settings database at path and migrates the
// schema. Use ":memory:" for an ephemeral store.
func Open(path string, log *otelzap.Logger) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Settings{}); err != nil {
		return nil, err
	}
	return &Service{db: db, logger: log}, nil
}

// NewService wraps an existing gorm connection. The Settings schema must
// already be migrated.
func NewService(db *gorm.DB, log *otelzap.Logger) *Service {
	return &Service{db: db, logger: log}
}

// Get returns the stored settings, or a defaults-only row when nothing
// has been saved yet.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	var row Settings
	err := s.db.WithContext(ctx).Order("id").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert saves the configuration, replacing any existing row.
func (s *Service) Upsert(ctx context.Context, in *Settings) (*Settings, error) {
	var existing Settings
	err := s.db.WithContext(ctx).Order("id").First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first save
	case err != nil:
		return nil, err
	default:
		in.ID = existing.ID
		in.CreatedAt = existing.CreatedAt
	}

	if err := s.db.WithContext(ctx).Save(in).Error; err != nil {
		return nil, err
	}
	s.logger.Ctx(ctx).Info("Saved Makesend settings",
		zap.String("sender", in.SenderName),
		zap.Int("origin_province_id", in.OriginProvinceID),
	)
	return in, nil
}

// SupportedParcelSizes decodes the configured size codes into carrier
// size IDs, skipping codes the carrier does not know. An empty or broken
// configuration yields the defaults.
func (s *Settings) SupportedParcelSizes() []makesend.ParcelSize {
	codes := defaultParcelSizeCodes
	if s.ParcelSizeCodes != "" {
		var configured []string
		if err := json.Unmarshal([]byte(s.ParcelSizeCodes), &configured); err == nil && len(configured) > 0 {
			codes = configured
		}
	}

	sizes := make([]makesend.ParcelSize, 0, len(codes))
	for _, code := range codes {
		if size, ok := makesend.ParcelSizeFromCode(code); ok {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		sizes = []makesend.ParcelSize{makesend.ParcelSizeS80, makesend.ParcelSizeS100}
	}
	return sizes
}

// DefaultParcelSize is the size used when the platform sends none: the
// first supported one.
func (s *Settings) DefaultParcelSize() makesend.ParcelSize {
	return s.SupportedParcelSizes()[0]
}

// IsSupported reports whether the given size is in the configured set.
func (s *Settings) IsSupported(size makesend.ParcelSize) bool {
	for _, supported := range s.SupportedParcelSizes() {
		if supported == size {
			return true
		}
	}
	return false
}

// SetParcelSizeCodes stores the supported size code list.
func (s *Settings) SetParcelSizeCodes(codes []string) error {
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	s.ParcelSizeCodes = string(raw)
	return nil
}
