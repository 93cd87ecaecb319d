package repositories

import (
	"errors"
	"fmt"

	"sweetshop/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the single site settings row.
type SettingsRepository interface {
	Get() (*models.SiteSettings, error)
	Save(settings *models.SiteSettings) error
}

// GORMSettingsRepository is a GORM implementation of SettingsRepository.
type GORMSettingsRepository struct {
	db *gorm.DB
}

// NewGORMSettingsRepository creates a new instance of GORMSettingsRepository.
func NewGORMSettingsRepository(db *gorm.DB) *GORMSettingsRepository {
	return &GORMSettingsRepository{db: db}
}

// Get returns the stored settings, or zero settings when none were saved yet.
func (r *GORMSettingsRepository) Get() (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := r.db.First(&settings, models.SiteSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SiteSettings{ID: models.SiteSettingsID, CODEnabled: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *GORMSettingsRepository) Save(settings *models.SiteSettings) error {
	settings.ID = models.SiteSettingsID
	if err := r.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
