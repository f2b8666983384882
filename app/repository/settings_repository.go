package repository

import (
	"context"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
)

// settingsRepository implements the SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository instance
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// ListVersions returns every settings version, newest first
func (r *settingsRepository) ListVersions(ctx context.Context) ([]models.CommissionSettings, error) {
	var versions []models.CommissionSettings
	err := r.db.WithContext(ctx).Order("version DESC").Find(&versions).Error
	return versions, err
}

// Publish stores next as the new active version and closes the previous one
func (r *settingsRepository) Publish(ctx context.Context, next *models.CommissionSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&models.CommissionSettings{}).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.CommissionSettings{}).
			Where("is_active = ? AND (valid_to IS NULL OR valid_to > ?)", true, next.ValidFrom).
			Update("valid_to", next.ValidFrom).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CommissionSettings{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		next.ID = 0
		next.Version = maxVersion + 1
		next.IsActive = true
		return tx.Create(next).Error
	})
}
