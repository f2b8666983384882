package repository

import (
	"context"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
)

// agencyRepository implements the AgencyRepository interface
type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository instance
func NewAgencyRepository(db *gorm.DB) AgencyRepository {
	return &agencyRepository{db: db}
}

// GetByID retrieves an agency by its ID
func (r *agencyRepository) GetByID(ctx context.Context, id uint) (*models.Agency, error) {
	var agency models.Agency
	if err := r.db.WithContext(ctx).First(&agency, id).Error; err != nil {
		return nil, err
	}
	return &agency, nil
}

// GetByIDs loads several agencies at once, keyed by ID. Missing IDs are absent from the map.
func (r *agencyRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Agency, error) {
	out := make(map[uint]models.Agency, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var agencies []models.Agency
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&agencies).Error; err != nil {
		return nil, err
	}
	for _, a := range agencies {
		out[a.ID] = a
	}
	return out, nil
}
