package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository instance
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// ListActiveOn returns active campaigns whose window contains at
func (r *campaignRepository) ListActiveOn(ctx context.Context, at time.Time) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND valid_from <= ? AND valid_to > ?", true, at, at).
		Order("id ASC").
		Find(&campaigns).Error
	return campaigns, err
}

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository instance
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) GetByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Sale{}, id).Error
}
