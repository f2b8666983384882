package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
)

// AgencyRepository reads agencies owned by the agency management service
type AgencyRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Agency, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Agency, error)
}

// ProductRepository reads the product catalog
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

// CampaignRepository reads campaigns from the campaign registry
type CampaignRepository interface {
	ListActiveOn(ctx context.Context, at time.Time) ([]models.Campaign, error)
}

// SaleRepository reads sales. Delete exists only for compensating cleanup.
type SaleRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Sale, error)
	Delete(ctx context.Context, id uint) error
}

// CommissionRepository defines the commission persistence used by the pipeline
type CommissionRepository interface {
	ListBySale(ctx context.Context, saleID uint) ([]models.Commission, error)
	Upsert(ctx context.Context, c *models.Commission) error
	DeleteBySale(ctx context.Context, saleID uint) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	ListByMonth(ctx context.Context, month string, statuses []string) ([]models.Commission, error)
	MarkPaid(ctx context.Context, month string, agencyIDs []uint, fromStatuses []string, paidAt time.Time, paidBy string) (int64, error)
	CarryForward(ctx context.Context, month, nextMonth string, agencyIDs []uint, fromStatuses []string) (int64, error)
}

// SettingsRepository stores versioned commission settings
type SettingsRepository interface {
	ListVersions(ctx context.Context) ([]models.CommissionSettings, error)
	Publish(ctx context.Context, next *models.CommissionSettings) error
}

// PaymentRecordRepository stores payment audit records
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	ListByMonth(ctx context.Context, month string) ([]models.PaymentRecord, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Agency        AgencyRepository
	Product       ProductRepository
	Campaign      CampaignRepository
	Sale          SaleRepository
	Commission    CommissionRepository
	Settings      SettingsRepository
	PaymentRecord PaymentRecordRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Agency:        NewAgencyRepository(db),
		Product:       NewProductRepository(db),
		Campaign:      NewCampaignRepository(db),
		Sale:          NewSaleRepository(db),
		Commission:    NewCommissionRepository(db),
		Settings:      NewSettingsRepository(db),
		PaymentRecord: NewPaymentRecordRepository(db),
	}
}
