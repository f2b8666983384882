package repository

import (
	"context"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
)

type paymentRecordRepository struct {
	db *gorm.DB
}

// NewPaymentRecordRepository creates a new payment record repository instance
func NewPaymentRecordRepository(db *gorm.DB) PaymentRecordRepository {
	return &paymentRecordRepository{db: db}
}

func (r *paymentRecordRepository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *paymentRecordRepository) ListByMonth(ctx context.Context, month string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).Where("settlement_month = ?", month).Order("id ASC").Find(&records).Error
	return records, err
}
