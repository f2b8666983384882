package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a commission repository backed by GORM.
func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) ListBySale(ctx context.Context, saleID uint) ([]models.Commission, error) {
	var rows []models.Commission
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id ASC").Find(&rows).Error
	return rows, err
}

// Upsert inserts or updates the row identified by (sale_id, agency_id).
func (r *commissionRepository) Upsert(ctx context.Context, c *models.Commission) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "sale_id"},
			{Name: "agency_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"commission_type",
			"settlement_month",
			"base_amount",
			"tier_bonus",
			"campaign_bonus",
			"invoice_deduction",
			"withholding_tax",
			"final_amount",
			"status",
			"settings_snapshot",
			"updated_at",
		}),
	}).Create(c).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return db.Where("sale_id = ? AND agency_id = ?", c.SaleID, c.AgencyID).First(c).Error
}

func (r *commissionRepository) DeleteBySale(ctx context.Context, saleID uint) error {
	return r.db.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&models.Commission{}).Error
}

func (r *commissionRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Commission{}).Error
}

func (r *commissionRepository) ListByMonth(ctx context.Context, month string, statuses []string) ([]models.Commission, error) {
	var rows []models.Commission
	q := r.db.WithContext(ctx).Where("settlement_month = ?", month)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("agency_id ASC, id ASC").Find(&rows).Error
	return rows, err
}

// MarkPaid moves every matching row to paid in a single statement.
func (r *commissionRepository) MarkPaid(ctx context.Context, month string, agencyIDs []uint, fromStatuses []string, paidAt time.Time, paidBy string) (int64, error) {
	if len(agencyIDs) == 0 || len(fromStatuses) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("settlement_month = ? AND agency_id IN ? AND status IN ?", month, agencyIDs, fromStatuses).
		Updates(map[string]interface{}{
			"status":  models.CommissionStatusPaid,
			"paid_at": paidAt,
			"paid_by": paidBy,
		})
	return tx.RowsAffected, tx.Error
}

// CarryForward defers matching rows to nextMonth, remembering where they came from.
func (r *commissionRepository) CarryForward(ctx context.Context, month, nextMonth string, agencyIDs []uint, fromStatuses []string) (int64, error) {
	if len(agencyIDs) == 0 || len(fromStatuses) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("settlement_month = ? AND agency_id IN ? AND status IN ?", month, agencyIDs, fromStatuses).
		Updates(map[string]interface{}{
			"status":             models.CommissionStatusCarriedForward,
			"settlement_month":   nextMonth,
			"carried_from_month": gorm.Expr("CASE WHEN carried_from_month = '' THEN ? ELSE carried_from_month END", month),
		})
	return tx.RowsAffected, tx.Error
}
