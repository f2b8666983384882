package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/TierPay/app/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCommissionListByMonth(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommissionRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `commissions` WHERE settlement_month = \\? AND status IN \\(\\?,\\?\\) ORDER BY agency_id ASC, id ASC").
		WithArgs("2026-09", models.CommissionStatusApproved, models.CommissionStatusCarriedForward).
		WillReturnRows(sqlmock.NewRows([]string{"id", "agency_id", "settlement_month", "status", "final_amount"}).
			AddRow(1, 3, "2026-09", models.CommissionStatusApproved, 8779).
			AddRow(2, 3, "2026-09", models.CommissionStatusCarriedForward, 1200))

	rows, err := repo.ListByMonth(context.Background(), "2026-09",
		[]string{models.CommissionStatusApproved, models.CommissionStatusCarriedForward})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(8779), rows[0].FinalAmount)
	assert.Equal(t, models.CommissionStatusCarriedForward, rows[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionMarkPaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommissionRepository(db)

	mock.ExpectExec("UPDATE `commissions` SET .* WHERE settlement_month = \\? AND agency_id IN \\(\\?,\\?\\) AND status IN \\(\\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.MarkPaid(context.Background(), "2026-09", []uint{1, 3},
		[]string{models.CommissionStatusApproved}, time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionCarryForward(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommissionRepository(db)

	mock.ExpectExec("UPDATE `commissions` SET .*carried_from_month.*CASE WHEN").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.CarryForward(context.Background(), "2026-09", "2026-10", []uint{7},
		[]string{models.CommissionStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommissionBulkOperationsSkipEmptySelections(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommissionRepository(db)
	ctx := context.Background()

	n, err := repo.MarkPaid(ctx, "2026-09", nil, []string{models.CommissionStatusApproved}, time.Now(), "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.CarryForward(ctx, "2026-09", "2026-10", []uint{1}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.DeleteByIDs(ctx, nil))

	agencies, err := NewAgencyRepository(db).GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, agencies)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyGetByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgencyRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `agencies` WHERE id IN \\(\\?,\\?\\)").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "tier"}).AddRow(1, "Root", 1))

	got, err := repo.GetByIDs(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Root", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsListVersions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `commission_settings` ORDER BY version DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "withholding_tax_rate"}).
			AddRow(2, 2, 1021).
			AddRow(1, 1, 1000))

	versions, err := repo.ListVersions(context.Background())
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, models.Rate(1021), versions[0].WithholdingTaxRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsPublish(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingsRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM `commission_settings`").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(2))
	mock.ExpectExec("UPDATE `commission_settings` SET `valid_to`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `commission_settings` SET `is_active`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `commission_settings`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	next := &models.CommissionSettings{
		ValidFrom:          time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		MinimumPayable:     10000,
		WithholdingTaxRate: 1021,
		CreatedBy:          "alice",
	}
	require.NoError(t, repo.Publish(context.Background(), next))
	assert.Equal(t, 3, next.Version)
	assert.Equal(t, uint(3), next.ID)
	assert.True(t, next.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRecordListByMonth(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRecordRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `payment_records` WHERE settlement_month = \\? ORDER BY id ASC").
		WithArgs("2026-09").
		WillReturnRows(sqlmock.NewRows([]string{"id", "batch_id", "agency_id", "total_amount"}).
			AddRow(1, "b-1", 3, 50000))

	records, err := repo.ListByMonth(context.Background(), "2026-09")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b-1", records[0].BatchID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
