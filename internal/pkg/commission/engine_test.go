package commission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/TierPay/app/models"
)

func engineInput() Input {
	s := sale()
	p := product()
	seller := sellerAgency()
	return Input{
		Sale:      &s,
		Product:   &p,
		Seller:    &seller,
		Ancestors: []models.Agency{middleAgency(), rootAgency()},
		Settings:  models.DefaultSettingsSnapshot(),
	}
}

func TestEngineComputeChain(t *testing.T) {
	rows, err := NewEngine().Compute(engineInput())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	seller := rows[0]
	assert.Equal(t, uint(3), seller.AgencyID)
	assert.Equal(t, models.CommissionTypeSale, seller.CommissionType)
	assert.Equal(t, "2026-09", seller.SettlementMonth)
	assert.Equal(t, int64(10000), seller.BaseAmount)
	assert.Equal(t, int64(200), seller.InvoiceDeduction)
	assert.Equal(t, int64(1021), seller.WithholdingTax)
	assert.Equal(t, int64(8779), seller.FinalAmount)
	assert.Equal(t, models.CommissionStatusConfirmed, seller.Status)

	middle := rows[1]
	assert.Equal(t, uint(2), middle.AgencyID)
	assert.Equal(t, models.CommissionTypeHierarchyBonus, middle.CommissionType)
	assert.Equal(t, int64(0), middle.BaseAmount)
	assert.Equal(t, int64(1500), middle.TierBonus)
	assert.Equal(t, int64(0), middle.InvoiceDeduction)
	assert.Equal(t, int64(0), middle.WithholdingTax)
	assert.Equal(t, int64(1500), middle.FinalAmount)

	root := rows[2]
	assert.Equal(t, uint(1), root.AgencyID)
	assert.Equal(t, int64(2000), root.TierBonus)
	assert.Equal(t, int64(40), root.InvoiceDeduction)
	assert.Equal(t, int64(1960), root.FinalAmount)

	for _, r := range rows {
		assert.Equal(t, models.DefaultSettingsSnapshot(), r.SettingsSnapshot)
		assert.Equal(t, uint(100), r.SaleID)
	}
}

func TestEngineCampaignBonusGoesToSeller(t *testing.T) {
	limit := int64(3000)
	in := engineInput()
	in.Campaigns = []models.Campaign{
		{
			ID: 1, IsActive: true, BonusType: models.CampaignBonusPercentage, BonusRate: 500,
			MaxBonusPerAgency: &limit,
			ValidFrom:         saleDate.AddDate(0, 0, -1), ValidTo: saleDate.AddDate(0, 0, 1),
		},
		{
			ID: 2, IsActive: true, BonusType: models.CampaignBonusFixed, BonusAmount: 1000,
			TargetTiers: []int{3},
			ValidFrom:   saleDate.AddDate(0, 0, -1), ValidTo: saleDate.AddDate(0, 0, 1),
		},
		{
			ID: 3, IsActive: true, BonusType: models.CampaignBonusFixed, BonusAmount: 9999,
			TargetProductIDs: []uint{99},
			ValidFrom:        saleDate.AddDate(0, 0, -1), ValidTo: saleDate.AddDate(0, 0, 1),
		},
		{
			ID: 4, IsActive: true, BonusType: models.CampaignBonusFixed, BonusAmount: 9999,
			ValidFrom: saleDate.AddDate(0, -1, 0), ValidTo: saleDate,
		},
	}

	rows, err := NewEngine().Compute(in)
	require.NoError(t, err)

	seller := rows[0]
	assert.Equal(t, int64(4000), seller.CampaignBonus)
	assert.Equal(t, int64(200), seller.InvoiceDeduction)
	assert.Equal(t, int64(1429), seller.WithholdingTax)
	assert.Equal(t, int64(12371), seller.FinalAmount)
	for _, r := range rows[1:] {
		assert.Equal(t, int64(0), r.CampaignBonus)
	}
}

func TestEngineRowPerChainMember(t *testing.T) {
	tests := []struct {
		name      string
		ancestors []models.Agency
		want      int
	}{
		{"root seller", nil, 1},
		{"one parent", []models.Agency{rootAgency()}, 2},
		{"two parents", []models.Agency{middleAgency(), rootAgency()}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := engineInput()
			in.Ancestors = tt.ancestors
			rows, err := NewEngine().Compute(in)
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestEngineRejectsInvalidInput(t *testing.T) {
	in := engineInput()
	in.Sale.Status = models.SaleStatusCancelled
	_, err := NewEngine().Compute(in)
	assert.ErrorIs(t, err, ErrSaleNotEligible)

	in = engineInput()
	in.Product = nil
	_, err = NewEngine().Compute(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = engineInput()
	in.Seller.Tier = 7
	_, err = NewEngine().Compute(in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEngineClampsFinalAmount(t *testing.T) {
	in := engineInput()
	in.Ancestors = nil
	in.Settings.WithholdingTaxRate = 9900
	in.Settings.NonInvoiceDeductionRate = 5000

	rows, err := NewEngine().Compute(in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows[0].FinalAmount)
}

func TestEngineSettlementMonthFollowsSaleDate(t *testing.T) {
	in := engineInput()
	in.Sale.SaleDate = time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	rows, err := NewEngine().Compute(in)
	require.NoError(t, err)
	assert.Equal(t, "2026-12", rows[0].SettlementMonth)
}
