// Package commission turns a recorded sale into per-agency commission rows.
package commission

import (
	"fmt"

	"github.com/ManuelReschke/TierPay/app/models"
)

// Input is everything needed to compute the commissions of one sale.
type Input struct {
	Sale      *models.Sale
	Product   *models.Product
	Seller    *models.Agency
	Ancestors []models.Agency // immediate parent first, root last
	Campaigns []models.Campaign
	Settings  models.SettingsSnapshot
}

// Engine computes commission breakdowns. It has no dependencies and no side effects.
type Engine struct{}

// NewEngine creates a commission engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute returns the seller's row followed by one row per ancestor, in chain order.
// Every step rounds down to whole currency units.
func (e *Engine) Compute(in Input) ([]models.Commission, error) {
	if in.Sale == nil || in.Product == nil || in.Seller == nil {
		return nil, fmt.Errorf("sale, product and seller are required: %w", ErrInvalidInput)
	}
	if in.Seller.Tier < models.MinTier || in.Seller.Tier > models.MaxTier {
		return nil, fmt.Errorf("seller %d has tier %d: %w", in.Seller.ID, in.Seller.Tier, ErrInvalidInput)
	}
	if in.Sale.Status == models.SaleStatusCancelled {
		return nil, fmt.Errorf("sale %d: %w", in.Sale.ID, ErrSaleNotEligible)
	}

	total := in.Sale.TotalAmount
	month := in.Sale.SettlementMonth()
	rows := make([]models.Commission, 0, len(in.Ancestors)+1)

	base := in.Product.RateForTier(in.Seller.Tier).Of(total)
	campaignBonus := e.campaignBonus(in)
	rows = append(rows, e.row(in, in.Seller, models.CommissionTypeSale, month, base, 0, campaignBonus))

	for i := range in.Ancestors {
		ancestor := &in.Ancestors[i]
		tierBonus := in.Settings.BonusRateForTier(ancestor.Tier).Of(total)
		rows = append(rows, e.row(in, ancestor, models.CommissionTypeHierarchyBonus, month, 0, tierBonus, 0))
	}
	return rows, nil
}

func (e *Engine) campaignBonus(in Input) int64 {
	var sum int64
	for i := range in.Campaigns {
		c := &in.Campaigns[i]
		if !c.ActiveOn(in.Sale.SaleDate) {
			continue
		}
		if !c.Matches(in.Product.ID, in.Seller.Tier, in.Seller.ID) {
			continue
		}
		sum += c.BonusFor(in.Sale.TotalAmount)
	}
	return sum
}

func (e *Engine) row(in Input, beneficiary *models.Agency, kind, month string, base, tierBonus, campaignBonus int64) models.Commission {
	var invoiceDeduction, withholding int64
	if !beneficiary.InvoiceRegistered {
		invoiceDeduction = in.Settings.NonInvoiceDeductionRate.Of(base + tierBonus)
	}
	if beneficiary.IsIndividual() {
		withholding = in.Settings.WithholdingTaxRate.Of(base + tierBonus + campaignBonus)
	}

	return models.Commission{
		SaleID:           in.Sale.ID,
		AgencyID:         beneficiary.ID,
		CommissionType:   kind,
		SettlementMonth:  month,
		BaseAmount:       base,
		TierBonus:        tierBonus,
		CampaignBonus:    campaignBonus,
		InvoiceDeduction: invoiceDeduction,
		WithholdingTax:   withholding,
		FinalAmount:      models.ComputeFinal(base, tierBonus, campaignBonus, invoiceDeduction, withholding),
		Status:           models.CommissionStatusConfirmed,
		SettingsSnapshot: in.Settings,
	}
}
