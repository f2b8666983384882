package models

import "time"

const (
	CommissionStatusConfirmed      = "confirmed"
	CommissionStatusApproved       = "approved"
	CommissionStatusPaid           = "paid"
	CommissionStatusCarriedForward = "carried_forward"
)

const (
	CommissionTypeSale           = "sale"
	CommissionTypeHierarchyBonus = "hierarchy_bonus"
)

// MonthLayout is the settlement month format.
const MonthLayout = "2006-01"

// Commission is one (sale, beneficiary agency) obligation.
type Commission struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	SaleID           uint             `gorm:"not null;index:ux_commissions_sale_agency,unique,priority:1" json:"sale_id"`
	AgencyID         uint             `gorm:"not null;index:ux_commissions_sale_agency,unique,priority:2;index:idx_commissions_month_agency,priority:2" json:"agency_id"`
	CommissionType   string           `gorm:"type:varchar(20);not null" json:"commission_type"`
	SettlementMonth  string           `gorm:"type:varchar(7);not null;index:idx_commissions_month_agency,priority:1" json:"settlement_month"`
	BaseAmount       int64            `gorm:"not null;default:0" json:"base_amount"`
	TierBonus        int64            `gorm:"not null;default:0" json:"tier_bonus"`
	CampaignBonus    int64            `gorm:"not null;default:0" json:"campaign_bonus"`
	InvoiceDeduction int64            `gorm:"not null;default:0" json:"invoice_deduction"`
	WithholdingTax   int64            `gorm:"not null;default:0" json:"withholding_tax"`
	FinalAmount      int64            `gorm:"not null;default:0" json:"final_amount"`
	Status           string           `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	SettingsSnapshot SettingsSnapshot `gorm:"serializer:json;type:json" json:"settings_snapshot"`
	CarriedFromMonth string           `gorm:"type:varchar(7);default:''" json:"carried_from_month,omitempty"`
	PaidAt           *time.Time       `gorm:"type:datetime;default:null" json:"paid_at,omitempty"`
	PaidBy           string           `gorm:"type:varchar(100);default:''" json:"paid_by,omitempty"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Commission) TableName() string {
	return "commissions"
}

// ComputeFinal applies the final amount rule and clamps at zero.
func ComputeFinal(base, tierBonus, campaignBonus, invoiceDeduction, withholdingTax int64) int64 {
	v := base + tierBonus + campaignBonus - invoiceDeduction - withholdingTax
	if v < 0 {
		return 0
	}
	return v
}

// NextMonth returns the settlement month following month (YYYY-MM).
func NextMonth(month string) (string, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 1, 0).Format(MonthLayout), nil
}
