package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when no settings version covers the requested instant.
const (
	DefaultMinimumPayable          int64 = 10000
	DefaultTier1FromTier2Rate      Rate  = 200
	DefaultTier2FromTier3Rate      Rate  = 150
	DefaultTier3FromTier4Rate      Rate  = 100
	DefaultWithholdingTaxRate      Rate  = 1021
	DefaultNonInvoiceDeductionRate Rate  = 200
)

// CommissionSettings is one immutable version of the commission configuration.
// A new version is published instead of editing an existing row.
type CommissionSettings struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	Version                 int        `gorm:"not null;uniqueIndex" json:"version"`
	ValidFrom               time.Time  `gorm:"type:datetime;not null;index" json:"valid_from" validate:"required"`
	ValidTo                 *time.Time `gorm:"type:datetime;default:null;index" json:"valid_to,omitempty"`
	IsActive                bool       `gorm:"default:false;index" json:"is_active"`
	MinimumPayable          int64      `gorm:"not null" json:"minimum_payable" validate:"min=0"`
	WithholdingTaxRate      Rate       `gorm:"not null" json:"withholding_tax_rate" validate:"min=0,max=10000"`
	NonInvoiceDeductionRate Rate       `gorm:"not null" json:"non_invoice_deduction_rate" validate:"min=0,max=10000"`
	Tier1FromTier2Rate      Rate       `gorm:"not null" json:"tier1_from_tier2_rate" validate:"min=0,max=10000"`
	Tier2FromTier3Rate      Rate       `gorm:"not null" json:"tier2_from_tier3_rate" validate:"min=0,max=10000"`
	Tier3FromTier4Rate      Rate       `gorm:"not null" json:"tier3_from_tier4_rate" validate:"min=0,max=10000"`
	CreatedBy               string     `gorm:"type:varchar(100);default:''" json:"created_by"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (CommissionSettings) TableName() string {
	return "commission_settings"
}

func (s *CommissionSettings) Validate() error {
	v := validator.New()
	return v.Struct(s)
}

// Covers reports whether t falls inside [ValidFrom, ValidTo).
func (s *CommissionSettings) Covers(t time.Time) bool {
	if t.Before(s.ValidFrom) {
		return false
	}
	return s.ValidTo == nil || t.Before(*s.ValidTo)
}

// Snapshot freezes the values used for a commission computation.
func (s *CommissionSettings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		SettingsID:              s.ID,
		Version:                 s.Version,
		MinimumPayable:          s.MinimumPayable,
		WithholdingTaxRate:      s.WithholdingTaxRate,
		NonInvoiceDeductionRate: s.NonInvoiceDeductionRate,
		Tier1FromTier2Rate:      s.Tier1FromTier2Rate,
		Tier2FromTier3Rate:      s.Tier2FromTier3Rate,
		Tier3FromTier4Rate:      s.Tier3FromTier4Rate,
	}
}

// SettingsSnapshot is the settings copy stored on every commission row.
// Version 0 means the built-in defaults were used.
type SettingsSnapshot struct {
	SettingsID              uint  `json:"settings_id"`
	Version                 int   `json:"version"`
	MinimumPayable          int64 `json:"minimum_payable"`
	WithholdingTaxRate      Rate  `json:"withholding_tax_rate"`
	NonInvoiceDeductionRate Rate  `json:"non_invoice_deduction_rate"`
	Tier1FromTier2Rate      Rate  `json:"tier1_from_tier2_rate"`
	Tier2FromTier3Rate      Rate  `json:"tier2_from_tier3_rate"`
	Tier3FromTier4Rate      Rate  `json:"tier3_from_tier4_rate"`
}

// DefaultSettingsSnapshot returns the built-in configuration.
func DefaultSettingsSnapshot() SettingsSnapshot {
	return SettingsSnapshot{
		MinimumPayable:          DefaultMinimumPayable,
		WithholdingTaxRate:      DefaultWithholdingTaxRate,
		NonInvoiceDeductionRate: DefaultNonInvoiceDeductionRate,
		Tier1FromTier2Rate:      DefaultTier1FromTier2Rate,
		Tier2FromTier3Rate:      DefaultTier2FromTier3Rate,
		Tier3FromTier4Rate:      DefaultTier3FromTier4Rate,
	}
}

// BonusRateForTier returns the hierarchy bonus rate paid to an ancestor of the given tier.
// Tier 4 agencies never have descendants and earn no hierarchy bonus.
func (s SettingsSnapshot) BonusRateForTier(tier int) Rate {
	switch tier {
	case 1:
		return s.Tier1FromTier2Rate
	case 2:
		return s.Tier2FromTier3Rate
	case 3:
		return s.Tier3FromTier4Rate
	default:
		return 0
	}
}

// IsDefault reports whether the snapshot came from the built-in defaults.
func (s SettingsSnapshot) IsDefault() bool {
	return s.Version == 0
}
