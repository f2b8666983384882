package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	CampaignBonusPercentage = "percentage"
	CampaignBonusFixed      = "fixed"
)

// Campaign grants an extra bonus to sellers matching its filters while it runs.
// Empty filter lists match everything.
type Campaign struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	ValidFrom         time.Time `gorm:"type:datetime;not null;index" json:"valid_from" validate:"required"`
	ValidTo           time.Time `gorm:"type:datetime;not null;index" json:"valid_to" validate:"required,gtfield=ValidFrom"`
	BonusType         string    `gorm:"type:varchar(20);not null" json:"bonus_type" validate:"oneof=percentage fixed"`
	BonusRate         Rate      `gorm:"not null;default:0" json:"bonus_rate" validate:"min=0,max=10000"`
	BonusAmount       int64     `gorm:"not null;default:0" json:"bonus_amount" validate:"min=0"`
	TargetProductIDs  []uint    `gorm:"serializer:json;type:json" json:"target_product_ids"`
	TargetTiers       []int     `gorm:"serializer:json;type:json" json:"target_tiers"`
	TargetAgencyIDs   []uint    `gorm:"serializer:json;type:json" json:"target_agency_ids"`
	MaxBonusPerAgency *int64    `gorm:"default:null" json:"max_bonus_per_agency,omitempty" validate:"omitempty,min=0"`
	IsActive          bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

func (c *Campaign) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// ActiveOn reports whether the campaign runs at t. The end instant is exclusive.
func (c *Campaign) ActiveOn(t time.Time) bool {
	return c.IsActive && !t.Before(c.ValidFrom) && t.Before(c.ValidTo)
}

// Matches reports whether a sale of productID by the given seller is targeted.
func (c *Campaign) Matches(productID uint, sellerTier int, sellerID uint) bool {
	if len(c.TargetProductIDs) > 0 && !containsUint(c.TargetProductIDs, productID) {
		return false
	}
	if len(c.TargetTiers) > 0 && !containsInt(c.TargetTiers, sellerTier) {
		return false
	}
	if len(c.TargetAgencyIDs) > 0 && !containsUint(c.TargetAgencyIDs, sellerID) {
		return false
	}
	return true
}

// BonusFor returns the bonus earned on a sale total, capped per agency when a cap is set.
func (c *Campaign) BonusFor(total int64) int64 {
	var bonus int64
	switch c.BonusType {
	case CampaignBonusPercentage:
		bonus = c.BonusRate.Of(total)
	case CampaignBonusFixed:
		bonus = c.BonusAmount
	}
	if bonus < 0 {
		bonus = 0
	}
	if c.MaxBonusPerAgency != nil && bonus > *c.MaxBonusPerAgency {
		bonus = *c.MaxBonusPerAgency
	}
	return bonus
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
