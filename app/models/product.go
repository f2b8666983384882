package models

import "time"

// Product is a catalog entry with one base commission rate per seller tier.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice int64     `gorm:"not null;default:0" json:"unit_price"`
	Tier1Rate Rate      `gorm:"not null;default:0" json:"tier1_rate"`
	Tier2Rate Rate      `gorm:"not null;default:0" json:"tier2_rate"`
	Tier3Rate Rate      `gorm:"not null;default:0" json:"tier3_rate"`
	Tier4Rate Rate      `gorm:"not null;default:0" json:"tier4_rate"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// RateForTier returns the base commission rate earned by a seller of the given tier.
func (p *Product) RateForTier(tier int) Rate {
	switch tier {
	case 1:
		return p.Tier1Rate
	case 2:
		return p.Tier2Rate
	case 3:
		return p.Tier3Rate
	case 4:
		return p.Tier4Rate
	default:
		return 0
	}
}
