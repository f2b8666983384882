package models

import "time"

const (
	SaleStatusPending   = "pending"
	SaleStatusConfirmed = "confirmed"
	SaleStatusPaid      = "paid"
	SaleStatusCancelled = "cancelled"
)

// Sale is recorded by the sales service. Amount fields are frozen once the
// status reaches paid.
type Sale struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AgencyID    uint      `gorm:"not null;index" json:"agency_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`
	TotalAmount int64     `gorm:"not null" json:"total_amount"`
	SaleDate    time.Time `gorm:"type:datetime;not null;index" json:"sale_date"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

// SettlementMonth is the YYYY-MM bucket the sale's commissions are paid in.
func (s *Sale) SettlementMonth() string {
	return s.SaleDate.Format(MonthLayout)
}

// IsFrozen reports whether the sale amounts may no longer change.
func (s *Sale) IsFrozen() bool {
	return s.Status == SaleStatusPaid
}
