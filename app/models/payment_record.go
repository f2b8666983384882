package models

import "time"

// PaymentRecord is the audit entry written once per agency and confirmation.
// Rows are never updated.
type PaymentRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BatchID         string    `gorm:"type:varchar(36);not null;index" json:"batch_id"`
	AgencyID        uint      `gorm:"not null;index:idx_payment_records_agency_month,priority:1" json:"agency_id"`
	SettlementMonth string    `gorm:"type:varchar(7);not null;index:idx_payment_records_agency_month,priority:2" json:"settlement_month"`
	CommissionCount int       `gorm:"not null" json:"commission_count"`
	TotalAmount     int64     `gorm:"not null" json:"total_amount"`
	PaymentDate     time.Time `gorm:"type:date;not null" json:"payment_date"`
	ConfirmedBy     string    `gorm:"type:varchar(100);not null" json:"confirmed_by"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
