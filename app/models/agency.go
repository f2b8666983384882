package models

import (
	"strings"
	"time"
)

const (
	CompanyTypeCorporate  = "corporate"
	CompanyTypeIndividual = "individual"
)

// Account types as used by the domestic transfer format.
const (
	AccountTypeOrdinary = "ordinary" // encoded as '1'
	AccountTypeCurrent  = "current"  // encoded as '2'
)

// Tier bounds of the reseller hierarchy. Tier 1 is the root.
const (
	MinTier = 1
	MaxTier = 4
)

// Agency is a reseller in the hierarchy. Agencies are owned by the agency
// management service; the settlement pipeline only reads them.
type Agency struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	NameKana          string    `gorm:"type:varchar(255);default:''" json:"name_kana"`
	Tier              int       `gorm:"not null;index" json:"tier"`
	ParentID          *uint     `gorm:"index" json:"parent_id,omitempty"`
	CompanyType       string    `gorm:"type:varchar(20);not null;default:'corporate'" json:"company_type"`
	InvoiceRegistered bool      `gorm:"default:false" json:"invoice_registered"`
	BankCode          string    `gorm:"type:varchar(4);default:''" json:"bank_code"`
	BankName          string    `gorm:"type:varchar(100);default:''" json:"bank_name"`
	BranchCode        string    `gorm:"type:varchar(3);default:''" json:"branch_code"`
	BranchName        string    `gorm:"type:varchar(100);default:''" json:"branch_name"`
	AccountType       string    `gorm:"type:varchar(20);default:''" json:"account_type"`
	AccountNumber     string    `gorm:"type:varchar(7);default:''" json:"account_number"`
	AccountHolder     string    `gorm:"type:varchar(100);default:''" json:"account_holder"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Agency) TableName() string {
	return "agencies"
}

// IsIndividual reports whether withholding tax applies to this agency.
func (a *Agency) IsIndividual() bool {
	return a.CompanyType == CompanyTypeIndividual
}

// HasRoutingCodes reports whether the bank and branch codes are usable in a transfer file.
func (a *Agency) HasRoutingCodes() bool {
	return isDigits(a.BankCode, 4) && isDigits(a.BranchCode, 3)
}

// HasCompleteBankAccount reports whether every field needed to pay the agency is present.
func (a *Agency) HasCompleteBankAccount() bool {
	if !a.HasRoutingCodes() {
		return false
	}
	if a.AccountType != AccountTypeOrdinary && a.AccountType != AccountTypeCurrent {
		return false
	}
	n := strings.TrimSpace(a.AccountNumber)
	if n == "" || len(n) > 7 || !isDigits(n, len(n)) {
		return false
	}
	return strings.TrimSpace(a.AccountHolder) != ""
}

// TransferName is the recipient name printed on bank transfers.
func (a *Agency) TransferName() string {
	if s := strings.TrimSpace(a.AccountHolder); s != "" {
		return s
	}
	if s := strings.TrimSpace(a.NameKana); s != "" {
		return s
	}
	return a.Name
}

func isDigits(s string, n int) bool {
	if len(s) != n || n == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
