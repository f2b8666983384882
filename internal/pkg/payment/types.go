package payment

import (
	"errors"
	"regexp"
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
)

var (
	ErrInvalidMonth       = errors.New("settlement month must be formatted as YYYY-MM")
	ErrNoAgenciesSelected = errors.New("at least one agency must be selected")
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidateMonth checks the YYYY-MM settlement month format.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return ErrInvalidMonth
	}
	return nil
}

// AgencyTotal is the aggregate of one agency's commissions in a settlement month.
type AgencyTotal struct {
	AgencyID         uint           `json:"agency_id"`
	Agency           *models.Agency `json:"agency,omitempty"`
	CommissionCount  int            `json:"commission_count"`
	BaseAmount       int64          `json:"base_amount"`
	TierBonus        int64          `json:"tier_bonus"`
	CampaignBonus    int64          `json:"campaign_bonus"`
	InvoiceDeduction int64          `json:"invoice_deduction"`
	WithholdingTax   int64          `json:"withholding_tax"`
	FinalAmount      int64          `json:"final_amount"`
	HasBankDetails   bool           `json:"has_bank_details"`
}

// DisplayName returns the agency name, or a placeholder when the agency is unknown.
func (t *AgencyTotal) DisplayName() string {
	if t.Agency == nil {
		return "(unknown agency)"
	}
	return t.Agency.Name
}

func (t *AgencyTotal) add(c *models.Commission) {
	t.CommissionCount++
	t.BaseAmount += c.BaseAmount
	t.TierBonus += c.TierBonus
	t.CampaignBonus += c.CampaignBonus
	t.InvoiceDeduction += c.InvoiceDeduction
	t.WithholdingTax += c.WithholdingTax
	t.FinalAmount += c.FinalAmount
}

// Batch is the aggregated view of a settlement month.
type Batch struct {
	Month               string        `json:"month"`
	Statuses            []string      `json:"statuses"`
	MinimumPayable      int64         `json:"minimum_payable"`
	SettingsVersion     int           `json:"settings_version"`
	Payable             []AgencyTotal `json:"payable"`
	CarriedForward      []AgencyTotal `json:"carried_forward"`
	MissingBankDetails  int           `json:"missing_bank_details"`
	TotalPayable        int64         `json:"total_payable"`
	TotalCarriedForward int64         `json:"total_carried_forward"`
}

// FindPayable returns the payable entry of an agency.
func (b *Batch) FindPayable(agencyID uint) (*AgencyTotal, bool) {
	for i := range b.Payable {
		if b.Payable[i].AgencyID == agencyID {
			return &b.Payable[i], true
		}
	}
	return nil, false
}

// IsCarriedForward reports whether the agency fell below the minimum payable amount.
func (b *Batch) IsCarriedForward(agencyID uint) bool {
	for i := range b.CarriedForward {
		if b.CarriedForward[i].AgencyID == agencyID {
			return true
		}
	}
	return false
}

// ConfirmRequest selects the agencies to pay for a month. AgencyIDs is never implied.
type ConfirmRequest struct {
	Month       string
	PaymentDate time.Time
	AgencyIDs   []uint
	ConfirmedBy string
}

// SkippedAgency explains why a requested agency was not paid.
type SkippedAgency struct {
	AgencyID uint   `json:"agency_id"`
	Reason   string `json:"reason"`
}

// ConfirmResult describes a confirmation. Warnings never turn it into a failure.
type ConfirmResult struct {
	BatchID         string                 `json:"batch_id"`
	Month           string                 `json:"month"`
	PaymentDate     time.Time              `json:"payment_date"`
	Records         []models.PaymentRecord `json:"records"`
	Skipped         []SkippedAgency        `json:"skipped"`
	CommissionsPaid int64                  `json:"commissions_paid"`
	TotalAmount     int64                  `json:"total_amount"`
	Warnings        []string               `json:"warnings"`
}

// CarryForwardResult describes a carry-forward run.
type CarryForwardResult struct {
	Month       string `json:"month"`
	NextMonth   string `json:"next_month"`
	AgencyIDs   []uint `json:"agency_ids"`
	Commissions int64  `json:"commissions"`
}

const (
	SkipReasonBelowMinimum = "below_minimum_payable"
	SkipReasonNothingDue   = "no_eligible_commissions"
)
