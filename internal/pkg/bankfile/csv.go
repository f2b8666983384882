package bankfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	rowStatusPayable        = "payable"
	rowStatusCarriedForward = "carried_forward"
)

var tableHeader = []string{
	"agency_id", "agency_name", "tier", "company_type", "invoice_registered", "status",
	"commission_count", "base_amount", "tier_bonus", "campaign_bonus",
	"invoice_deduction", "withholding_tax", "final_amount",
	"bank_code", "bank_name", "branch_code", "branch_name",
	"account_type", "account_number", "account_holder",
}

// Defuse prefixes values that spreadsheet tools would evaluate as a formula.
func Defuse(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// tableRow is one exported agency line. Text cells are already defused.
type tableRow struct {
	text    map[int]string
	numbers map[int]int64
}

func (r tableRow) strings() []string {
	out := make([]string, len(tableHeader))
	for i := range out {
		if v, ok := r.numbers[i]; ok {
			out[i] = strconv.FormatInt(v, 10)
			continue
		}
		out[i] = r.text[i]
	}
	return out
}

func (r tableRow) cells() []interface{} {
	out := make([]interface{}, len(tableHeader))
	for i := range out {
		if v, ok := r.numbers[i]; ok {
			out[i] = v
			continue
		}
		out[i] = r.text[i]
	}
	return out
}

func tableRows(batch *payment.Batch) []tableRow {
	rows := make([]tableRow, 0, len(batch.Payable)+len(batch.CarriedForward))
	for i := range batch.Payable {
		rows = append(rows, newTableRow(&batch.Payable[i], rowStatusPayable))
	}
	for i := range batch.CarriedForward {
		rows = append(rows, newTableRow(&batch.CarriedForward[i], rowStatusCarriedForward))
	}
	return rows
}

func newTableRow(t *payment.AgencyTotal, status string) tableRow {
	row := tableRow{
		text: map[int]string{
			1: t.DisplayName(),
			5: status,
		},
		numbers: map[int]int64{
			0:  int64(t.AgencyID),
			6:  int64(t.CommissionCount),
			7:  t.BaseAmount,
			8:  t.TierBonus,
			9:  t.CampaignBonus,
			10: t.InvoiceDeduction,
			11: t.WithholdingTax,
			12: t.FinalAmount,
		},
	}
	if a := t.Agency; a != nil {
		row.numbers[2] = int64(a.Tier)
		row.text[3] = a.CompanyType
		row.text[4] = strconv.FormatBool(a.InvoiceRegistered)
		row.text[13] = a.BankCode
		row.text[14] = a.BankName
		row.text[15] = a.BranchCode
		row.text[16] = a.BranchName
		row.text[17] = a.AccountType
		row.text[18] = a.AccountNumber
		row.text[19] = strings.TrimSpace(a.AccountHolder)
	}
	for k, v := range row.text {
		row.text[k] = Defuse(v)
	}
	return row
}

// CSV renders the batch as UTF-8 CSV with a byte-order mark. Payable agencies
// come first, followed by the carried-forward ones.
func CSV(batch *payment.Batch) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(tableHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range tableRows(batch) {
		if err := w.Write(row.strings()); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
