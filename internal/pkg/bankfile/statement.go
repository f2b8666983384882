package bankfile

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ManuelReschke/TierPay/internal/pkg/payment"
)

const EndOfStatement = "*** END OF STATEMENT ***"

var (
	ruleHeavy = strings.Repeat("=", 60)
	ruleLight = strings.Repeat("-", 60)
)

// Statement renders a plain-text UTF-8 statement of the payable agencies.
// Bonus and deduction lines are printed only when non-zero.
func Statement(batch *payment.Batch, paymentDate time.Time) []byte {
	p := message.NewPrinter(language.Japanese)
	var b bytes.Buffer

	line := func(format string, args ...interface{}) {
		b.WriteString(p.Sprintf(format, args...))
		b.WriteString("\n")
	}
	amount := func(label string, v int64) {
		line("  %-20s %15s", label, FormatAmount(v))
	}

	line("COMMISSION PAYMENT STATEMENT")
	line("Settlement month: %s", batch.Month)
	if !paymentDate.IsZero() {
		line("Payment date:     %s", paymentDate.Format(time.DateOnly))
	}
	line("Minimum payable:  %d", batch.MinimumPayable)
	line("%s", ruleHeavy)

	for i := range batch.Payable {
		t := &batch.Payable[i]
		if t.Agency != nil {
			fmt.Fprintf(&b, "[%d] %s (tier %d)\n", t.AgencyID, t.Agency.Name, t.Agency.Tier)
		} else {
			fmt.Fprintf(&b, "[%d] %s\n", t.AgencyID, t.DisplayName())
		}
		line("  %-20s %15d", "Commissions:", int64(t.CommissionCount))
		amount("Base amount:", t.BaseAmount)
		if t.TierBonus != 0 {
			amount("Tier bonus:", t.TierBonus)
		}
		if t.CampaignBonus != 0 {
			amount("Campaign bonus:", t.CampaignBonus)
		}
		if t.InvoiceDeduction != 0 {
			amount("Invoice deduction:", -t.InvoiceDeduction)
		}
		if t.WithholdingTax != 0 {
			amount("Withholding tax:", -t.WithholdingTax)
		}
		amount("Payment amount:", t.FinalAmount)
		if t.HasBankDetails {
			a := t.Agency
			fmt.Fprintf(&b, "  Bank: %s %s / %s %s %s %s\n", a.BankCode, a.BankName, a.BranchCode, a.BranchName, a.AccountType, a.AccountNumber)
		} else {
			line("  Bank: (missing bank details)")
		}
		line("%s", ruleLight)
	}

	line("Agencies paid:      %d", int64(len(batch.Payable)))
	line("Grand total:        %s", FormatAmount(batch.TotalPayable))
	if len(batch.CarriedForward) > 0 {
		line("Carried forward:    %d agencies, %d", int64(len(batch.CarriedForward)), batch.TotalCarriedForward)
	}
	if batch.MissingBankDetails > 0 {
		line("Missing bank details: %d agencies", int64(batch.MissingBankDetails))
	}
	line("%s", ruleHeavy)
	b.WriteString(EndOfStatement)
	b.WriteString("\n")
	return b.Bytes()
}

// FormatAmount prints v with thousands separators.
func FormatAmount(v int64) string {
	return message.NewPrinter(language.Japanese).Sprintf("%d", v)
}
