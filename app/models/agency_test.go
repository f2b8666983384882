package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgencyBankDetails(t *testing.T) {
	complete := Agency{
		BankCode:      "0001",
		BranchCode:    "001",
		AccountType:   AccountTypeOrdinary,
		AccountNumber: "1234567",
		AccountHolder: "ｶ)ﾃｽﾄ",
	}
	assert.True(t, complete.HasRoutingCodes())
	assert.True(t, complete.HasCompleteBankAccount())

	noBranch := complete
	noBranch.BranchCode = ""
	assert.False(t, noBranch.HasRoutingCodes())
	assert.False(t, noBranch.HasCompleteBankAccount())

	badAccount := complete
	badAccount.AccountNumber = "12A"
	assert.True(t, badAccount.HasRoutingCodes())
	assert.False(t, badAccount.HasCompleteBankAccount())

	noType := complete
	noType.AccountType = "savings"
	assert.False(t, noType.HasCompleteBankAccount())
}

func TestAgencyTransferName(t *testing.T) {
	a := Agency{Name: "Test Corp"}
	assert.Equal(t, "Test Corp", a.TransferName())

	a.NameKana = "ﾃｽﾄ"
	assert.Equal(t, "ﾃｽﾄ", a.TransferName())

	a.AccountHolder = " ｶ)ﾃｽﾄ "
	assert.Equal(t, "ｶ)ﾃｽﾄ", a.TransferName())
}

func TestSettingsSnapshotBonusRateForTier(t *testing.T) {
	s := DefaultSettingsSnapshot()
	assert.Equal(t, Rate(200), s.BonusRateForTier(1))
	assert.Equal(t, Rate(150), s.BonusRateForTier(2))
	assert.Equal(t, Rate(100), s.BonusRateForTier(3))
	assert.Equal(t, Rate(0), s.BonusRateForTier(4))
	assert.True(t, s.IsDefault())
}
