package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaignActiveOnExcludesEnd(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{ValidFrom: from, ValidTo: to, IsActive: true}

	assert.True(t, c.ActiveOn(from))
	assert.True(t, c.ActiveOn(to.Add(-time.Second)))
	assert.False(t, c.ActiveOn(to))
	assert.False(t, c.ActiveOn(from.Add(-time.Second)))

	c.IsActive = false
	assert.False(t, c.ActiveOn(from))
}

func TestCampaignMatches(t *testing.T) {
	c := Campaign{TargetProductIDs: []uint{7}, TargetTiers: []int{3, 4}}

	assert.True(t, c.Matches(7, 3, 42))
	assert.False(t, c.Matches(8, 3, 42))
	assert.False(t, c.Matches(7, 2, 42))

	open := Campaign{}
	assert.True(t, open.Matches(1, 1, 1))

	byAgency := Campaign{TargetAgencyIDs: []uint{42}}
	assert.True(t, byAgency.Matches(1, 4, 42))
	assert.False(t, byAgency.Matches(1, 4, 43))
}

func TestCampaignBonusFor(t *testing.T) {
	limit := int64(3000)
	tests := []struct {
		name     string
		campaign Campaign
		total    int64
		want     int64
	}{
		{"percentage", Campaign{BonusType: CampaignBonusPercentage, BonusRate: 500}, 100000, 5000},
		{"percentage capped", Campaign{BonusType: CampaignBonusPercentage, BonusRate: 500, MaxBonusPerAgency: &limit}, 100000, 3000},
		{"fixed", Campaign{BonusType: CampaignBonusFixed, BonusAmount: 1000}, 100000, 1000},
		{"fixed capped", Campaign{BonusType: CampaignBonusFixed, BonusAmount: 5000, MaxBonusPerAgency: &limit}, 1, 3000},
		{"unknown type", Campaign{BonusType: "tiered", BonusAmount: 1000}, 100000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.campaign.BonusFor(tt.total))
		})
	}
}

func TestCampaignValidateRequiresEndAfterStart(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{Name: "autumn", ValidFrom: start, ValidTo: start, BonusType: CampaignBonusFixed}
	assert.Error(t, c.Validate())

	c.ValidTo = start.AddDate(0, 1, 0)
	assert.NoError(t, c.Validate())
}
