// Package payment aggregates approved commissions into monthly payable
// batches and confirms their payment.
package payment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
)

// SettingsResolver resolves the settings snapshot in effect at an instant.
type SettingsResolver interface {
	Resolve(ctx context.Context, at time.Time) (models.SettingsSnapshot, error)
}

// Aggregator groups a month's commissions by agency. It never writes.
type Aggregator struct {
	commissions repository.CommissionRepository
	agencies    repository.AgencyRepository
	resolver    SettingsResolver
}

// NewAggregator creates an aggregator from injected repositories.
func NewAggregator(repos *repository.Repositories, resolver SettingsResolver) *Aggregator {
	return &Aggregator{
		commissions: repos.Commission,
		agencies:    repos.Agency,
		resolver:    resolver,
	}
}

// Aggregate builds the batch of month for the given commission statuses
// (approved by default). Carried-forward rows count as approved in the month
// they were moved to. Agencies below the settings' minimum payable amount are
// reported in CarriedForward instead of Payable.
func (a *Aggregator) Aggregate(ctx context.Context, month string, statuses ...string) (*Batch, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}
	statuses = EligibleStatuses(statuses...)

	snapshot, err := a.resolver.Resolve(ctx, MonthEnd(month))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings for %s: %w", month, err)
	}

	rows, err := a.commissions.ListByMonth(ctx, month, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load commissions for %s: %w", month, err)
	}

	totals := make(map[uint]*AgencyTotal)
	ids := make([]uint, 0)
	for i := range rows {
		row := &rows[i]
		t, ok := totals[row.AgencyID]
		if !ok {
			t = &AgencyTotal{AgencyID: row.AgencyID}
			totals[row.AgencyID] = t
			ids = append(ids, row.AgencyID)
		}
		t.add(row)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	agencies, err := a.agencies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load agencies for %s: %w", month, err)
	}

	batch := &Batch{
		Month:           month,
		Statuses:        statuses,
		MinimumPayable:  snapshot.MinimumPayable,
		SettingsVersion: snapshot.Version,
		Payable:         make([]AgencyTotal, 0, len(ids)),
		CarriedForward:  make([]AgencyTotal, 0),
	}
	for _, id := range ids {
		t := totals[id]
		if agency, ok := agencies[id]; ok {
			agency := agency
			t.Agency = &agency
			t.HasBankDetails = agency.HasCompleteBankAccount()
		}

		if t.FinalAmount < snapshot.MinimumPayable {
			batch.CarriedForward = append(batch.CarriedForward, *t)
			batch.TotalCarriedForward += t.FinalAmount
			continue
		}
		batch.Payable = append(batch.Payable, *t)
		batch.TotalPayable += t.FinalAmount
		if !t.HasBankDetails {
			batch.MissingBankDetails++
		}
	}
	return batch, nil
}

// EligibleStatuses expands a status filter. An empty filter means approved,
// and approved always includes carried-forward rows.
func EligibleStatuses(statuses ...string) []string {
	if len(statuses) == 0 {
		statuses = []string{models.CommissionStatusApproved}
	}
	out := make([]string, 0, len(statuses)+1)
	seen := make(map[string]struct{}, len(statuses)+1)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range statuses {
		add(s)
		if s == models.CommissionStatusApproved {
			add(models.CommissionStatusCarriedForward)
		}
	}
	return out
}

// MonthEnd returns the last instant of a YYYY-MM month in UTC.
func MonthEnd(month string) time.Time {
	start, err := time.Parse(models.MonthLayout, month)
	if err != nil {
		return time.Time{}
	}
	return start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
