package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
	"github.com/ManuelReschke/TierPay/internal/pkg/metrics"
)

// Confirmer marks aggregated commissions as paid and records the payment.
type Confirmer struct {
	aggregator  *Aggregator
	commissions repository.CommissionRepository
	records     repository.PaymentRecordRepository
	newBatchID  func() string
}

// NewConfirmer creates a confirmer sharing the aggregator's selection rules.
func NewConfirmer(repos *repository.Repositories, aggregator *Aggregator) *Confirmer {
	return &Confirmer{
		aggregator:  aggregator,
		commissions: repos.Commission,
		records:     repos.PaymentRecord,
		newBatchID:  func() string { return uuid.New().String() },
	}
}

// Confirm transitions the eligible commissions of the selected agencies to
// paid, then writes one PaymentRecord per agency. Record failures are returned
// as warnings on a successful result. Agencies without eligible commissions are
// skipped, so repeating a confirmation changes nothing.
func (c *Confirmer) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	if err := ValidateMonth(req.Month); err != nil {
		return nil, err
	}
	if len(req.AgencyIDs) == 0 {
		return nil, ErrNoAgenciesSelected
	}
	actor := strings.TrimSpace(req.ConfirmedBy)
	if actor == "" {
		return nil, errors.New("confirmed_by is required")
	}
	if req.PaymentDate.IsZero() {
		return nil, errors.New("payment_date is required")
	}

	batch, err := c.aggregator.Aggregate(ctx, req.Month)
	if err != nil {
		return nil, err
	}

	result := &ConfirmResult{
		BatchID:     c.newBatchID(),
		Month:       req.Month,
		PaymentDate: req.PaymentDate,
		Records:     make([]models.PaymentRecord, 0),
		Skipped:     make([]SkippedAgency, 0),
		Warnings:    make([]string, 0),
	}

	selected := make([]*AgencyTotal, 0, len(req.AgencyIDs))
	seen := make(map[uint]struct{}, len(req.AgencyIDs))
	for _, id := range req.AgencyIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		total, ok := batch.FindPayable(id)
		if !ok {
			reason := SkipReasonNothingDue
			if batch.IsCarriedForward(id) {
				reason = SkipReasonBelowMinimum
			}
			result.Skipped = append(result.Skipped, SkippedAgency{AgencyID: id, Reason: reason})
			continue
		}
		selected = append(selected, total)
	}
	if len(selected) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(selected))
	var expectedRows int64
	for _, t := range selected {
		ids = append(ids, t.AgencyID)
		expectedRows += int64(t.CommissionCount)
	}

	affected, err := c.commissions.MarkPaid(ctx, req.Month, ids, batch.Statuses, req.PaymentDate, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to mark commissions paid for %s: %w", req.Month, err)
	}
	result.CommissionsPaid = affected
	if affected != expectedRows {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"expected to pay %d commissions but %d changed; the batch was modified concurrently", expectedRows, affected))
	}

	for _, t := range selected {
		record := models.PaymentRecord{
			BatchID:         result.BatchID,
			AgencyID:        t.AgencyID,
			SettlementMonth: req.Month,
			CommissionCount: t.CommissionCount,
			TotalAmount:     t.FinalAmount,
			PaymentDate:     req.PaymentDate,
			ConfirmedBy:     actor,
		}
		result.TotalAmount += t.FinalAmount
		metrics.PaymentsConfirmed.Inc()
		metrics.PaymentAmountConfirmed.Add(float64(t.FinalAmount))

		if err := c.records.Create(ctx, &record); err != nil {
			metrics.AuditWriteFailures.Inc()
			log.Errorf("[Payment] Payment record for agency %d (%s) failed: %v", t.AgencyID, req.Month, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"payment for agency %d confirmed but its payment record could not be written: %v", t.AgencyID, err))
			continue
		}
		result.Records = append(result.Records, record)
	}

	log.Infof("[Payment] Batch %s confirmed %d agencies (%d commissions, total %d) for %s by %s",
		result.BatchID, len(selected), affected, result.TotalAmount, req.Month, actor)
	return result, nil
}

// CarryForward defers every below-minimum agency of month to the next month.
// The rows become carried_forward and are aggregated again as eligible there.
func (c *Confirmer) CarryForward(ctx context.Context, month string) (*CarryForwardResult, error) {
	batch, err := c.aggregator.Aggregate(ctx, month)
	if err != nil {
		return nil, err
	}
	next, err := models.NextMonth(month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}

	result := &CarryForwardResult{Month: month, NextMonth: next, AgencyIDs: make([]uint, 0, len(batch.CarriedForward))}
	for _, t := range batch.CarriedForward {
		result.AgencyIDs = append(result.AgencyIDs, t.AgencyID)
	}
	if len(result.AgencyIDs) == 0 {
		return result, nil
	}

	moved, err := c.commissions.CarryForward(ctx, month, next, result.AgencyIDs, batch.Statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to carry forward commissions of %s: %w", month, err)
	}
	result.Commissions = moved

	log.Infof("[Payment] Carried %d commissions of %d agencies from %s to %s",
		moved, len(result.AgencyIDs), month, next)
	return result, nil
}

// Records lists the payment records written for a settlement month.
func (c *Confirmer) Records(ctx context.Context, month string) ([]models.PaymentRecord, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}
	records, err := c.records.ListByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment records of %s: %w", month, err)
	}
	return records, nil
}

// DefaultPaymentDate is used when a caller omits the payment date.
func DefaultPaymentDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
