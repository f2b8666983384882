package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/TierPay/app/models"
)

// NeedsRecalculation reports whether an edit touched the financial fields of a sale.
func NeedsRecalculation(before, after models.Sale) bool {
	return before.Quantity != after.Quantity ||
		before.UnitPrice != after.UnitPrice ||
		before.TotalAmount != after.TotalAmount
}

// Recalculate recomputes the commissions of an edited sale with the settings
// snapshot stored on its existing rows. Without rows the current settings are
// used and rows are created. Rows are matched by beneficiary agency and never
// duplicated.
func (s *Service) Recalculate(ctx context.Context, saleID uint) ([]models.Commission, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	existing, err := s.commissions.ListBySale(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commissions of sale %d: %w", sale.ID, err)
	}
	return s.recalculate(ctx, sale, existing)
}

func (s *Service) recalculate(ctx context.Context, sale *models.Sale, existing []models.Commission) ([]models.Commission, error) {
	if sale.IsFrozen() {
		return nil, fmt.Errorf("sale %d is paid: %w", sale.ID, ErrSaleFrozen)
	}
	for _, row := range existing {
		if row.Status == models.CommissionStatusPaid {
			return nil, fmt.Errorf("commission %d of sale %d is paid: %w", row.ID, sale.ID, ErrSaleFrozen)
		}
	}

	in, err := s.loadInput(ctx, sale)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		in.Settings = existing[0].SettingsSnapshot
	} else {
		in.Settings, err = s.resolver.Resolve(ctx, s.now())
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.engine.Compute(in)
	if err != nil {
		return nil, err
	}

	previous := make(map[uint]models.Commission, len(existing))
	for _, row := range existing {
		previous[row.AgencyID] = row
	}
	for i := range rows {
		prev, ok := previous[rows[i].AgencyID]
		if !ok {
			continue
		}
		rows[i].ID = prev.ID
		rows[i].Status = prev.Status
		rows[i].CarriedFromMonth = prev.CarriedFromMonth
		if prev.Status == models.CommissionStatusCarriedForward {
			rows[i].SettlementMonth = prev.SettlementMonth
		}
		delete(previous, rows[i].AgencyID)
	}

	if err := s.write(ctx, rows); err != nil {
		if len(existing) == 0 {
			s.cleanup(ctx, sale.ID, false)
		} else {
			s.restore(ctx, sale.ID, existing)
		}
		return nil, fmt.Errorf("sale %d: %w: %w", sale.ID, ErrPartialWrite, err)
	}

	if len(previous) > 0 {
		stale := make([]uint, 0, len(previous))
		for _, row := range previous {
			stale = append(stale, row.ID)
		}
		if err := s.commissions.DeleteByIDs(ctx, stale); err != nil {
			s.restore(ctx, sale.ID, existing)
			return nil, fmt.Errorf("sale %d: stale rows: %w: %w", sale.ID, ErrPartialWrite, err)
		}
	}

	log.Infof("[Commission] Recalculated %d commission rows for sale %d (settings version %d)",
		len(rows), sale.ID, in.Settings.Version)
	return rows, nil
}

// restore writes the pre-recalculation rows back and removes rows created for
// agencies that were not in the previous set. If any step fails the sale's rows
// are removed so no mixed state survives.
func (s *Service) restore(ctx context.Context, saleID uint, previous []models.Commission) {
	var errs []error
	known := make(map[uint]struct{}, len(previous))
	for i := range previous {
		row := previous[i]
		known[row.AgencyID] = struct{}{}
		if err := s.commissions.Upsert(ctx, &row); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		current, err := s.commissions.ListBySale(ctx, saleID)
		if err != nil {
			errs = append(errs, err)
		} else {
			var extra []uint
			for _, row := range current {
				if _, ok := known[row.AgencyID]; !ok {
					extra = append(extra, row.ID)
				}
			}
			if len(extra) > 0 {
				if err := s.commissions.DeleteByIDs(ctx, extra); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	if len(errs) == 0 {
		log.Warnf("[Commission] Restored %d commission rows of sale %d after failed recalculation", len(previous), saleID)
		return
	}
	log.Errorf("[Commission] Restoring commissions of sale %d failed: %v", saleID, errors.Join(errs...))
	s.cleanup(ctx, saleID, false)
}
