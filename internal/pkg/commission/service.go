package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
	"github.com/ManuelReschke/TierPay/internal/pkg/hierarchy"
	"github.com/ManuelReschke/TierPay/internal/pkg/metrics"
)

// SettingsResolver resolves the settings snapshot in effect at an instant.
type SettingsResolver interface {
	Resolve(ctx context.Context, at time.Time) (models.SettingsSnapshot, error)
}

// Service computes and persists the commissions of sales.
type Service struct {
	engine      *Engine
	resolver    SettingsResolver
	walker      *hierarchy.Walker
	sales       repository.SaleRepository
	products    repository.ProductRepository
	agencies    repository.AgencyRepository
	campaigns   repository.CampaignRepository
	commissions repository.CommissionRepository
	now         func() time.Time
}

// NewService creates a commission service from injected repositories.
func NewService(repos *repository.Repositories, resolver SettingsResolver) *Service {
	return &Service{
		engine:      NewEngine(),
		resolver:    resolver,
		walker:      hierarchy.NewWalker(repos.Agency),
		sales:       repos.Sale,
		products:    repos.Product,
		agencies:    repos.Agency,
		campaigns:   repos.Campaign,
		commissions: repos.Commission,
		now:         time.Now,
	}
}

// ComputeForSale computes and stores the commission rows of an existing sale.
// If rows already exist the sale is recalculated with their stored snapshot.
// A failed write removes every commission row of the sale before returning.
func (s *Service) ComputeForSale(ctx context.Context, saleID uint) ([]models.Commission, error) {
	return s.compute(ctx, saleID, false)
}

// ComputeForNewSale is ComputeForSale for a freshly created sale whose creation
// requires commissions: on failure the sale itself is removed as well.
func (s *Service) ComputeForNewSale(ctx context.Context, saleID uint) ([]models.Commission, error) {
	return s.compute(ctx, saleID, true)
}

func (s *Service) compute(ctx context.Context, saleID uint, deleteSaleOnFailure bool) ([]models.Commission, error) {
	sale, err := s.loadSale(ctx, saleID)
	if err != nil {
		if deleteSaleOnFailure {
			s.cleanup(ctx, saleID, true)
		}
		return nil, err
	}

	existing, err := s.commissions.ListBySale(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commissions of sale %d: %w", sale.ID, err)
	}
	if len(existing) > 0 {
		return s.recalculate(ctx, sale, existing)
	}

	in, err := s.loadInput(ctx, sale)
	if err == nil {
		in.Settings, err = s.resolver.Resolve(ctx, sale.SaleDate)
	}
	if err != nil {
		if deleteSaleOnFailure {
			s.cleanup(ctx, sale.ID, true)
		}
		return nil, err
	}

	rows, err := s.engine.Compute(in)
	if err != nil {
		if deleteSaleOnFailure {
			s.cleanup(ctx, sale.ID, true)
		}
		return nil, err
	}

	if err := s.write(ctx, rows); err != nil {
		s.cleanup(ctx, sale.ID, deleteSaleOnFailure)
		return nil, fmt.Errorf("sale %d: %w: %w", sale.ID, ErrPartialWrite, err)
	}

	log.Infof("[Commission] Created %d commission rows for sale %d (settings version %d)",
		len(rows), sale.ID, in.Settings.Version)
	return rows, nil
}

func (s *Service) loadSale(ctx context.Context, saleID uint) (*models.Sale, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale %d: %w: %w", saleID, ErrReferenceNotFound, err)
		}
		return nil, fmt.Errorf("failed to load sale %d: %w", saleID, err)
	}
	return sale, nil
}

// loadInput gathers everything but the settings snapshot.
func (s *Service) loadInput(ctx context.Context, sale *models.Sale) (Input, error) {
	product, err := s.products.GetByID(ctx, sale.ProductID)
	if err != nil {
		return Input{}, referenceError("product", sale.ProductID, err)
	}
	seller, err := s.agencies.GetByID(ctx, sale.AgencyID)
	if err != nil {
		return Input{}, referenceError("agency", sale.AgencyID, err)
	}
	ancestors, err := s.walker.Ancestors(ctx, seller)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Input{}, fmt.Errorf("sale %d: %w: %w", sale.ID, ErrReferenceNotFound, err)
		}
		return Input{}, fmt.Errorf("sale %d: %w", sale.ID, err)
	}
	campaigns, err := s.campaigns.ListActiveOn(ctx, sale.SaleDate)
	if err != nil {
		return Input{}, fmt.Errorf("failed to load campaigns for %s: %w", sale.SaleDate.Format(time.DateOnly), err)
	}

	return Input{
		Sale:      sale,
		Product:   product,
		Seller:    seller,
		Ancestors: ancestors,
		Campaigns: campaigns,
	}, nil
}

func (s *Service) write(ctx context.Context, rows []models.Commission) error {
	for i := range rows {
		if err := s.commissions.Upsert(ctx, &rows[i]); err != nil {
			return fmt.Errorf("failed to store commission for agency %d: %w", rows[i].AgencyID, err)
		}
		metrics.CommissionRowsWritten.WithLabelValues(rows[i].CommissionType).Inc()
	}
	return nil
}

// cleanup removes every commission row of the sale, and the sale when requested.
func (s *Service) cleanup(ctx context.Context, saleID uint, deleteSale bool) {
	metrics.CommissionCleanups.Inc()
	if err := s.commissions.DeleteBySale(ctx, saleID); err != nil {
		log.Errorf("[Commission] Cleanup of commissions for sale %d failed: %v", saleID, err)
	}
	if !deleteSale {
		return
	}
	if err := s.sales.Delete(ctx, saleID); err != nil {
		log.Errorf("[Commission] Cleanup of sale %d failed: %v", saleID, err)
	}
}

func referenceError(kind string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w: %w", kind, id, ErrReferenceNotFound, err)
	}
	return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
}
