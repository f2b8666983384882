// Package repositorytest provides in-memory repositories for service tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository"
)

// Store backs every in-memory repository. Hooks inject failures.
type Store struct {
	mu sync.Mutex

	Agencies    map[uint]models.Agency
	Products    map[uint]models.Product
	Campaigns   []models.Campaign
	Sales       map[uint]models.Sale
	Commissions map[uint]models.Commission
	Settings    []models.CommissionSettings
	Records     []models.PaymentRecord

	// UpsertHook runs before every commission upsert; a non-nil error aborts it.
	UpsertHook func(c *models.Commission) error
	// DeleteIDsErr fails every commission delete by id.
	DeleteIDsErr error
	// RecordErr fails every payment record write.
	RecordErr error
	// ListSettingsErr fails every settings lookup.
	ListSettingsErr error

	nextCommissionID uint
	nextRecordID     uint
}

func NewStore() *Store {
	return &Store{
		Agencies:    map[uint]models.Agency{},
		Products:    map[uint]models.Product{},
		Sales:       map[uint]models.Sale{},
		Commissions: map[uint]models.Commission{},
	}
}

// Repositories wires the store into the repository set used by services.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Agency:        agencyRepo{s},
		Product:       productRepo{s},
		Campaign:      campaignRepo{s},
		Sale:          saleRepo{s},
		Commission:    commissionRepo{s},
		Settings:      settingsRepo{s},
		PaymentRecord: recordRepo{s},
	}
}

func (s *Store) AddAgency(a models.Agency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Agencies[a.ID] = a
}

func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Products[p.ID] = p
}

func (s *Store) AddSale(sale models.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sales[sale.ID] = sale
}

// AddCommission stores c as is, assigning an id when it has none.
func (s *Store) AddCommission(c models.Commission) models.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		s.nextCommissionID++
		c.ID = s.nextCommissionID + 1000
	}
	s.Commissions[c.ID] = c
	return c
}

// CommissionsOf returns the rows of a sale ordered by id.
func (s *Store) CommissionsOf(saleID uint) []models.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commissionsOf(saleID)
}

func (s *Store) commissionsOf(saleID uint) []models.Commission {
	rows := make([]models.Commission, 0)
	for _, c := range s.Commissions {
		if c.SaleID == saleID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

type agencyRepo struct{ s *Store }

func (r agencyRepo) GetByID(_ context.Context, id uint) (*models.Agency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Agencies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r agencyRepo) GetByIDs(_ context.Context, ids []uint) (map[uint]models.Agency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uint]models.Agency, len(ids))
	for _, id := range ids {
		if a, ok := r.s.Agencies[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

type campaignRepo struct{ s *Store }

func (r campaignRepo) ListActiveOn(_ context.Context, at time.Time) ([]models.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Campaign, 0)
	for _, c := range r.s.Campaigns {
		if c.ActiveOn(at) {
			out = append(out, c)
		}
	}
	return out, nil
}

type saleRepo struct{ s *Store }

func (r saleRepo) GetByID(_ context.Context, id uint) (*models.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.Sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sale, nil
}

func (r saleRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Sales, id)
	for cid, c := range r.s.Commissions {
		if c.SaleID == id {
			delete(r.s.Commissions, cid)
		}
	}
	return nil
}

type commissionRepo struct{ s *Store }

func (r commissionRepo) ListBySale(_ context.Context, saleID uint) ([]models.Commission, error) {
	return r.s.CommissionsOf(saleID), nil
}

func (r commissionRepo) Upsert(_ context.Context, c *models.Commission) error {
	if r.s.UpsertHook != nil {
		if err := r.s.UpsertHook(c); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.Commissions {
		if existing.SaleID == c.SaleID && existing.AgencyID == c.AgencyID {
			c.ID = id
			c.CreatedAt = existing.CreatedAt
			c.CarriedFromMonth = existing.CarriedFromMonth
			c.PaidAt = existing.PaidAt
			c.PaidBy = existing.PaidBy
			r.s.Commissions[id] = *c
			return nil
		}
	}
	r.s.nextCommissionID++
	c.ID = r.s.nextCommissionID
	r.s.Commissions[c.ID] = *c
	return nil
}

func (r commissionRepo) DeleteBySale(_ context.Context, saleID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.Commissions {
		if c.SaleID == saleID {
			delete(r.s.Commissions, id)
		}
	}
	return nil
}

func (r commissionRepo) DeleteByIDs(_ context.Context, ids []uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.DeleteIDsErr != nil {
		return r.s.DeleteIDsErr
	}
	for _, id := range ids {
		delete(r.s.Commissions, id)
	}
	return nil
}

func (r commissionRepo) ListByMonth(_ context.Context, month string, statuses []string) ([]models.Commission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]models.Commission, 0)
	for _, c := range r.s.Commissions {
		if c.SettlementMonth != month {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, c.Status) {
			continue
		}
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AgencyID != rows[j].AgencyID {
			return rows[i].AgencyID < rows[j].AgencyID
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (r commissionRepo) MarkPaid(_ context.Context, month string, agencyIDs []uint, fromStatuses []string, paidAt time.Time, paidBy string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.Commissions {
		if c.SettlementMonth == month && contains(agencyIDs, c.AgencyID) && contains(fromStatuses, c.Status) {
			at := paidAt
			c.Status = models.CommissionStatusPaid
			c.PaidAt = &at
			c.PaidBy = paidBy
			r.s.Commissions[id] = c
			n++
		}
	}
	return n, nil
}

func (r commissionRepo) CarryForward(_ context.Context, month, nextMonth string, agencyIDs []uint, fromStatuses []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.Commissions {
		if c.SettlementMonth == month && contains(agencyIDs, c.AgencyID) && contains(fromStatuses, c.Status) {
			if c.CarriedFromMonth == "" {
				c.CarriedFromMonth = month
			}
			c.Status = models.CommissionStatusCarriedForward
			c.SettlementMonth = nextMonth
			r.s.Commissions[id] = c
			n++
		}
	}
	return n, nil
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) ListVersions(_ context.Context) ([]models.CommissionSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ListSettingsErr != nil {
		return nil, r.s.ListSettingsErr
	}
	out := append([]models.CommissionSettings(nil), r.s.Settings...)
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r settingsRepo) Publish(_ context.Context, next *models.CommissionSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxVersion := 0
	for i := range r.s.Settings {
		v := &r.s.Settings[i]
		if v.Version > maxVersion {
			maxVersion = v.Version
		}
		if v.IsActive {
			if v.ValidTo == nil {
				to := next.ValidFrom
				v.ValidTo = &to
			}
			v.IsActive = false
		}
	}
	next.Version = maxVersion + 1
	next.IsActive = true
	next.ID = uint(len(r.s.Settings) + 1)
	r.s.Settings = append(r.s.Settings, *next)
	return nil
}

type recordRepo struct{ s *Store }

func (r recordRepo) Create(_ context.Context, record *models.PaymentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.RecordErr != nil {
		return r.s.RecordErr
	}
	r.s.nextRecordID++
	record.ID = r.s.nextRecordID
	r.s.Records = append(r.s.Records, *record)
	return nil
}

func (r recordRepo) ListByMonth(_ context.Context, month string) ([]models.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.PaymentRecord, 0)
	for _, rec := range r.s.Records {
		if rec.SettlementMonth == month {
			out = append(out, rec)
		}
	}
	return out, nil
}
