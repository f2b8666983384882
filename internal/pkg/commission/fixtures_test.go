package commission

import (
	"time"

	"github.com/ManuelReschke/TierPay/app/models"
	"github.com/ManuelReschke/TierPay/app/repository/repositorytest"
	"github.com/ManuelReschke/TierPay/internal/pkg/settings"
)

var saleDate = time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

func uintPtr(v uint) *uint { return &v }

func rootAgency() models.Agency {
	return models.Agency{ID: 1, Name: "Root", Tier: 1, CompanyType: models.CompanyTypeCorporate}
}

func middleAgency() models.Agency {
	return models.Agency{ID: 2, Name: "Middle", Tier: 2, ParentID: uintPtr(1),
		CompanyType: models.CompanyTypeCorporate, InvoiceRegistered: true}
}

func sellerAgency() models.Agency {
	return models.Agency{ID: 3, Name: "Seller", Tier: 3, ParentID: uintPtr(2),
		CompanyType: models.CompanyTypeIndividual}
}

func product() models.Product {
	return models.Product{ID: 10, Name: "Router", Tier1Rate: 2000, Tier2Rate: 1500, Tier3Rate: 1000, Tier4Rate: 500}
}

func sale() models.Sale {
	return models.Sale{ID: 100, AgencyID: 3, ProductID: 10, Quantity: 1, UnitPrice: 100000,
		TotalAmount: 100000, SaleDate: saleDate, Status: models.SaleStatusConfirmed}
}

// seededStore holds a three level chain and one confirmed sale of 100000.
func seededStore() *repositorytest.Store {
	store := repositorytest.NewStore()
	store.AddAgency(rootAgency())
	store.AddAgency(middleAgency())
	store.AddAgency(sellerAgency())
	store.AddProduct(product())
	store.AddSale(sale())
	return store
}

func newTestService(store *repositorytest.Store) *Service {
	repos := store.Repositories()
	return NewService(repos, settings.NewResolver(repos.Settings))
}

func amountsByAgency(rows []models.Commission) map[uint]int64 {
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.AgencyID] = r.FinalAmount
	}
	return out
}

