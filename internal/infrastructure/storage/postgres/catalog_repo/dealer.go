package catalog_repo

import (
	"garmentpos/internal/domain/catalogs/dealer"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var dealerColumns = []string{
	"id", "code", "name", "is_active", "deletion_mark",
	"contact_person", "phone", "email", "address", "gst_number",
	"created_at", "updated_at",
}

// DealerRepo is the PostgreSQL repository for dealers.
type DealerRepo struct {
	*BaseCatalogRepo[*dealer.Dealer]
}

// NewDealerRepo creates a new dealer repository.
func NewDealerRepo(txm *postgres.TxManager) *DealerRepo {
	return &DealerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"dealers",
			dealerColumns,
			func() *dealer.Dealer { return &dealer.Dealer{} },
		),
	}
}

var _ dealer.Repository = (*DealerRepo)(nil)
