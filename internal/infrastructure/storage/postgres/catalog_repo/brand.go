package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"garmentpos/internal/domain/catalogs/brand"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var brandColumns = []string{
	"id", "code", "name", "is_active", "deletion_mark",
	"description", "created_at", "updated_at",
}

// BrandRepo is the PostgreSQL repository for brands.
type BrandRepo struct {
	*BaseCatalogRepo[*brand.Brand]
}

// NewBrandRepo creates a new brand repository.
func NewBrandRepo(txm *postgres.TxManager) *BrandRepo {
	return &BrandRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"brands",
			brandColumns,
			func() *brand.Brand { return &brand.Brand{} },
		),
	}
}

// GetByName retrieves a brand by exact name.
func (r *BrandRepo) GetByName(ctx context.Context, name string) (*brand.Brand, error) {
	q := r.Builder().
		Select(brandColumns...).
		From("brands").
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

var _ brand.Repository = (*BrandRepo)(nil)
