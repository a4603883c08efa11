package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/catalogs/product"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var productColumns = []string{
	"id", "code", "name", "is_active", "deletion_mark",
	"brand_id", "dealer_id", "garment_type", "gst_rate", "description",
	"created_at", "updated_at",
}

// ProductRepo is the PostgreSQL repository for products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			"products",
			productColumns,
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetByBrandAndType retrieves the product for a brand + garment type pairing.
func (r *ProductRepo) GetByBrandAndType(ctx context.Context, brandID id.ID, garmentType string) (*product.Product, error) {
	q := r.Builder().
		Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"brand_id": brandID}).
		Where(squirrel.Eq{"garment_type": garmentType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

var _ product.Repository = (*ProductRepo)(nil)
