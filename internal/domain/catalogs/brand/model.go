// Package brand provides the Brand catalog. Brands group products for
// naming and reporting.
package brand

import (
	"context"

	"garmentpos/internal/core/entity"
)

// Brand represents a garment brand.
type Brand struct {
	entity.Catalog

	// Description is free-form notes about the brand
	Description *string `db:"description" json:"description,omitempty"`
}

// NewBrand creates a new Brand with required fields.
func NewBrand(code, name string) *Brand {
	return &Brand{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (b *Brand) Validate(ctx context.Context) error {
	return b.Catalog.Validate(ctx)
}
