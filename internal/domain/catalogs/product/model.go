// Package product provides the Product catalog. A product is a
// brand + garment-type pairing; individual sellable units (sizes, colors,
// barcodes) live in inventory.
package product

import (
	"context"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/entity"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
)

// DefaultGSTRate applies to garments unless overridden per product.
var DefaultGSTRate = types.NewMoneyFromInt(12)

// Product represents a sellable product line.
type Product struct {
	entity.Catalog

	// BrandID references the owning brand
	BrandID id.ID `db:"brand_id" json:"brandId"`

	// DealerID references the supplying dealer (optional)
	DealerID *id.ID `db:"dealer_id" json:"dealerId,omitempty"`

	// GarmentType is the product category (Shirt, Jeans, Kurta, ...)
	GarmentType string `db:"garment_type" json:"garmentType"`

	// GSTRate is the GST percentage applied at sale
	GSTRate types.Money `db:"gst_rate" json:"gstRate"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product. Name and code are filled in by the
// service when left empty.
func NewProduct(brandID id.ID, garmentType string) *Product {
	return &Product{
		Catalog:     entity.NewCatalog("", ""),
		BrandID:     brandID,
		GarmentType: garmentType,
		GSTRate:     DefaultGSTRate,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	// Name is derived, so base catalog validation runs after the
	// before-create hook has had a chance to fill it in.
	if id.IsNil(p.BrandID) {
		return apperror.NewValidation("brand is required").
			WithDetail("field", "brandId")
	}
	if p.GarmentType == "" {
		return apperror.NewValidation("garment type is required").
			WithDetail("field", "garmentType")
	}
	if p.GSTRate.IsNegative() {
		return apperror.NewValidation("gst rate cannot be negative").
			WithDetail("field", "gstRate").
			WithDetail("value", p.GSTRate.String())
	}
	return nil
}
