// Package inventory provides the stock guard over barcoded inventory items.
package inventory

import (
	"context"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
)

// Item represents one physical unit-batch keyed by a unique barcode.
// Quantity is decremented by sales and incremented by returns; it never
// goes negative.
type Item struct {
	ID           id.ID       `db:"id" json:"id"`
	ProductID    id.ID       `db:"product_id" json:"productId"`
	Barcode      string      `db:"barcode" json:"barcode"`
	DesignNumber string      `db:"design_number" json:"designNumber"`
	Size         string      `db:"size" json:"size"`
	Color        string      `db:"color" json:"color"`
	CostPrice    types.Money `db:"cost_price" json:"costPrice"`
	MRP          types.Money `db:"mrp" json:"mrp"`
	Quantity     int         `db:"quantity" json:"quantity"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewItem creates a new inventory item with generated ID.
func NewItem(productID id.ID, barcode string) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:        id.New(),
		ProductID: productID,
		Barcode:   barcode,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate implements entity self-validation.
func (i *Item) Validate(ctx context.Context) error {
	if i.Barcode == "" {
		return apperror.NewValidation("barcode is required").
			WithDetail("field", "barcode")
	}
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if i.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if i.MRP.IsNegative() {
		return apperror.NewValidation("mrp cannot be negative").
			WithDetail("field", "mrp")
	}
	return nil
}
