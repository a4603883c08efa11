package inventory

import (
	"context"

	"garmentpos/internal/core/id"
)

// Repository defines storage operations for inventory items.
// Mutating operations must be called within a transaction; the *ForUpdate
// variants take a row lock so concurrent decrements on one barcode serialize.
type Repository interface {
	GetByBarcode(ctx context.Context, barcode string) (*Item, error)

	// GetByBarcodeForUpdate locks the row (SELECT ... FOR UPDATE) for the
	// duration of the surrounding transaction.
	GetByBarcodeForUpdate(ctx context.Context, barcode string) (*Item, error)

	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// Insert persists a new item. Returns a Duplicate error when the barcode
	// already exists (unique constraint).
	Insert(ctx context.Context, item *Item) error

	// SetQuantity writes an absolute quantity for a locked row.
	SetQuantity(ctx context.Context, itemID id.ID, quantity int) error

	List(ctx context.Context, filter ListFilter) ([]*Item, error)
}

// ListFilter for inventory listings.
type ListFilter struct {
	ProductID *id.ID
	Search    string
	InStock   bool
	Limit     int
	Offset    int
}
