package checkout

import (
	"context"
	"time"

	"garmentpos/internal/core/id"
)

// Repository defines storage operations for invoices.
// Invoices are insert-only history; there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, inv *Invoice) error
	InsertItems(ctx context.Context, items []InvoiceItem) error

	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	GetItems(ctx context.Context, invoiceID id.ID) ([]InvoiceItem, error)
	GetItem(ctx context.Context, itemID id.ID) (*InvoiceItem, error)

	List(ctx context.Context, filter ListFilter) ([]*Invoice, error)
}

// ListFilter for invoice listings.
type ListFilter struct {
	CustomerID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}
