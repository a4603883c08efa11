package returns

import (
	"context"
	"time"

	"garmentpos/internal/core/id"
)

// Repository defines storage operations for returns.
// Returns are insert-only history, like invoices.
type Repository interface {
	Insert(ctx context.Context, r *Return) error
	InsertItems(ctx context.Context, items []ReturnItem) error

	GetByID(ctx context.Context, returnID id.ID) (*Return, error)
	GetByNumber(ctx context.Context, number string) (*Return, error)

	GetItems(ctx context.Context, returnID id.ID) ([]ReturnItem, error)

	// CountByInvoice reports how many returns reference an invoice. The
	// engine rejects a second return against the same invoice.
	CountByInvoice(ctx context.Context, invoiceID id.ID) (int, error)

	List(ctx context.Context, filter ListFilter) ([]*Return, error)
}

// ListFilter for return listings.
type ListFilter struct {
	InvoiceID *id.ID
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
