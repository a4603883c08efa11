package customer

import (
	"context"

	"garmentpos/internal/core/id"
)

// Repository defines storage operations for customers and their loyalty ledger.
type Repository interface {
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)

	// GetByPhoneForUpdate locks the row so two checkouts for one customer
	// cannot race on the loyalty balance or spend totals.
	GetByPhoneForUpdate(ctx context.Context, phone string) (*Customer, error)

	Insert(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error

	List(ctx context.Context, filter ListFilter) ([]*Customer, error)

	// InsertTransaction appends an immutable loyalty ledger entry.
	InsertTransaction(ctx context.Context, t *Transaction) error
	ListTransactions(ctx context.Context, customerID id.ID) ([]*Transaction, error)
}

// ListFilter for customer listings.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
