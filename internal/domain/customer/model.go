// Package customer provides the customer record and loyalty-points ledger.
package customer

import (
	"context"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
)

// TransactionType classifies loyalty ledger entries.
type TransactionType string

const (
	TransactionEarned   TransactionType = "EARNED"
	TransactionRedeemed TransactionType = "REDEEMED"
	TransactionAdjusted TransactionType = "ADJUSTED"
)

// Customer is an optional party identified by phone number, created lazily
// on first checkout.
type Customer struct {
	ID            id.ID       `db:"id" json:"id"`
	Phone         string      `db:"phone" json:"phone"`
	Name          string      `db:"name" json:"name,omitempty"`
	Email         string      `db:"email" json:"email,omitempty"`
	Address       string      `db:"address" json:"address,omitempty"`
	LoyaltyPoints int         `db:"loyalty_points" json:"loyaltyPoints"`
	TotalSpent    types.Money `db:"total_spent" json:"totalSpent"`
	TotalOrders   int         `db:"total_orders" json:"totalOrders"`
	LastVisitAt   *time.Time  `db:"last_visit_at" json:"lastVisitAt,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewCustomer creates a customer keyed by phone.
func NewCustomer(phone, name, email string) *Customer {
	now := time.Now().UTC()
	return &Customer{
		ID:         id.New(),
		Phone:      phone,
		Name:       name,
		Email:      email,
		TotalSpent: types.Zero(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate implements entity self-validation.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Phone == "" {
		return apperror.NewValidation("phone is required").
			WithDetail("field", "phone")
	}
	if c.LoyaltyPoints < 0 {
		return apperror.NewValidation("loyalty points cannot be negative").
			WithDetail("field", "loyaltyPoints")
	}
	return nil
}

// Transaction is an append-only loyalty ledger entry. Points are signed:
// positive for EARNED, negative for REDEEMED. Entries are never mutated or
// deleted.
type Transaction struct {
	ID             id.ID           `db:"id" json:"id"`
	CustomerID     id.ID           `db:"customer_id" json:"customerId"`
	InvoiceID      *id.ID          `db:"invoice_id" json:"invoiceId,omitempty"`
	Type           TransactionType `db:"transaction_type" json:"transactionType"`
	Points         int             `db:"points" json:"points"`
	AmountSpent    *types.Money    `db:"amount_spent" json:"amountSpent,omitempty"`
	DiscountAmount *types.Money    `db:"discount_amount" json:"discountAmount,omitempty"`
	Description    string          `db:"description" json:"description"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}
