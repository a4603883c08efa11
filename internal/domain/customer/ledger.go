package customer

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/pkg/logger"
)

// Ledger provides loyalty-point accounting over the customer repository.
// One point is earned per 100 currency units spent; one point redeems for
// one currency unit of discount. All balance mutations happen inside the
// caller's transaction: a redemption is never observable if the surrounding
// checkout fails.
type Ledger struct {
	repo Repository
}

// NewLedger creates a new loyalty ledger.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// PointsEarned computes points for an amount spent: floor(amount / 100).
func (l *Ledger) PointsEarned(amountSpent types.Money) int {
	if amountSpent.IsNegative() {
		return 0
	}
	return int(amountSpent.Div(types.Hundred).IntPart())
}

// ResolveOrCreate finds the customer by phone or lazily creates one. The row
// is locked so a concurrent checkout for the same customer serializes.
func (l *Ledger) ResolveOrCreate(ctx context.Context, phone, name, email string) (*Customer, error) {
	c, err := l.repo.GetByPhoneForUpdate(ctx, phone)
	if err == nil {
		return c, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	c = NewCustomer(phone, name, email)
	if err := l.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	logger.Info(ctx, "customer created", "customer_id", c.ID, "phone", phone)
	return c, nil
}

// Redeem validates the request and decrements the balance. Returns the
// discount amount (1 point = 1 currency unit). The updated balance is
// persisted by RecordVisit at commit time, within the same transaction.
func (l *Ledger) Redeem(ctx context.Context, c *Customer, points int) (types.Money, error) {
	if points <= 0 {
		return types.Zero(), apperror.NewValidation("points to redeem must be positive").
			WithDetail("points", points)
	}
	if c.LoyaltyPoints < points {
		return types.Zero(), apperror.NewInsufficientLoyaltyPoints(points, c.LoyaltyPoints)
	}

	c.LoyaltyPoints -= points
	return types.NewMoneyFromInt(int64(points)), nil
}

// RecordEarn credits points and appends an EARNED ledger entry linked to the
// invoice that produced them.
func (l *Ledger) RecordEarn(ctx context.Context, c *Customer, invoiceID id.ID, points int, amountSpent types.Money) error {
	if points <= 0 {
		return nil
	}

	c.LoyaltyPoints += points

	entry := &Transaction{
		ID:          id.New(),
		CustomerID:  c.ID,
		InvoiceID:   &invoiceID,
		Type:        TransactionEarned,
		Points:      points,
		AmountSpent: &amountSpent,
		Description: fmt.Sprintf("Earned %d points for purchase of Rs. %s", points, amountSpent.StringFixed(2)),
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.repo.InsertTransaction(ctx, entry); err != nil {
		return fmt.Errorf("record earn: %w", err)
	}
	return nil
}

// RecordRedeem appends a REDEEMED ledger entry with negative points.
func (l *Ledger) RecordRedeem(ctx context.Context, c *Customer, invoiceID id.ID, points int, discount types.Money) error {
	if points <= 0 {
		return nil
	}

	entry := &Transaction{
		ID:             id.New(),
		CustomerID:     c.ID,
		InvoiceID:      &invoiceID,
		Type:           TransactionRedeemed,
		Points:         -points,
		DiscountAmount: &discount,
		Description:    fmt.Sprintf("Redeemed %d points for Rs. %s discount", points, discount.StringFixed(2)),
		CreatedAt:      time.Now().UTC(),
	}
	if err := l.repo.InsertTransaction(ctx, entry); err != nil {
		return fmt.Errorf("record redeem: %w", err)
	}
	return nil
}

// RecordVisit updates spend totals and persists the customer row, including
// any balance changes from Redeem/RecordEarn in this transaction.
func (l *Ledger) RecordVisit(ctx context.Context, c *Customer, amountSpent types.Money) error {
	now := time.Now().UTC()
	c.TotalSpent = c.TotalSpent.Add(amountSpent)
	c.TotalOrders++
	c.LastVisitAt = &now
	c.UpdatedAt = now

	if err := l.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// GetByPhone resolves a customer without creating one.
func (l *Ledger) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	return l.repo.GetByPhone(ctx, phone)
}

// GetByID resolves a customer by id.
func (l *Ledger) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return l.repo.GetByID(ctx, customerID)
}

// History returns the customer's loyalty ledger entries.
func (l *Ledger) History(ctx context.Context, customerID id.ID) ([]*Transaction, error) {
	return l.repo.ListTransactions(ctx, customerID)
}

// List returns customers matching the filter.
func (l *Ledger) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return l.repo.List(ctx, filter)
}
