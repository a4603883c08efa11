package customer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
)

type memRepo struct {
	mu           sync.Mutex
	byPhone      map[string]*Customer
	transactions []*Transaction
}

func newMemRepo() *memRepo {
	return &memRepo{byPhone: make(map[string]*Customer)}
}

func (r *memRepo) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byPhone {
		if c.ID == customerID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("customer", customerID.String())
}

func (r *memRepo) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byPhone[phone]
	if !ok {
		return nil, apperror.NewNotFound("customer", phone)
	}
	copied := *c
	return &copied, nil
}

func (r *memRepo) GetByPhoneForUpdate(ctx context.Context, phone string) (*Customer, error) {
	return r.GetByPhone(ctx, phone)
}

func (r *memRepo) Insert(ctx context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[c.Phone]; exists {
		return apperror.NewDuplicate("customer", "phone", c.Phone)
	}
	copied := *c
	r.byPhone[c.Phone] = &copied
	return nil
}

func (r *memRepo) Update(ctx context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[c.Phone]; !exists {
		return apperror.NewNotFound("customer", c.Phone)
	}
	copied := *c
	r.byPhone[c.Phone] = &copied
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Customer, 0, len(r.byPhone))
	for _, c := range r.byPhone {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memRepo) InsertTransaction(ctx context.Context, t *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.transactions = append(r.transactions, &copied)
	return nil
}

func (r *memRepo) ListTransactions(ctx context.Context, customerID id.ID) ([]*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Transaction
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func TestPointsEarned(t *testing.T) {
	ledger := NewLedger(newMemRepo())

	tests := []struct {
		amount string
		want   int
	}{
		{"0", 0},
		{"99.99", 0},
		{"100", 1},
		{"199.99", 1},
		{"1900", 19},
		{"2000", 20},
		{"-50", 0},
	}

	for _, tt := range tests {
		got := ledger.PointsEarned(types.MustMoney(tt.amount))
		assert.Equal(t, tt.want, got, "amount %s", tt.amount)
	}
}

func TestResolveOrCreate_LazyCreation(t *testing.T) {
	repo := newMemRepo()
	ledger := NewLedger(repo)
	ctx := context.Background()

	c, err := ledger.ResolveOrCreate(ctx, "9876543210", "Priya", "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", c.Phone)
	assert.Equal(t, 0, c.LoyaltyPoints)

	// Second resolve returns the same customer, not a duplicate.
	again, err := ledger.ResolveOrCreate(ctx, "9876543210", "", "")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
}

func TestRedeem(t *testing.T) {
	ledger := NewLedger(newMemRepo())
	ctx := context.Background()

	c := NewCustomer("9000000001", "Asha", "")
	c.LoyaltyPoints = 500

	discount, err := ledger.Redeem(ctx, c, 100)
	require.NoError(t, err)
	assert.True(t, discount.Equal(types.MustMoney("100")), "1 point = 1 currency unit")
	assert.Equal(t, 400, c.LoyaltyPoints)
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	ledger := NewLedger(newMemRepo())

	c := NewCustomer("9000000002", "", "")
	c.LoyaltyPoints = 50

	_, err := ledger.Redeem(context.Background(), c, 100)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientLoyaltyPoints))
	assert.Equal(t, 50, c.LoyaltyPoints, "balance unchanged on failure")
}

func TestRedeem_InvalidRequest(t *testing.T) {
	ledger := NewLedger(newMemRepo())
	c := NewCustomer("9000000003", "", "")
	c.LoyaltyPoints = 10

	for _, points := range []int{0, -5} {
		_, err := ledger.Redeem(context.Background(), c, points)
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "points=%d", points)
	}
}

func TestRecordEarn_AppendsLedgerEntry(t *testing.T) {
	repo := newMemRepo()
	ledger := NewLedger(repo)
	ctx := context.Background()

	c, err := ledger.ResolveOrCreate(ctx, "9000000004", "", "")
	require.NoError(t, err)

	invoiceID := id.New()
	require.NoError(t, ledger.RecordEarn(ctx, c, invoiceID, 19, types.MustMoney("1900")))
	assert.Equal(t, 19, c.LoyaltyPoints)

	history, err := ledger.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, TransactionEarned, history[0].Type)
	assert.Equal(t, 19, history[0].Points)
	require.NotNil(t, history[0].InvoiceID)
	assert.Equal(t, invoiceID, *history[0].InvoiceID)
}

func TestRecordRedeem_NegativePoints(t *testing.T) {
	repo := newMemRepo()
	ledger := NewLedger(repo)
	ctx := context.Background()

	c, err := ledger.ResolveOrCreate(ctx, "9000000005", "", "")
	require.NoError(t, err)

	require.NoError(t, ledger.RecordRedeem(ctx, c, id.New(), 100, types.MustMoney("100")))

	history, err := ledger.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, TransactionRedeemed, history[0].Type)
	assert.Equal(t, -100, history[0].Points)
}

func TestRecordVisit(t *testing.T) {
	repo := newMemRepo()
	ledger := NewLedger(repo)
	ctx := context.Background()

	c, err := ledger.ResolveOrCreate(ctx, "9000000006", "", "")
	require.NoError(t, err)

	require.NoError(t, ledger.RecordVisit(ctx, c, types.MustMoney("1900")))

	stored, err := ledger.GetByPhone(ctx, "9000000006")
	require.NoError(t, err)
	assert.True(t, stored.TotalSpent.Equal(types.MustMoney("1900")))
	assert.Equal(t, 1, stored.TotalOrders)
	assert.NotNil(t, stored.LastVisitAt)
}
