package inventory

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

// memRepo is an in-memory Repository for unit tests. The mutex stands in for
// the row lock the postgres implementation takes with SELECT ... FOR UPDATE.
type memRepo struct {
	mu    sync.Mutex
	items map[string]*Item
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*Item)}
}

func (r *memRepo) GetByBarcode(ctx context.Context, barcode string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[barcode]
	if !ok {
		return nil, apperror.NewNotFound("inventory item", barcode)
	}
	copied := *item
	return &copied, nil
}

func (r *memRepo) GetByBarcodeForUpdate(ctx context.Context, barcode string) (*Item, error) {
	return r.GetByBarcode(ctx, barcode)
}

func (r *memRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("inventory item", itemID.String())
}

func (r *memRepo) Insert(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.Barcode]; exists {
		return apperror.NewDuplicate("inventory item", "barcode", item.Barcode)
	}
	copied := *item
	r.items[item.Barcode] = &copied
	return nil
}

func (r *memRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID {
			item.Quantity = quantity
			return nil
		}
	}
	return apperror.NewNotFound("inventory item", itemID.String())
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

func seedItem(t *testing.T, repo *memRepo, barcode string, qty int) *Item {
	t.Helper()
	item := NewItem(id.New(), barcode)
	item.DesignNumber = "D-100"
	item.Size = "M"
	item.Color = "Blue"
	item.CostPrice = types.MustMoney("400")
	item.MRP = types.MustMoney("1000")
	item.Quantity = qty
	require.NoError(t, repo.Insert(context.Background(), item))
	return item
}

func TestReserveAndDecrement(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	seedItem(t, repo, "BC-001", 5)

	item, err := svc.ReserveAndDecrement(ctx, "BC-001", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	stored, err := repo.GetByBarcode(ctx, "BC-001")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)
}

func TestReserveAndDecrement_InsufficientStock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	seedItem(t, repo, "BC-002", 1)

	_, err := svc.ReserveAndDecrement(ctx, "BC-002", 3)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 3, appErr.Details["requested"])
	assert.Equal(t, 1, appErr.Details["available"])

	// No state change on failure.
	stored, err := repo.GetByBarcode(ctx, "BC-002")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Quantity)
}

func TestReserveAndDecrement_LastUnitOnlyOnce(t *testing.T) {
	// Two requests racing for the last unit: the row lock serializes them,
	// so exactly one succeeds and the other sees zero stock.
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	seedItem(t, repo, "BC-003", 1)

	_, firstErr := svc.ReserveAndDecrement(ctx, "BC-003", 1)
	_, secondErr := svc.ReserveAndDecrement(ctx, "BC-003", 1)

	require.NoError(t, firstErr)
	require.Error(t, secondErr)
	assert.True(t, apperror.HasCode(secondErr, apperror.CodeInsufficientStock))

	stored, err := repo.GetByBarcode(ctx, "BC-003")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Quantity, "quantity must never go negative")
}

func TestReserveAndDecrement_NotFound(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.ReserveAndDecrement(context.Background(), "MISSING", 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRestock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	seedItem(t, repo, "BC-004", 0)

	require.NoError(t, svc.Restock(ctx, "BC-004", 2))

	stored, err := repo.GetByBarcode(ctx, "BC-004")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)
}

func TestRestock_NotFound(t *testing.T) {
	svc := NewService(newMemRepo())
	err := svc.Restock(context.Background(), "MISSING", 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegisterNew_DuplicateBarcode(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()
	seedItem(t, repo, "BC-005", 1)

	dup := NewItem(id.New(), "BC-005")
	dup.DesignNumber = "D-200"
	dup.Size = "L"
	dup.Color = "Red"
	dup.MRP = types.MustMoney("1500")
	dup.Quantity = 1

	err := svc.RegisterNew(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestRegisterNew_RejectsInvalid(t *testing.T) {
	svc := NewService(newMemRepo())

	item := NewItem(id.New(), "")
	err := svc.RegisterNew(context.Background(), item)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
