package returns

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/domain/inventory"
	"garmentpos/pkg/numerator"
)

// --- test doubles ---

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type freshRow struct{}

func (freshRow) Scan(dest ...any) error {
	if b, ok := dest[0].(*bool); ok {
		*b = false
	}
	return nil
}

type freshQuerier struct{}

func (freshQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return freshRow{}
}

type stockRepo struct {
	items map[string]*inventory.Item
}

func (r *stockRepo) GetByBarcode(ctx context.Context, barcode string) (*inventory.Item, error) {
	item, ok := r.items[barcode]
	if !ok {
		return nil, apperror.NewNotFound("inventory item", barcode)
	}
	copied := *item
	return &copied, nil
}

func (r *stockRepo) GetByBarcodeForUpdate(ctx context.Context, barcode string) (*inventory.Item, error) {
	return r.GetByBarcode(ctx, barcode)
}

func (r *stockRepo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	for _, item := range r.items {
		if item.ID == itemID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("inventory item", itemID.String())
}

func (r *stockRepo) Insert(ctx context.Context, item *inventory.Item) error {
	r.items[item.Barcode] = item
	return nil
}

func (r *stockRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	for _, item := range r.items {
		if item.ID == itemID {
			item.Quantity = quantity
			return nil
		}
	}
	return apperror.NewNotFound("inventory item", itemID.String())
}

func (r *stockRepo) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	return nil, nil
}

type invoiceStore struct {
	invoices []*checkout.Invoice
	items    []checkout.InvoiceItem
}

func (r *invoiceStore) Insert(ctx context.Context, inv *checkout.Invoice) error {
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *invoiceStore) InsertItems(ctx context.Context, items []checkout.InvoiceItem) error {
	r.items = append(r.items, items...)
	return nil
}

func (r *invoiceStore) GetByID(ctx context.Context, invoiceID id.ID) (*checkout.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == invoiceID {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", invoiceID.String())
}

func (r *invoiceStore) GetByNumber(ctx context.Context, number string) (*checkout.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *invoiceStore) GetItems(ctx context.Context, invoiceID id.ID) ([]checkout.InvoiceItem, error) {
	var out []checkout.InvoiceItem
	for _, item := range r.items {
		if item.InvoiceID == invoiceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *invoiceStore) GetItem(ctx context.Context, itemID id.ID) (*checkout.InvoiceItem, error) {
	for i := range r.items {
		if r.items[i].ID == itemID {
			return &r.items[i], nil
		}
	}
	return nil, apperror.NewNotFound("invoice item", itemID.String())
}

func (r *invoiceStore) List(ctx context.Context, filter checkout.ListFilter) ([]*checkout.Invoice, error) {
	return r.invoices, nil
}

type returnStore struct {
	returns []*Return
	items   []ReturnItem
}

func (r *returnStore) Insert(ctx context.Context, ret *Return) error {
	r.returns = append(r.returns, ret)
	return nil
}

func (r *returnStore) InsertItems(ctx context.Context, items []ReturnItem) error {
	r.items = append(r.items, items...)
	return nil
}

func (r *returnStore) GetByID(ctx context.Context, returnID id.ID) (*Return, error) {
	for _, ret := range r.returns {
		if ret.ID == returnID {
			return ret, nil
		}
	}
	return nil, apperror.NewNotFound("return", returnID.String())
}

func (r *returnStore) GetByNumber(ctx context.Context, number string) (*Return, error) {
	for _, ret := range r.returns {
		if ret.ReturnNumber == number {
			return ret, nil
		}
	}
	return nil, apperror.NewNotFound("return", number)
}

func (r *returnStore) GetItems(ctx context.Context, returnID id.ID) ([]ReturnItem, error) {
	var out []ReturnItem
	for _, item := range r.items {
		if item.ReturnID == returnID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *returnStore) CountByInvoice(ctx context.Context, invoiceID id.ID) (int, error) {
	n := 0
	for _, ret := range r.returns {
		if ret.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r *returnStore) List(ctx context.Context, filter ListFilter) ([]*Return, error) {
	return r.returns, nil
}

// --- fixture ---

type fixture struct {
	engine   *Service
	stock    *stockRepo
	invoices *invoiceStore
	returns  *returnStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stock := &stockRepo{items: make(map[string]*inventory.Item)}
	invoices := &invoiceStore{}
	rets := &returnStore{}

	engine := NewService(
		rets,
		invoices,
		inventory.NewService(stock),
		numerator.New(freshQuerier{}),
		passthroughTx{},
	)

	return &fixture{engine: engine, stock: stock, invoices: invoices, returns: rets}
}

// seedInvoice creates a committed two-unit invoice line: MRP 1000 each,
// no discount, 12% GST.
func (f *fixture) seedInvoice(t *testing.T) (*checkout.Invoice, checkout.InvoiceItem) {
	t.Helper()

	item := inventory.NewItem(id.New(), "8901234567890")
	item.MRP = types.MustMoney("1000")
	item.Quantity = 3 // after the sale of 2
	require.NoError(t, f.stock.Insert(context.Background(), item))

	now := time.Now().UTC()
	inv := &checkout.Invoice{
		ID:              id.New(),
		InvoiceNumber:   "INV-20260901-AAAA1111",
		TotalMRP:        types.MustMoney("2000"),
		TotalDiscount:   types.Zero(),
		TotalFinalPrice: types.MustMoney("2000"),
		TotalBaseAmount: types.MustMoney("1785.71"),
		TotalGSTAmount:  types.MustMoney("214.29"),
		TotalCGSTAmount: types.MustMoney("107.14"),
		TotalSGSTAmount: types.MustMoney("107.14"),
		CreatedAt:       now,
	}
	line := checkout.InvoiceItem{
		ID:              id.New(),
		InvoiceID:       inv.ID,
		InventoryItemID: item.ID,
		Barcode:         item.Barcode,
		ProductName:     "Denim-Shirt",
		UnitPrice:       types.MustMoney("1000"),
		Quantity:        2,
		TotalPrice:      types.MustMoney("2000"),
		DiscountAmount:  types.Zero(),
		FinalPrice:      types.MustMoney("2000"),
		BasePrice:       types.MustMoney("1785.71"),
		GSTAmount:       types.MustMoney("214.29"),
		CGSTAmount:      types.MustMoney("107.14"),
		SGSTAmount:      types.MustMoney("107.14"),
		GSTRate:         types.NewMoneyFromInt(12),
		CreatedAt:       now,
	}
	require.NoError(t, f.invoices.Insert(context.Background(), inv))
	require.NoError(t, f.invoices.InsertItems(context.Background(), []checkout.InvoiceItem{line}))
	return inv, line
}

// --- tests ---

func TestReturn_PartialQuantityProportionalReversal(t *testing.T) {
	f := newFixture(t)
	_, line := f.seedInvoice(t)

	resp, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 1}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("1000"),
		Reason:        "size exchange not possible",
	})
	require.NoError(t, err)
	ret := resp.Return

	assert.Regexp(t, `^RET-\d{8}-[0-9A-F]{8}$`, ret.ReturnNumber)
	assert.Equal(t, "-1000.00", ret.TotalReturnAmount.StringFixed(2))
	assert.Equal(t, "-107.15", ret.TotalGSTAmount.StringFixed(2))
	assert.Equal(t, "1000.00", ret.CashRefund.StringFixed(2))
	assert.True(t, ret.WalletCredit.IsZero())

	require.Len(t, ret.Items, 1)
	ri := ret.Items[0]
	assert.Equal(t, 2, ri.OriginalQuantity)
	assert.Equal(t, 1, ri.ReturnQuantity)
	assert.Equal(t, "-1000.00", ri.TotalReturnPrice.StringFixed(2))

	// GST reversal scales the stored line amounts, half of 214.29
	assert.Equal(t, "-107.15", ri.ReturnGSTAmount.StringFixed(2))
	assert.Equal(t, "-53.57", ri.ReturnCGSTAmount.StringFixed(2))

	// restocked: 3 + 1
	item, err := f.stock.GetByBarcode(context.Background(), "8901234567890")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
}

func TestReturn_FullQuantityReversesStoredAmountsExactly(t *testing.T) {
	f := newFixture(t)
	_, line := f.seedInvoice(t)

	resp, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 2}},
		Method:        MethodWallet,
		WalletCredit:  types.MustMoney("2000"),
	})
	require.NoError(t, err)
	ret := resp.Return

	assert.True(t, ret.TotalReturnAmount.Equal(line.FinalPrice.Neg()))
	assert.True(t, ret.TotalGSTAmount.Equal(line.GSTAmount.Neg()))
	assert.True(t, ret.TotalCGSTAmount.Equal(line.CGSTAmount.Neg()))
	assert.Equal(t, "2000.00", ret.WalletCredit.StringFixed(2))
	assert.True(t, ret.CashRefund.IsZero())
}

func TestReturn_InvoiceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-DEADBEEF",
		Items:         []LineRequest{{InvoiceItemID: id.New(), ReturnQuantity: 1}},
		Method:        MethodCash,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReturn_SecondReturnAlwaysRejected(t *testing.T) {
	f := newFixture(t)
	_, line := f.seedInvoice(t)

	_, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 1}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("1000"),
	})
	require.NoError(t, err)

	// a second return is rejected regardless of line selection
	_, err = f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 1}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("1000"),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeAlreadyReturned))
	assert.Len(t, f.returns.returns, 1)
}

func TestReturn_ExcessiveQuantityRejectedWithoutStateChange(t *testing.T) {
	f := newFixture(t)
	_, line := f.seedInvoice(t)

	_, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 5}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("5000"),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeExcessiveReturnQuantity))

	assert.Empty(t, f.returns.returns)
	item, getErr := f.stock.GetByBarcode(context.Background(), "8901234567890")
	require.NoError(t, getErr)
	assert.Equal(t, 3, item.Quantity)
}

func TestReturn_RefundAmountMismatch(t *testing.T) {
	f := newFixture(t)
	_, line := f.seedInvoice(t)

	_, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: line.ID, ReturnQuantity: 1}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("999"),
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeRefundAmountMismatch))
	assert.Empty(t, f.returns.returns)
}

func TestReturn_ForeignInvoiceItemRejected(t *testing.T) {
	f := newFixture(t)
	f.seedInvoice(t)

	// an item id that exists on no invoice
	_, err := f.engine.Process(context.Background(), Request{
		InvoiceNumber: "INV-20260901-AAAA1111",
		Items:         []LineRequest{{InvoiceItemID: id.New(), ReturnQuantity: 1}},
		Method:        MethodCash,
		CashRefund:    types.MustMoney("1000"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReturn_RequestValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"missing invoice number", Request{
			Items:  []LineRequest{{InvoiceItemID: id.New(), ReturnQuantity: 1}},
			Method: MethodCash,
		}},
		{"no lines", Request{InvoiceNumber: "INV-X", Method: MethodCash}},
		{"zero quantity", Request{
			InvoiceNumber: "INV-X",
			Items:         []LineRequest{{InvoiceItemID: id.New(), ReturnQuantity: 0}},
			Method:        MethodCash,
		}},
		{"unknown method", Request{
			InvoiceNumber: "INV-X",
			Items:         []LineRequest{{InvoiceItemID: id.New(), ReturnQuantity: 1}},
			Method:        Method("CHEQUE"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Process(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}
