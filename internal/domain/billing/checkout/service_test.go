package checkout

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/catalogs/product"
	"garmentpos/internal/domain/customer"
	"garmentpos/internal/domain/inventory"
	"garmentpos/internal/domain/notify"
	"garmentpos/pkg/numerator"
)

// --- test doubles ---

// passthroughTx runs the function directly. Rollback semantics belong to the
// postgres TxManager; these tests assert on what the engine attempted.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// freshRow reports "number does not exist yet" to the numerator.
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

func newStockRepo() *stockRepo {
	return &stockRepo{items: make(map[string]*inventory.Item)}
}

func (r *stockRepo) add(item *inventory.Item) {
	r.items[item.Barcode] = item
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

type custRepo struct {
	byPhone      map[string]*customer.Customer
	transactions []*customer.Transaction
}

func newCustRepo() *custRepo {
	return &custRepo{byPhone: make(map[string]*customer.Customer)}
}

func (r *custRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	for _, c := range r.byPhone {
		if c.ID == customerID {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", customerID.String())
}

func (r *custRepo) GetByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	c, ok := r.byPhone[phone]
	if !ok {
		return nil, apperror.NewNotFound("customer", phone)
	}
	return c, nil
}

func (r *custRepo) GetByPhoneForUpdate(ctx context.Context, phone string) (*customer.Customer, error) {
	return r.GetByPhone(ctx, phone)
}

func (r *custRepo) Insert(ctx context.Context, c *customer.Customer) error {
	r.byPhone[c.Phone] = c
	return nil
}

func (r *custRepo) Update(ctx context.Context, c *customer.Customer) error {
	r.byPhone[c.Phone] = c
	return nil
}

func (r *custRepo) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	return nil, nil
}

func (r *custRepo) InsertTransaction(ctx context.Context, t *customer.Transaction) error {
	r.transactions = append(r.transactions, t)
	return nil
}

func (r *custRepo) ListTransactions(ctx context.Context, customerID id.ID) ([]*customer.Transaction, error) {
	return r.transactions, nil
}

type invoiceRepo struct {
	invoices []*Invoice
	items    []InvoiceItem
}

func (r *invoiceRepo) Insert(ctx context.Context, inv *Invoice) error {
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *invoiceRepo) InsertItems(ctx context.Context, items []InvoiceItem) error {
	r.items = append(r.items, items...)
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == invoiceID {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", invoiceID.String())
}

func (r *invoiceRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *invoiceRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]InvoiceItem, error) {
	var out []InvoiceItem
	for _, item := range r.items {
		if item.InvoiceID == invoiceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *invoiceRepo) GetItem(ctx context.Context, itemID id.ID) (*InvoiceItem, error) {
	for i := range r.items {
		if r.items[i].ID == itemID {
			return &r.items[i], nil
		}
	}
	return nil, apperror.NewNotFound("invoice item", itemID.String())
}

func (r *invoiceRepo) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return r.invoices, nil
}

type productStub struct {
	products map[id.ID]*product.Product
}

func (s *productStub) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

type captureNotifier struct {
	phone   string
	message string
	calls   int
}

func (n *captureNotifier) SendText(ctx context.Context, phoneNumber, message string) (notify.Result, error) {
	n.calls++
	n.phone = phoneNumber
	n.message = message
	return notify.Result{Status: notify.StatusSent}, nil
}

// --- fixture ---

type fixture struct {
	engine   *Service
	stock    *stockRepo
	custs    *custRepo
	invoices *invoiceRepo
	products *productStub
	notifier *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stock := newStockRepo()
	custs := newCustRepo()
	invoices := &invoiceRepo{}
	products := &productStub{products: make(map[id.ID]*product.Product)}
	notifier := &captureNotifier{}

	engine := NewService(
		invoices,
		inventory.NewService(stock),
		products,
		customer.NewLedger(custs),
		numerator.New(freshQuerier{}),
		passthroughTx{},
		notifier,
		types.NewMoneyFromInt(12),
	)

	return &fixture{
		engine:   engine,
		stock:    stock,
		custs:    custs,
		invoices: invoices,
		products: products,
		notifier: notifier,
	}
}

func (f *fixture) addProduct(name string, gstRate int64) *product.Product {
	p := product.NewProduct(id.New(), "Shirt")
	p.Name = name
	p.GSTRate = types.NewMoneyFromInt(gstRate)
	f.products.products[p.ID] = p
	return p
}

func (f *fixture) addStock(p *product.Product, barcode string, mrp string, qty int) *inventory.Item {
	item := inventory.NewItem(p.ID, barcode)
	item.MRP = types.MustMoney(mrp)
	item.Quantity = qty
	f.stock.add(item)
	return item
}

// --- tests ---

func TestCheckout_SingleItemReverseGST(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "8901234567890", "1000", 5)

	resp, err := f.engine.Checkout(context.Background(), Request{
		Items:         []LineRequest{{Barcode: "8901234567890", Quantity: 2}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	inv := resp.Invoice

	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{8}$`, inv.InvoiceNumber)
	assert.Equal(t, "2000", inv.TotalMRP.String())
	assert.True(t, inv.TotalDiscount.IsZero())
	assert.Equal(t, "2000", inv.TotalFinalPrice.String())
	assert.Equal(t, "1785.71", inv.TotalBaseAmount.StringFixed(2))
	assert.Equal(t, "214.29", inv.TotalGSTAmount.StringFixed(2))
	assert.Equal(t, "107.14", inv.TotalCGSTAmount.StringFixed(2))
	assert.Equal(t, "107.14", inv.TotalSGSTAmount.StringFixed(2))

	// base + gst reconstructs the inclusive price exactly
	assert.True(t, inv.TotalBaseAmount.Add(inv.TotalGSTAmount).Equal(inv.TotalFinalPrice))

	require.Len(t, inv.Items, 1)
	line := inv.Items[0]
	assert.Equal(t, "Denim-Shirt", line.ProductName)
	assert.Equal(t, "1785.71", line.BasePrice.StringFixed(2))
	assert.Equal(t, "107.14", line.CGSTAmount.StringFixed(2))

	// stock decremented
	item, err := f.stock.GetByBarcode(context.Background(), "8901234567890")
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
}

func TestCheckout_DiscountAllocationSumsExactly(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "333.33", 10)
	f.addStock(p, "222", "333.33", 10)
	f.addStock(p, "333", "333.34", 10)

	resp, err := f.engine.Checkout(context.Background(), Request{
		Items: []LineRequest{
			{Barcode: "111", Quantity: 1},
			{Barcode: "222", Quantity: 1},
			{Barcode: "333", Quantity: 1},
		},
		DiscountType:  DiscountPercent,
		DiscountValue: types.NewMoneyFromInt(10),
		PaymentMethod: "UPI",
	})
	require.NoError(t, err)
	inv := resp.Invoice

	assert.Equal(t, "1000.00", inv.TotalMRP.StringFixed(2))
	assert.Equal(t, "100.00", inv.TotalDiscount.StringFixed(2))
	assert.Equal(t, "900.00", inv.TotalFinalPrice.StringFixed(2))

	// per-line discounts reconcile to the bill discount to the paisa
	sum := types.Zero()
	for _, line := range inv.Items {
		sum = sum.Add(line.DiscountAmount)
		assert.True(t, line.TotalPrice.Sub(line.DiscountAmount).Equal(line.FinalPrice))
		assert.True(t, line.BasePrice.Add(line.GSTAmount).Equal(line.FinalPrice))
	}
	assert.True(t, sum.Equal(inv.TotalDiscount), "allocated %s want %s", sum, inv.TotalDiscount)
}

func TestCheckout_FixedDiscountCappedAtBillTotal(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "500", 5)

	resp, err := f.engine.Checkout(context.Background(), Request{
		Items:         []LineRequest{{Barcode: "111", Quantity: 1}},
		DiscountType:  DiscountFixed,
		DiscountValue: types.NewMoneyFromInt(800),
	})
	require.NoError(t, err)

	assert.Equal(t, "500", resp.Invoice.TotalDiscount.String())
	assert.True(t, resp.Invoice.TotalFinalPrice.IsZero())
}

func TestCheckout_LoyaltyRedeemAndEarn(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "2000", 5)

	existing := customer.NewCustomer("9876543210", "Asha", "")
	existing.LoyaltyPoints = 500
	require.NoError(t, f.custs.Insert(context.Background(), existing))

	resp, err := f.engine.Checkout(context.Background(), Request{
		Items:                 []LineRequest{{Barcode: "111", Quantity: 1}},
		CustomerPhone:         "9876543210",
		CustomerName:          "Asha",
		LoyaltyPointsRedeemed: 100,
		PaymentMethod:         "CARD",
	})
	require.NoError(t, err)
	inv := resp.Invoice

	// 100 points = Rs. 100 off; earn floor(1900/100) = 19 on the final price
	assert.Equal(t, "100", inv.LoyaltyDiscountAmount.String())
	assert.Equal(t, "1900", inv.TotalFinalPrice.String())
	assert.Equal(t, 19, inv.LoyaltyPointsEarned)
	assert.Equal(t, 100, inv.LoyaltyPointsRedeemed)

	// balance: 500 - 100 + 19
	updated, err := f.custs.GetByPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 419, updated.LoyaltyPoints)
	assert.Equal(t, 1, updated.TotalOrders)
	assert.Equal(t, "1900", updated.TotalSpent.String())

	// one REDEEMED and one EARNED ledger entry
	require.Len(t, f.custs.transactions, 2)
	assert.Equal(t, customer.TransactionRedeemed, f.custs.transactions[0].Type)
	assert.Equal(t, -100, f.custs.transactions[0].Points)
	assert.Equal(t, customer.TransactionEarned, f.custs.transactions[1].Type)
	assert.Equal(t, 19, f.custs.transactions[1].Points)

	// post-commit notification went to the customer
	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, "9876543210", f.notifier.phone)
	assert.Contains(t, f.notifier.message, inv.InvoiceNumber)
}

func TestCheckout_InsufficientLoyaltyPoints(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "2000", 5)

	existing := customer.NewCustomer("9876543210", "Asha", "")
	existing.LoyaltyPoints = 50
	require.NoError(t, f.custs.Insert(context.Background(), existing))

	_, err := f.engine.Checkout(context.Background(), Request{
		Items:                 []LineRequest{{Barcode: "111", Quantity: 1}},
		CustomerPhone:         "9876543210",
		LoyaltyPointsRedeemed: 100,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientLoyaltyPoints))
	assert.Empty(t, f.invoices.invoices)
}

func TestCheckout_AllOrNothingOnStockFailure(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "500", 5)
	f.addStock(p, "222", "700", 1)

	_, err := f.engine.Checkout(context.Background(), Request{
		Items: []LineRequest{
			{Barcode: "111", Quantity: 2},
			{Barcode: "222", Quantity: 3}, // only 1 in stock
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	// nothing was written
	assert.Empty(t, f.invoices.invoices)
	assert.Empty(t, f.invoices.items)
	assert.Zero(t, f.notifier.calls)
}

func TestCheckout_UnknownBarcodeFailsWholeRequest(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "500", 5)

	_, err := f.engine.Checkout(context.Background(), Request{
		Items: []LineRequest{
			{Barcode: "111", Quantity: 1},
			{Barcode: "does-not-exist", Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.invoices.invoices)
}

func TestCheckout_RequestValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty basket", Request{}},
		{"zero quantity", Request{Items: []LineRequest{{Barcode: "111", Quantity: 0}}}},
		{"negative discount", Request{
			Items:         []LineRequest{{Barcode: "111", Quantity: 1}},
			DiscountType:  DiscountFixed,
			DiscountValue: types.NewMoneyFromInt(-5),
		}},
		{"percent over 100", Request{
			Items:         []LineRequest{{Barcode: "111", Quantity: 1}},
			DiscountType:  DiscountPercent,
			DiscountValue: types.NewMoneyFromInt(120),
		}},
		{"redeem without phone", Request{
			Items:                 []LineRequest{{Barcode: "111", Quantity: 1}},
			LoyaltyPointsRedeemed: 10,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Checkout(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
		})
	}
}

func TestCheckout_AnonymousSaleSkipsLoyaltyAndNotification(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Denim-Shirt", 12)
	f.addStock(p, "111", "500", 5)

	resp, err := f.engine.Checkout(context.Background(), Request{
		Items: []LineRequest{{Barcode: "111", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Invoice.CustomerID)
	assert.Zero(t, resp.Invoice.LoyaltyPointsEarned)
	assert.Zero(t, f.notifier.calls)
	assert.Empty(t, f.custs.transactions)
}
