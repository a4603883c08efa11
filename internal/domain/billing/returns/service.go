package returns

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/tx"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/domain/inventory"
	"garmentpos/pkg/logger"
	"garmentpos/pkg/numerator"
)

// Service is the return engine.
type Service struct {
	repo      Repository
	invoices  checkout.Repository
	inventory *inventory.Service
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new return engine.
func NewService(
	repo Repository,
	invoices checkout.Repository,
	inv *inventory.Service,
	num *numerator.Service,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		inventory: inv,
		numerator: num,
		txManager: txManager,
	}
}

// Process executes one return request: resolves the invoice, validates every
// requested line, computes proportional reversal amounts from the original
// line snapshots, verifies the declared payout, then commits the return and
// restocks the inventory as one unit.
func (s *Service) Process(ctx context.Context, req Request) (*Response, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var ret *Return
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		committed, err := s.processInTx(ctx, req)
		if err != nil {
			return err
		}
		ret = committed
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewCommitFailure(err)
	}

	logger.Info(ctx, "return committed",
		"return_number", ret.ReturnNumber,
		"invoice_number", ret.InvoiceNumber,
		"amount", ret.TotalReturnAmount.StringFixed(2),
	)

	return &Response{
		Return:  ret,
		Message: fmt.Sprintf("Return %s processed successfully!", ret.ReturnNumber),
	}, nil
}

func (s *Service) validateRequest(req Request) error {
	if req.InvoiceNumber == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "invoiceNumber")
	}
	if len(req.Items) == 0 {
		return apperror.NewValidation("at least one return line is required").
			WithDetail("field", "items")
	}
	for i, line := range req.Items {
		if id.IsNil(line.InvoiceItemID) {
			return apperror.NewValidation("invoice item id is required").
				WithDetail("field", "items").WithDetail("line", i+1)
		}
		if line.ReturnQuantity <= 0 {
			return apperror.NewValidation("return quantity must be positive").
				WithDetail("field", "items").WithDetail("line", i+1)
		}
	}

	switch req.Method {
	case MethodCash, MethodWallet, MethodStoreCredit:
	default:
		return apperror.NewValidation("unknown return method").
			WithDetail("return_method", string(req.Method))
	}

	if req.CashRefund.IsNegative() || req.WalletCredit.IsNegative() {
		return apperror.NewValidation("refund amounts cannot be negative")
	}

	return nil
}

func (s *Service) processInTx(ctx context.Context, req Request) (*Return, error) {
	inv, err := s.invoices.GetByNumber(ctx, req.InvoiceNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", req.InvoiceNumber)
		}
		return nil, err
	}

	// Binary policy: one return per invoice, even if the first return only
	// covered some lines.
	count, err := s.repo.CountByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("count returns for invoice: %w", err)
	}
	if count > 0 {
		return nil, apperror.NewAlreadyReturned(inv.InvoiceNumber)
	}

	now := time.Now().UTC()
	ret := &Return{
		ID:            id.New(),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		Method:        req.Method,
		Reason:        req.Reason,
		Notes:         req.Notes,
		CashRefund:    types.Zero(),
		WalletCredit:  types.Zero(),
		CreatedAt:     now,
	}

	totalAmount := types.Zero()
	totalGST := types.Zero()
	totalCGST := types.Zero()
	totalSGST := types.Zero()

	items := make([]ReturnItem, 0, len(req.Items))
	for _, lineReq := range req.Items {
		origin, err := s.invoices.GetItem(ctx, lineReq.InvoiceItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("invoice item", lineReq.InvoiceItemID.String())
			}
			return nil, err
		}
		if origin.InvoiceID != inv.ID {
			return nil, apperror.NewNotFound("invoice item", lineReq.InvoiceItemID.String())
		}
		if lineReq.ReturnQuantity > origin.Quantity {
			return nil, apperror.NewExcessiveReturnQuantity(
				origin.ID.String(), lineReq.ReturnQuantity, origin.Quantity)
		}

		item := reverseLine(ret.ID, origin, lineReq.ReturnQuantity, now)
		totalAmount = totalAmount.Add(item.TotalReturnPrice)
		totalGST = totalGST.Add(item.ReturnGSTAmount)
		totalCGST = totalCGST.Add(item.ReturnCGSTAmount)
		totalSGST = totalSGST.Add(item.ReturnSGSTAmount)
		items = append(items, item)
	}

	ret.TotalReturnAmount = totalAmount
	ret.TotalGSTAmount = totalGST
	ret.TotalCGSTAmount = totalCGST
	ret.TotalSGSTAmount = totalSGST
	ret.Items = items

	refundDue := totalAmount.Abs()
	switch req.Method {
	case MethodCash:
		if !req.CashRefund.Equal(refundDue) {
			return nil, apperror.NewRefundAmountMismatch(
				string(req.Method), req.CashRefund.StringFixed(2), refundDue.StringFixed(2))
		}
		ret.CashRefund = refundDue
	case MethodWallet, MethodStoreCredit:
		if !req.WalletCredit.Equal(refundDue) {
			return nil, apperror.NewRefundAmountMismatch(
				string(req.Method), req.WalletCredit.StringFixed(2), refundDue.StringFixed(2))
		}
		ret.WalletCredit = refundDue
	}

	number, err := s.numerator.NextRandom(ctx, numerator.DefaultConfig("RET"), "returns", "return_number", now)
	if err != nil {
		return nil, fmt.Errorf("generate return number: %w", err)
	}
	ret.ReturnNumber = number

	if err := s.repo.Insert(ctx, ret); err != nil {
		return nil, fmt.Errorf("insert return: %w", err)
	}
	if err := s.repo.InsertItems(ctx, items); err != nil {
		return nil, fmt.Errorf("insert return items: %w", err)
	}

	for _, item := range items {
		if err := s.inventory.Restock(ctx, item.Barcode, item.ReturnQuantity); err != nil {
			return nil, err
		}
	}

	// Loyalty points earned on the original invoice are not revoked.

	return ret, nil
}

// reverseLine computes one line's negative reversal amounts from the original
// invoice item's per-unit values. Stored GST fields are scaled, never
// recomputed from current rates.
func reverseLine(returnID id.ID, origin *checkout.InvoiceItem, returnQty int, now time.Time) ReturnItem {
	qty := types.NewMoneyFromInt(int64(origin.Quantity))
	scale := types.NewMoneyFromInt(int64(returnQty))

	proportion := func(total types.Money) types.Money {
		return types.Round2(total.Div(qty).Mul(scale)).Neg()
	}

	return ReturnItem{
		ID:               id.New(),
		ReturnID:         returnID,
		InvoiceItemID:    origin.ID,
		InventoryItemID:  origin.InventoryItemID,
		Barcode:          origin.Barcode,
		ProductName:      origin.ProductName,
		OriginalQuantity: origin.Quantity,
		ReturnQuantity:   returnQty,
		TotalReturnPrice: proportion(origin.FinalPrice),
		ReturnGSTAmount:  proportion(origin.GSTAmount),
		ReturnCGSTAmount: proportion(origin.CGSTAmount),
		ReturnSGSTAmount: proportion(origin.SGSTAmount),
		CreatedAt:        now,
	}
}

// GetByNumber retrieves a return with its items.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Return, error) {
	ret, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, ret.ID)
	if err != nil {
		return nil, fmt.Errorf("get return items: %w", err)
	}
	ret.Items = items
	return ret, nil
}

// List retrieves returns without their items.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Return, error) {
	return s.repo.List(ctx, filter)
}

// PreviewByInvoiceNumber resolves an invoice with its lines and reports
// whether it is still eligible for a return. The answer is advisory: the
// binary policy is re-checked inside the commit transaction.
func (s *Service) PreviewByInvoiceNumber(ctx context.Context, number string) (*Preview, error) {
	inv, err := s.invoices.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", number)
		}
		return nil, err
	}

	items, err := s.invoices.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	inv.Items = items

	count, err := s.repo.CountByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("count returns for invoice: %w", err)
	}

	preview := &Preview{Invoice: inv, CanReturn: count == 0}
	if count > 0 {
		preview.Reason = "invoice already has a return"
	}
	return preview, nil
}
