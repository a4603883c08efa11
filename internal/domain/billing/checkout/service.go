package checkout

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/tx"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/catalogs/product"
	"garmentpos/internal/domain/customer"
	"garmentpos/internal/domain/inventory"
	"garmentpos/internal/domain/notify"
	"garmentpos/internal/domain/tax"
	"garmentpos/pkg/logger"
	"garmentpos/pkg/numerator"
)

// ProductLookup resolves catalog data for invoice line snapshots.
type ProductLookup interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// Service is the checkout engine. One request moves through
// validating -> pricing -> committing; no intermediate state is externally
// visible. Everything commits as a single transaction or nothing does.
type Service struct {
	repo      Repository
	inventory *inventory.Service
	products  ProductLookup
	ledger    *customer.Ledger
	numerator *numerator.Service
	txManager tx.Manager
	notifier  notify.Notifier

	defaultGSTRate types.Money
}

// NewService creates a new checkout engine.
func NewService(
	repo Repository,
	inv *inventory.Service,
	products ProductLookup,
	ledger *customer.Ledger,
	num *numerator.Service,
	txManager tx.Manager,
	notifier notify.Notifier,
	defaultGSTRate types.Money,
) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Service{
		repo:           repo,
		inventory:      inv,
		products:       products,
		ledger:         ledger,
		numerator:      num,
		txManager:      txManager,
		notifier:       notifier,
		defaultGSTRate: defaultGSTRate,
	}
}

// pricedLine carries the locked inventory item and its catalog snapshot
// through the pricing phase.
type pricedLine struct {
	item        *inventory.Item
	quantity    int
	productName string
	gstRate     types.Money
	lineMRP     types.Money
}

// Checkout executes one checkout request.
func (s *Service) Checkout(ctx context.Context, req Request) (*Response, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		committed, err := s.checkoutInTx(ctx, req)
		if err != nil {
			return err
		}
		inv = committed
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewCommitFailure(err)
	}

	logger.Info(ctx, "invoice committed",
		"invoice_number", inv.InvoiceNumber,
		"total", inv.TotalFinalPrice.StringFixed(2),
		"lines", len(inv.Items),
	)

	// Post-commit collaborator: delivery failure never un-commits the invoice.
	s.notifyCustomer(ctx, inv)

	return &Response{
		Invoice: inv,
		Message: fmt.Sprintf("Invoice %s created successfully!", inv.InvoiceNumber),
	}, nil
}

func (s *Service) validateRequest(req Request) error {
	if len(req.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, line := range req.Items {
		if line.Barcode == "" {
			return apperror.NewValidation("barcode is required").
				WithDetail("field", "items").WithDetail("line", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").WithDetail("line", i+1)
		}
	}

	switch req.DiscountType {
	case "", DiscountPercent, DiscountFixed:
	default:
		return apperror.NewValidation("unknown discount type").
			WithDetail("discount_type", string(req.DiscountType))
	}
	if req.DiscountValue.IsNegative() {
		return apperror.NewValidation("discount value cannot be negative").
			WithDetail("discount_value", req.DiscountValue.String())
	}
	if req.DiscountType == DiscountPercent && req.DiscountValue.GreaterThan(types.Hundred) {
		return apperror.NewValidation("percent discount cannot exceed 100").
			WithDetail("discount_value", req.DiscountValue.String())
	}

	if req.LoyaltyPointsRedeemed < 0 {
		return apperror.NewValidation("loyalty points to redeem cannot be negative")
	}
	if req.LoyaltyPointsRedeemed > 0 && req.CustomerPhone == "" {
		return apperror.NewValidation("customer phone is required to redeem loyalty points")
	}

	return nil
}

// checkoutInTx runs the validating, pricing and committing phases inside the
// surrounding transaction. Inventory rows are locked (and decremented) line
// by line; any later failure rolls the whole unit of work back.
func (s *Service) checkoutInTx(ctx context.Context, req Request) (*Invoice, error) {
	// --- Validating: resolve and reserve every line ---
	lines := make([]pricedLine, 0, len(req.Items))
	totalMRP := types.Zero()

	for _, lineReq := range req.Items {
		item, err := s.inventory.ReserveAndDecrement(ctx, lineReq.Barcode, lineReq.Quantity)
		if err != nil {
			return nil, err
		}

		prod, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product for %s: %w", lineReq.Barcode, err)
		}

		gstRate := prod.GSTRate
		if gstRate.IsZero() {
			gstRate = s.defaultGSTRate
		}

		lineMRP := item.MRP.Mul(types.NewMoneyFromInt(int64(lineReq.Quantity)))
		totalMRP = totalMRP.Add(lineMRP)

		lines = append(lines, pricedLine{
			item:        item,
			quantity:    lineReq.Quantity,
			productName: prod.Name,
			gstRate:     gstRate,
			lineMRP:     lineMRP,
		})
	}

	// --- Pricing ---
	var cust *customer.Customer
	if req.CustomerPhone != "" {
		var err error
		cust, err = s.ledger.ResolveOrCreate(ctx, req.CustomerPhone, req.CustomerName, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
	}

	billDiscount := types.Zero()
	switch req.DiscountType {
	case DiscountPercent:
		billDiscount = types.Round2(totalMRP.Mul(req.DiscountValue).Div(types.Hundred))
	case DiscountFixed:
		billDiscount = req.DiscountValue
		if billDiscount.GreaterThan(totalMRP) {
			billDiscount = totalMRP
		}
	}

	loyaltyDiscount := types.Zero()
	if req.LoyaltyPointsRedeemed > 0 {
		var err error
		loyaltyDiscount, err = s.ledger.Redeem(ctx, cust, req.LoyaltyPointsRedeemed)
		if err != nil {
			return nil, err
		}
	}

	totalDiscount := billDiscount.Add(loyaltyDiscount)
	if totalDiscount.GreaterThan(totalMRP) {
		return nil, apperror.NewValidation("total discount cannot exceed bill total").
			WithDetail("total_mrp", totalMRP.StringFixed(2)).
			WithDetail("total_discount", totalDiscount.StringFixed(2))
	}
	totalFinal := totalMRP.Sub(totalDiscount)

	// Aggregate reverse split at the blended rate: the first line's product
	// rate (they are usually uniform), falling back to the configured default.
	// Aggregates are stored from this split, not re-derived by summing
	// rounded line values.
	blendedRate := s.defaultGSTRate
	if len(lines) > 0 {
		blendedRate = lines[0].gstRate
	}
	aggregate, err := tax.ReverseSplit(totalFinal, blendedRate)
	if err != nil {
		return nil, err
	}

	lineAmounts := make([]types.Money, len(lines))
	for i, line := range lines {
		lineAmounts[i] = line.lineMRP
	}
	lineDiscounts := make([]types.Money, len(lines))
	if totalDiscount.IsPositive() {
		lineDiscounts, err = tax.AllocateDiscounts(lineAmounts, totalDiscount)
		if err != nil {
			return nil, err
		}
	}

	// --- Committing ---
	now := time.Now().UTC()
	number, err := s.numerator.NextRandom(ctx, numerator.DefaultConfig("INV"), "invoices", "invoice_number", now)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	inv := &Invoice{
		ID:              id.New(),
		InvoiceNumber:   number,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		TotalMRP:        totalMRP,
		TotalDiscount:   totalDiscount,
		TotalFinalPrice: totalFinal,
		TotalBaseAmount: aggregate.Base,
		TotalGSTAmount:  aggregate.GST,
		TotalCGSTAmount: aggregate.CGST,
		TotalSGSTAmount: aggregate.SGST,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		CreatedAt:       now,
	}
	if cust != nil {
		inv.CustomerID = &cust.ID
	}

	items := make([]InvoiceItem, 0, len(lines))
	for i, line := range lines {
		lineFinal := line.lineMRP.Sub(lineDiscounts[i])
		// Each line reverse-splits at its own product rate.
		split, err := tax.ReverseSplit(lineFinal, line.gstRate)
		if err != nil {
			return nil, err
		}

		items = append(items, InvoiceItem{
			ID:              id.New(),
			InvoiceID:       inv.ID,
			InventoryItemID: line.item.ID,
			Barcode:         line.item.Barcode,
			ProductName:     line.productName,
			DesignNumber:    line.item.DesignNumber,
			Size:            line.item.Size,
			Color:           line.item.Color,
			UnitPrice:       line.item.MRP,
			Quantity:        line.quantity,
			TotalPrice:      line.lineMRP,
			DiscountAmount:  lineDiscounts[i],
			FinalPrice:      lineFinal,
			BasePrice:       split.Base,
			GSTAmount:       split.GST,
			CGSTAmount:      split.CGST,
			SGSTAmount:      split.SGST,
			GSTRate:         line.gstRate,
			CreatedAt:       now,
		})
	}
	inv.Items = items

	if cust != nil {
		// Earn basis is the post-discount final price; redemption reduces
		// what the customer earns on.
		earned := s.ledger.PointsEarned(totalFinal)
		inv.LoyaltyPointsEarned = earned
		inv.LoyaltyPointsRedeemed = req.LoyaltyPointsRedeemed
		inv.LoyaltyDiscountAmount = loyaltyDiscount
	} else {
		inv.LoyaltyDiscountAmount = types.Zero()
	}

	if err := s.repo.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	if err := s.repo.InsertItems(ctx, items); err != nil {
		return nil, fmt.Errorf("insert invoice items: %w", err)
	}

	if cust != nil {
		if req.LoyaltyPointsRedeemed > 0 {
			if err := s.ledger.RecordRedeem(ctx, cust, inv.ID, req.LoyaltyPointsRedeemed, loyaltyDiscount); err != nil {
				return nil, err
			}
		}
		if err := s.ledger.RecordEarn(ctx, cust, inv.ID, inv.LoyaltyPointsEarned, totalFinal); err != nil {
			return nil, err
		}
		if err := s.ledger.RecordVisit(ctx, cust, totalFinal); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// notifyCustomer sends the thank-you message after commit. Failures are
// logged, never surfaced to the caller.
func (s *Service) notifyCustomer(ctx context.Context, inv *Invoice) {
	if inv.CustomerPhone == "" {
		return
	}

	message := fmt.Sprintf(
		"🎉 Thank you for your purchase!\n\nInvoice: #%s\nTotal: ₹%s\nDate: %s\n\nYour loyalty points: %d earned\n\nThank you for choosing us! 🙏",
		inv.InvoiceNumber,
		inv.TotalFinalPrice.StringFixed(2),
		inv.CreatedAt.Format("2006-01-02 15:04"),
		inv.LoyaltyPointsEarned,
	)

	result, err := s.notifier.SendText(ctx, inv.CustomerPhone, message)
	if err != nil {
		logger.Error(ctx, "checkout notification failed",
			"invoice_number", inv.InvoiceNumber, "error", err)
		return
	}
	if result.Status == notify.StatusFailed {
		logger.Warn(ctx, "checkout notification not delivered",
			"invoice_number", inv.InvoiceNumber, "error", result.Error)
	}
}

// GetByNumber retrieves an invoice with its items.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	inv.Items = items
	return inv, nil
}

// GetByID retrieves an invoice with its items.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	inv.Items = items
	return inv, nil
}

// List retrieves invoices without their items.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.List(ctx, filter)
}
