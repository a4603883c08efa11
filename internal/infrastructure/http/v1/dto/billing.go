package dto

import (
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/domain/billing/returns"
)

// --- Checkout ---

// CheckoutLineRequest is one scanned basket line.
type CheckoutLineRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest for POST /billing/checkout.
type CheckoutRequest struct {
	Items []CheckoutLineRequest `json:"items" binding:"required,min=1,dive"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`

	DiscountType  string `json:"discountType"`
	DiscountValue string `json:"discountValue"`

	LoyaltyPointsRedeemed int `json:"loyaltyPointsRedeemed" binding:"min=0"`

	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// ToDomain converts the request to the engine's input.
func (r CheckoutRequest) ToDomain() (checkout.Request, error) {
	req := checkout.Request{
		CustomerName:          r.CustomerName,
		CustomerPhone:         r.CustomerPhone,
		CustomerEmail:         r.CustomerEmail,
		DiscountType:          checkout.DiscountType(r.DiscountType),
		LoyaltyPointsRedeemed: r.LoyaltyPointsRedeemed,
		PaymentMethod:         r.PaymentMethod,
		Notes:                 r.Notes,
	}

	if r.DiscountValue != "" {
		v, err := types.NewMoneyFromString(r.DiscountValue)
		if err != nil {
			return checkout.Request{}, err
		}
		req.DiscountValue = v
	}

	req.Items = make([]checkout.LineRequest, len(r.Items))
	for i, line := range r.Items {
		req.Items[i] = checkout.LineRequest{
			Barcode:  line.Barcode,
			Quantity: line.Quantity,
		}
	}

	return req, nil
}

// --- Returns ---

// ReturnLineRequest selects one invoice line and a quantity to reverse.
type ReturnLineRequest struct {
	InvoiceItemID  string `json:"invoiceItemId" binding:"required"`
	ReturnQuantity int    `json:"returnQuantity" binding:"required,min=1"`
}

// ReturnRequest for POST /billing/returns.
type ReturnRequest struct {
	InvoiceNumber string              `json:"invoiceNumber" binding:"required"`
	Items         []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`

	Reason string `json:"reason"`
	Method string `json:"method" binding:"required"`

	CashRefund   string `json:"cashRefund"`
	WalletCredit string `json:"walletCredit"`

	Notes string `json:"notes"`
}

// ToDomain converts the request to the engine's input.
func (r ReturnRequest) ToDomain() (returns.Request, error) {
	req := returns.Request{
		InvoiceNumber: r.InvoiceNumber,
		Reason:        r.Reason,
		Method:        returns.Method(r.Method),
		Notes:         r.Notes,
		CashRefund:    types.Zero(),
		WalletCredit:  types.Zero(),
	}

	if r.CashRefund != "" {
		v, err := types.NewMoneyFromString(r.CashRefund)
		if err != nil {
			return returns.Request{}, err
		}
		req.CashRefund = v
	}

	if r.WalletCredit != "" {
		v, err := types.NewMoneyFromString(r.WalletCredit)
		if err != nil {
			return returns.Request{}, err
		}
		req.WalletCredit = v
	}

	req.Items = make([]returns.LineRequest, len(r.Items))
	for i, line := range r.Items {
		itemID, err := id.Parse(line.InvoiceItemID)
		if err != nil {
			return returns.Request{}, err
		}
		req.Items[i] = returns.LineRequest{
			InvoiceItemID:  itemID,
			ReturnQuantity: line.ReturnQuantity,
		}
	}

	return req, nil
}
