// Package returns provides the return transaction engine: the reverse flow
// of checkout. A return reverses a subset of one invoice's lines using the
// amounts frozen on the original invoice items, never current prices.
package returns

import (
	"time"

	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/billing/checkout"
)

// Method is how the refund is paid out.
type Method string

const (
	MethodCash        Method = "CASH"
	MethodWallet      Method = "WALLET"
	MethodStoreCredit Method = "STORE_CREDIT"
)

// Return records a reversal against one invoice. Monetary aggregates are
// stored negative, mirroring the invoice's positive fields. At most one
// return may exist per invoice.
type Return struct {
	ID           id.ID  `db:"id" json:"id"`
	ReturnNumber string `db:"return_number" json:"returnNumber"`

	InvoiceID     id.ID  `db:"invoice_id" json:"invoiceId"`
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`
	CustomerID    *id.ID `db:"customer_id" json:"customerId,omitempty"`

	TotalReturnAmount types.Money `db:"total_return_amount" json:"totalReturnAmount"`
	TotalGSTAmount    types.Money `db:"total_gst_amount" json:"totalGstAmount"`
	TotalCGSTAmount   types.Money `db:"total_cgst_amount" json:"totalCgstAmount"`
	TotalSGSTAmount   types.Money `db:"total_sgst_amount" json:"totalSgstAmount"`

	Method Method `db:"return_method" json:"returnMethod"`
	Reason string `db:"return_reason" json:"returnReason,omitempty"`

	// Exactly one of these is non-zero, matching Method.
	CashRefund   types.Money `db:"cash_refund" json:"cashRefund"`
	WalletCredit types.Money `db:"wallet_credit" json:"walletCredit"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Items []ReturnItem `db:"-" json:"items"`
}

// ReturnItem is a frozen snapshot of one reversed line. Amounts are negative
// and proportional to the quantity returned.
type ReturnItem struct {
	ID            id.ID `db:"id" json:"id"`
	ReturnID      id.ID `db:"return_id" json:"returnId"`
	InvoiceItemID id.ID `db:"invoice_item_id" json:"invoiceItemId"`

	InventoryItemID id.ID  `db:"inventory_item_id" json:"inventoryItemId"`
	Barcode         string `db:"barcode" json:"barcode"`
	ProductName     string `db:"product_name" json:"productName"`

	OriginalQuantity int `db:"original_quantity" json:"originalQuantity"`
	ReturnQuantity   int `db:"return_quantity" json:"returnQuantity"`

	TotalReturnPrice  types.Money `db:"total_return_price" json:"totalReturnPrice"`
	ReturnGSTAmount   types.Money `db:"return_gst_amount" json:"returnGstAmount"`
	ReturnCGSTAmount  types.Money `db:"return_cgst_amount" json:"returnCgstAmount"`
	ReturnSGSTAmount  types.Money `db:"return_sgst_amount" json:"returnSgstAmount"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// LineRequest selects one invoice line and a quantity to reverse.
type LineRequest struct {
	InvoiceItemID  id.ID
	ReturnQuantity int
}

// Request is one return submission.
type Request struct {
	InvoiceNumber string
	Items         []LineRequest

	Reason string
	Method Method

	// Declared payout, validated against the computed total.
	CashRefund   types.Money
	WalletCredit types.Money

	Notes string
}

// Response carries the committed return and a confirmation message.
type Response struct {
	Return  *Return `json:"return"`
	Message string  `json:"message"`
}

// Preview reports whether an invoice is still eligible for a return, along
// with its line snapshots for building the return form.
type Preview struct {
	Invoice   *checkout.Invoice `json:"invoice"`
	CanReturn bool              `json:"canReturn"`
	Reason    string            `json:"reason,omitempty"`
}
