// Package checkout provides the checkout transaction engine: it turns a
// basket of barcoded items into a financially consistent, committed invoice.
package checkout

import (
	"time"

	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
)

// DiscountType of a bill-level discount.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFixed   DiscountType = "FIXED"
)

// Invoice is the immutable record of a completed sale. It is created once by
// the engine and never mutated after commit.
type Invoice struct {
	ID            id.ID  `db:"id" json:"id"`
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`

	CustomerID    *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone,omitempty"`
	CustomerEmail string `db:"customer_email" json:"customerEmail,omitempty"`

	TotalMRP        types.Money `db:"total_mrp" json:"totalMrp"`
	TotalDiscount   types.Money `db:"total_discount" json:"totalDiscount"`
	TotalFinalPrice types.Money `db:"total_final_price" json:"totalFinalPrice"`
	TotalBaseAmount types.Money `db:"total_base_amount" json:"totalBaseAmount"`
	TotalGSTAmount  types.Money `db:"total_gst_amount" json:"totalGstAmount"`
	TotalCGSTAmount types.Money `db:"total_cgst_amount" json:"totalCgstAmount"`
	TotalSGSTAmount types.Money `db:"total_sgst_amount" json:"totalSgstAmount"`

	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	LoyaltyPointsEarned   int         `db:"loyalty_points_earned" json:"loyaltyPointsEarned"`
	LoyaltyPointsRedeemed int         `db:"loyalty_points_redeemed" json:"loyaltyPointsRedeemed"`
	LoyaltyDiscountAmount types.Money `db:"loyalty_discount_amount" json:"loyaltyDiscountAmount"`

	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Table part: one line per basket entry
	Items []InvoiceItem `db:"-" json:"items"`
}

// InvoiceItem is a frozen snapshot of a basket line. Invariant:
// base_price + gst_amount == final_price.
type InvoiceItem struct {
	ID              id.ID `db:"id" json:"id"`
	InvoiceID       id.ID `db:"invoice_id" json:"invoiceId"`
	InventoryItemID id.ID `db:"inventory_item_id" json:"inventoryItemId"`

	Barcode      string `db:"barcode" json:"barcode"`
	ProductName  string `db:"product_name" json:"productName"`
	DesignNumber string `db:"design_number" json:"designNumber"`
	Size         string `db:"size" json:"size"`
	Color        string `db:"color" json:"color"`

	UnitPrice      types.Money `db:"unit_price" json:"unitPrice"`
	Quantity       int         `db:"quantity" json:"quantity"`
	TotalPrice     types.Money `db:"total_price" json:"totalPrice"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	FinalPrice     types.Money `db:"final_price" json:"finalPrice"`
	BasePrice      types.Money `db:"base_price" json:"basePrice"`
	GSTAmount      types.Money `db:"gst_amount" json:"gstAmount"`
	CGSTAmount     types.Money `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money `db:"sgst_amount" json:"sgstAmount"`
	GSTRate        types.Money `db:"gst_rate" json:"gstRate"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Request is one checkout basket.
type Request struct {
	Items []LineRequest

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	DiscountType  DiscountType
	DiscountValue types.Money

	LoyaltyPointsRedeemed int

	PaymentMethod string
	Notes         string
}

// LineRequest is one basket line.
type LineRequest struct {
	Barcode  string
	Quantity int
}

// Response carries the committed invoice and a confirmation message.
type Response struct {
	Invoice *Invoice `json:"invoice"`
	Message string   `json:"message"`
}
