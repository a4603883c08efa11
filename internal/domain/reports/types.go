// Package reports provides sales and GST reporting services.
package reports

import (
	"time"

	"garmentpos/internal/core/types"
)

// --- Dashboard ---

// Dashboard is the shop's at-a-glance summary, cached for a short TTL.
type Dashboard struct {
	Date time.Time `json:"date"`

	TodaySales    types.Money `json:"todaySales"`
	TodayInvoices int         `json:"todayInvoices"`
	TodayReturns  types.Money `json:"todayReturns"`

	MonthSales    types.Money `json:"monthSales"`
	MonthInvoices int         `json:"monthInvoices"`

	LowStockCount  int `json:"lowStockCount"`
	TotalCustomers int `json:"totalCustomers"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// --- Sales Report ---

// SalesReportFilter defines the period and granularity of a sales report.
type SalesReportFilter struct {
	FromDate time.Time
	ToDate   time.Time

	// GroupBy: "day", "month" or "payment_method"
	GroupBy string

	Limit  int
	Offset int
}

// SalesRow is one bucket of the sales report.
type SalesRow struct {
	Bucket       string      `db:"bucket" json:"bucket"`
	InvoiceCount int         `db:"invoice_count" json:"invoiceCount"`
	GrossMRP     types.Money `db:"gross_mrp" json:"grossMrp"`
	Discount     types.Money `db:"discount" json:"discount"`
	NetSales     types.Money `db:"net_sales" json:"netSales"`
}

// SalesReport aggregates sales over a period.
type SalesReport struct {
	FromDate time.Time  `json:"fromDate"`
	ToDate   time.Time  `json:"toDate"`
	GroupBy  string     `json:"groupBy"`
	Rows     []SalesRow `json:"rows"`

	TotalNetSales types.Money `json:"totalNetSales"`
	TotalReturns  types.Money `json:"totalReturns"`
}

// --- GST Report ---

// GSTReportFilter defines the period of a GST report.
type GSTReportFilter struct {
	FromDate time.Time
	ToDate   time.Time
}

// GSTRow is the collected tax for one GST rate.
type GSTRow struct {
	GSTRate    types.Money `db:"gst_rate" json:"gstRate"`
	TaxableAmt types.Money `db:"taxable_amount" json:"taxableAmount"`
	CGST       types.Money `db:"cgst" json:"cgst"`
	SGST       types.Money `db:"sgst" json:"sgst"`
	TotalGST   types.Money `db:"total_gst" json:"totalGst"`
}

// GSTReport is the rate-wise GST summary for a filing period, net of the
// GST reversed on returns.
type GSTReport struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
	Rows     []GSTRow  `json:"rows"`

	TotalCGST types.Money `json:"totalCgst"`
	TotalSGST types.Money `json:"totalSgst"`
}

// --- Top Sellers ---

// TopSellerRow ranks one product by units sold in a period.
type TopSellerRow struct {
	ProductName string      `db:"product_name" json:"productName"`
	UnitsSold   int         `db:"units_sold" json:"unitsSold"`
	NetSales    types.Money `db:"net_sales" json:"netSales"`
}
