// Package report_repo provides the PostgreSQL implementation of the report
// repository. Reports read committed invoice/return history only, so every
// query runs outside the checkout transaction path.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/storage/postgres"
)

// LowStockThreshold marks items that need reordering on the dashboard.
const LowStockThreshold = 2

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

var _ reports.Repository = (*ReportRepo)(nil)

// GetDashboard aggregates today's and this month's trading numbers.
func (r *ReportRepo) GetDashboard(ctx context.Context, now time.Time) (*reports.Dashboard, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	query := `
		SELECT
			COALESCE((SELECT SUM(total_final_price) FROM invoices WHERE created_at >= $1), 0) as today_sales,
			(SELECT COUNT(*) FROM invoices WHERE created_at >= $1) as today_invoices,
			COALESCE((SELECT SUM(-total_return_amount) FROM returns WHERE created_at >= $1), 0) as today_returns,
			COALESCE((SELECT SUM(total_final_price) FROM invoices WHERE created_at >= $2), 0) as month_sales,
			(SELECT COUNT(*) FROM invoices WHERE created_at >= $2) as month_invoices,
			(SELECT COUNT(*) FROM inventory_items WHERE quantity > 0 AND quantity <= $3) as low_stock_count,
			(SELECT COUNT(*) FROM customers) as total_customers
	`

	d := reports.Dashboard{
		Date:        dayStart,
		GeneratedAt: now,
	}

	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, query, dayStart, monthStart, LowStockThreshold).Scan(
		&d.TodaySales,
		&d.TodayInvoices,
		&d.TodayReturns,
		&d.MonthSales,
		&d.MonthInvoices,
		&d.LowStockCount,
		&d.TotalCustomers,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &d, nil
}

// GetSalesReport aggregates invoices into day, month or payment-method buckets.
func (r *ReportRepo) GetSalesReport(ctx context.Context, filter reports.SalesReportFilter) (*reports.SalesReport, error) {
	var bucketExpr string
	switch filter.GroupBy {
	case "month":
		bucketExpr = "to_char(created_at, 'YYYY-MM')"
	case "payment_method":
		bucketExpr = "COALESCE(NULLIF(payment_method, ''), 'UNKNOWN')"
	default:
		bucketExpr = "to_char(created_at, 'YYYY-MM-DD')"
	}

	query := fmt.Sprintf(`
		SELECT
			%s as bucket,
			COUNT(*) as invoice_count,
			COALESCE(SUM(total_mrp), 0) as gross_mrp,
			COALESCE(SUM(total_discount + loyalty_discount_amount), 0) as discount,
			COALESCE(SUM(total_final_price), 0) as net_sales
		FROM invoices
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`, bucketExpr)

	args := []any{filter.FromDate, filter.ToDate}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	querier := r.txm.GetQuerier(ctx)

	var rows []reports.SalesRow
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}

	report := reports.SalesReport{
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
		GroupBy:       filter.GroupBy,
		Rows:          rows,
		TotalNetSales: types.Zero(),
		TotalReturns:  types.Zero(),
	}

	for _, row := range rows {
		report.TotalNetSales = report.TotalNetSales.Add(row.NetSales)
	}

	// Return totals are period-wide, independent of bucketing.
	returnsQuery := `
		SELECT COALESCE(SUM(-total_return_amount), 0)
		FROM returns
		WHERE created_at >= $1 AND created_at < $2
	`
	if err := querier.QueryRow(ctx, returnsQuery, filter.FromDate, filter.ToDate).Scan(&report.TotalReturns); err != nil {
		return nil, fmt.Errorf("sales report returns total: %w", err)
	}

	return &report, nil
}

// GetTopSellers ranks products by units sold in the period.
func (r *ReportRepo) GetTopSellers(ctx context.Context, filter reports.SalesReportFilter) ([]reports.TopSellerRow, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			ii.product_name,
			SUM(ii.quantity)::int as units_sold,
			COALESCE(SUM(ii.final_price), 0) as net_sales
		FROM invoice_items ii
		JOIN invoices i ON ii.invoice_id = i.id
		WHERE i.created_at >= $1 AND i.created_at < $2
		GROUP BY ii.product_name
		ORDER BY units_sold DESC, net_sales DESC
		LIMIT $3
	`

	var rows []reports.TopSellerRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, filter.FromDate, filter.ToDate, limit); err != nil {
		return nil, fmt.Errorf("top sellers: %w", err)
	}

	return rows, nil
}

// GetGSTReport builds the rate-wise GST summary for a filing period.
// Return reversals carry negative GST amounts, so a plain UNION ALL of
// invoice items and return items nets them out.
func (r *ReportRepo) GetGSTReport(ctx context.Context, filter reports.GSTReportFilter) (*reports.GSTReport, error) {
	query := `
		SELECT
			gst_rate,
			COALESCE(SUM(base_amount), 0) as taxable_amount,
			COALESCE(SUM(cgst_amount), 0) as cgst,
			COALESCE(SUM(sgst_amount), 0) as sgst,
			COALESCE(SUM(gst_amount), 0) as total_gst
		FROM (
			SELECT ii.gst_rate, ii.base_price as base_amount,
			       ii.cgst_amount, ii.sgst_amount, ii.gst_amount
			FROM invoice_items ii
			JOIN invoices i ON ii.invoice_id = i.id
			WHERE i.created_at >= $1 AND i.created_at < $2
			UNION ALL
			SELECT orig.gst_rate,
			       ri.total_return_price - ri.return_gst_amount as base_amount,
			       ri.return_cgst_amount, ri.return_sgst_amount, ri.return_gst_amount
			FROM return_items ri
			JOIN returns ret ON ri.return_id = ret.id
			JOIN invoice_items orig ON ri.invoice_item_id = orig.id
			WHERE ret.created_at >= $1 AND ret.created_at < $2
		) lines
		GROUP BY gst_rate
		ORDER BY gst_rate
	`

	var rows []reports.GSTRow
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, query, filter.FromDate, filter.ToDate); err != nil {
		return nil, fmt.Errorf("gst report: %w", err)
	}

	report := reports.GSTReport{
		FromDate:  filter.FromDate,
		ToDate:    filter.ToDate,
		Rows:      rows,
		TotalCGST: types.Zero(),
		TotalSGST: types.Zero(),
	}

	for _, row := range rows {
		report.TotalCGST = report.TotalCGST.Add(row.CGST)
		report.TotalSGST = report.TotalSGST.Add(row.SGST)
	}

	return &report, nil
}
