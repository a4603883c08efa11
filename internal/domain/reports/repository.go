package reports

import (
	"context"
	"time"
)

// Repository defines report data access interface.
type Repository interface {
	// Dashboard aggregates
	GetDashboard(ctx context.Context, now time.Time) (*Dashboard, error)

	// Sales reports
	GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error)
	GetTopSellers(ctx context.Context, filter SalesReportFilter) ([]TopSellerRow, error)

	// GST filing summary
	GetGSTReport(ctx context.Context, filter GSTReportFilter) (*GSTReport, error)
}
