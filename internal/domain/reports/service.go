package reports

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/pkg/logger"
)

// Cache stores rendered dashboards for a short TTL. Implemented on Redis;
// a nil Cache disables caching.
type Cache interface {
	GetDashboard(ctx context.Context) (*Dashboard, bool)
	SetDashboard(ctx context.Context, d *Dashboard)
	InvalidateDashboard(ctx context.Context)
}

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a new reports service.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetDashboard returns the cached dashboard, regenerating it on a miss.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		if d, ok := s.cache.GetDashboard(ctx); ok {
			return d, nil
		}
	}

	d, err := s.repo.GetDashboard(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	d.GeneratedAt = time.Now().UTC()

	if s.cache != nil {
		s.cache.SetDashboard(ctx, d)
	}
	return d, nil
}

// InvalidateDashboard drops the cached dashboard. Called after checkout and
// return commits so the numbers stay fresh.
func (s *Service) InvalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateDashboard(ctx)
	logger.Debug(ctx, "dashboard cache invalidated")
}

// GetSalesReport generates a sales report over a period.
func (s *Service) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	switch filter.GroupBy {
	case "":
		filter.GroupBy = "day"
	case "day", "month", "payment_method":
	default:
		return nil, apperror.NewValidation("unknown groupBy").
			WithDetail("groupBy", filter.GroupBy)
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetSalesReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales report: %w", err)
	}
	return report, nil
}

// GetTopSellers ranks products by units sold over a period.
func (s *Service) GetTopSellers(ctx context.Context, filter SalesReportFilter) ([]TopSellerRow, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	rows, err := s.repo.GetTopSellers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get top sellers: %w", err)
	}
	return rows, nil
}

// GetGSTReport generates the rate-wise GST summary for a filing period.
func (s *Service) GetGSTReport(ctx context.Context, filter GSTReportFilter) (*GSTReport, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	report, err := s.repo.GetGSTReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get gst report: %w", err)
	}
	return report, nil
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("fromDate and toDate are required")
	}
	if from.After(to) {
		return apperror.NewValidation("fromDate must be before toDate")
	}
	return nil
}
