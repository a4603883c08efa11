package handlers

import (
	"github.com/gin-gonic/gin"

	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.service.GetDashboard(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}

// Sales handles GET /reports/sales.
func (h *ReportsHandler) Sales(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.SalesReportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	report, err := h.service.GetSalesReport(ctx, reports.SalesReportFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		GroupBy:  q.GroupBy,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// TopSellers handles GET /reports/top-sellers.
func (h *ReportsHandler) TopSellers(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.TopSellersQuery
	if !h.BindQuery(c, &q) {
		return
	}

	rows, err := h.service.GetTopSellers(ctx, reports.SalesReportFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Limit:    q.Limit,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      rows,
		TotalCount: int64(len(rows)),
	})
}

// GST handles GET /reports/gst.
func (h *ReportsHandler) GST(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.GSTReportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	report, err := h.service.GetGSTReport(ctx, reports.GSTReportFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
