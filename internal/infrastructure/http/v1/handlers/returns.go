package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/billing/returns"
	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/http/v1/dto"
	"garmentpos/internal/infrastructure/storage/postgres"
	"garmentpos/pkg/logger"
)

// ReturnsHandler handles return endpoints.
type ReturnsHandler struct {
	*BaseHandler
	service *returns.Service
	reports *reports.Service
	audit   *postgres.AuditService
}

// NewReturnsHandler creates a returns handler.
func NewReturnsHandler(base *BaseHandler, service *returns.Service, reportsService *reports.Service, audit *postgres.AuditService) *ReturnsHandler {
	return &ReturnsHandler{
		BaseHandler: base,
		service:     service,
		reports:     reportsService,
		audit:       audit,
	}
}

// Process handles POST /billing/returns - the atomic reversal.
func (h *ReturnsHandler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}

	resp, err := h.service.Process(ctx, domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.reports != nil {
		h.reports.InvalidateDashboard(ctx)
	}

	if h.audit != nil {
		if auditErr := h.audit.LogChange(ctx, "return", resp.Return.ID, postgres.AuditActionReturn, map[string]any{
			"returnNumber":      resp.Return.ReturnNumber,
			"invoiceNumber":     resp.Return.InvoiceNumber,
			"totalReturnAmount": resp.Return.TotalReturnAmount,
		}); auditErr != nil {
			logger.Warn(ctx, "audit log failed", "entity", "return", "error", auditErr)
		}
	}

	h.Created(c, resp)
}

// Preview handles GET /billing/returns/preview/:number. It resolves the
// invoice and reports whether a return is still possible.
func (h *ReturnsHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()

	preview, err := h.service.PreviewByInvoiceNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, preview)
}

// GetByNumber handles GET /billing/returns/number/:number.
func (h *ReturnsHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	ret, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ret)
}

// List handles GET /billing/returns.
func (h *ReturnsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := returns.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if invoiceID := c.Query("invoiceId"); invoiceID != "" {
		parsed, err := id.Parse(invoiceID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid invoiceId"))
			return
		}
		filter.InvoiceID = &parsed
	}

	if from := c.Query("dateFrom"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom"))
			return
		}
		filter.DateFrom = &t
	}

	if to := c.Query("dateTo"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo"))
			return
		}
		filter.DateTo = &t
	}

	rets, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      rets,
		TotalCount: int64(len(rets)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
