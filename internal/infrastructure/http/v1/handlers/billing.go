package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/http/v1/dto"
	"garmentpos/internal/infrastructure/storage/postgres"
	"garmentpos/pkg/logger"
)

// BillingHandler handles checkout and invoice endpoints.
type BillingHandler struct {
	*BaseHandler
	service *checkout.Service
	reports *reports.Service
	audit   *postgres.AuditService
}

// NewBillingHandler creates a billing handler.
func NewBillingHandler(base *BaseHandler, service *checkout.Service, reportsService *reports.Service, audit *postgres.AuditService) *BillingHandler {
	return &BillingHandler{
		BaseHandler: base,
		service:     service,
		reports:     reportsService,
		audit:       audit,
	}
}

// Checkout handles POST /billing/checkout - the atomic sale.
func (h *BillingHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}

	resp, err := h.service.Checkout(ctx, domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.reports != nil {
		h.reports.InvalidateDashboard(ctx)
	}

	if h.audit != nil {
		if auditErr := h.audit.LogChange(ctx, "invoice", resp.Invoice.ID, postgres.AuditActionCheckout, map[string]any{
			"invoiceNumber":   resp.Invoice.InvoiceNumber,
			"totalFinalPrice": resp.Invoice.TotalFinalPrice,
		}); auditErr != nil {
			logger.Warn(ctx, "audit log failed", "entity", "invoice", "error", auditErr)
		}
	}

	h.Created(c, resp)
}

// GetByNumber handles GET /billing/invoices/number/:number.
func (h *BillingHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	inv, err := h.service.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// Get handles GET /billing/invoices/:id.
func (h *BillingHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	invoiceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	inv, err := h.service.GetByID(ctx, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// List handles GET /billing/invoices.
func (h *BillingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := checkout.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if customerID := c.Query("customerId"); customerID != "" {
		parsed, err := id.Parse(customerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId"))
			return
		}
		filter.CustomerID = &parsed
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

	invoices, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      invoices,
		TotalCount: int64(len(invoices)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
