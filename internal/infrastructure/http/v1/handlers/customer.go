package handlers

import (
	"github.com/gin-gonic/gin"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/customer"
	"garmentpos/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customer and loyalty endpoints.
type CustomerHandler struct {
	*BaseHandler
	ledger *customer.Ledger
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, ledger *customer.Ledger) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler: base,
		ledger:      ledger,
	}
}

// GetByPhone handles GET /customers/phone/:phone - counter lookup before
// checkout.
func (h *CustomerHandler) GetByPhone(c *gin.Context) {
	ctx := c.Request.Context()

	cust, err := h.ledger.GetByPhone(ctx, c.Param("phone"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cust)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cust, err := h.ledger.GetByID(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cust)
}

// History handles GET /customers/:id/loyalty - the loyalty ledger.
func (h *CustomerHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	transactions, err := h.ledger.History(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      transactions,
		TotalCount: int64(len(transactions)),
	})
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := customer.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	customers, err := h.ledger.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      customers,
		TotalCount: int64(len(customers)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
