package handlers

import (
	"github.com/gin-gonic/gin"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/catalogs/product"
	"garmentpos/internal/domain/inventory"
	"garmentpos/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles stock endpoints.
type InventoryHandler struct {
	*BaseHandler
	service  *inventory.Service
	products *product.Service
}

// NewInventoryHandler creates an inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service, products *product.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
		products:    products,
	}
}

// Register handles POST /inventory/items - register new stock.
// The product can be named directly, or resolved from brand + garment type.
func (h *InventoryHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var productID id.ID
	switch {
	case req.ProductID != "":
		parsed, err := id.Parse(req.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId"))
			return
		}
		productID = parsed

	case req.BrandID != "" && req.GarmentType != "":
		brandID, err := id.Parse(req.BrandID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid brandId"))
			return
		}
		p, err := h.products.ResolveOrCreate(ctx, brandID, req.GarmentType)
		if err != nil {
			h.Error(c, err)
			return
		}
		productID = p.ID

	default:
		h.Error(c, apperror.NewValidation("productId or brandId + garmentType is required"))
		return
	}

	item, err := req.ToEntity(productID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.RegisterNew(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item)
}

// GetByBarcode handles GET /inventory/items/:barcode - barcode lookup at
// the counter.
func (h *InventoryHandler) GetByBarcode(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.service.FindByBarcode(ctx, c.Param("barcode"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// Restock handles POST /inventory/items/:barcode/restock.
func (h *InventoryHandler) Restock(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Restock(ctx, c.Param("barcode"), req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock updated")
}

// List handles GET /inventory/items.
func (h *InventoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := inventory.ListFilter{
		Search:  c.Query("search"),
		InStock: c.Query("inStock") == "true",
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if productID := c.Query("productId"); productID != "" {
		parsed, err := id.Parse(productID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId"))
			return
		}
		filter.ProductID = &parsed
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
