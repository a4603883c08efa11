package dto

import (
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/inventory"
)

// RegisterStockRequest for POST /inventory/items. The product can be named
// directly by ID, or by brand + garment type (the product record is then
// resolved or created on the fly, matching the counter workflow).
type RegisterStockRequest struct {
	ProductID   string `json:"productId"`
	BrandID     string `json:"brandId"`
	GarmentType string `json:"garmentType"`

	Barcode      string `json:"barcode" binding:"required"`
	DesignNumber string `json:"designNumber"`
	Size         string `json:"size"`
	Color        string `json:"color"`

	CostPrice string `json:"costPrice"`
	MRP       string `json:"mrp" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// ToEntity builds the inventory item once the product is resolved.
func (r RegisterStockRequest) ToEntity(productID id.ID) (*inventory.Item, error) {
	item := inventory.NewItem(productID, r.Barcode)
	item.DesignNumber = r.DesignNumber
	item.Size = r.Size
	item.Color = r.Color
	item.Quantity = r.Quantity

	mrp, err := types.NewMoneyFromString(r.MRP)
	if err != nil {
		return nil, err
	}
	item.MRP = mrp

	if r.CostPrice != "" {
		cost, err := types.NewMoneyFromString(r.CostPrice)
		if err != nil {
			return nil, err
		}
		item.CostPrice = cost
	}

	return item, nil
}

// RestockRequest for POST /inventory/items/:barcode/restock.
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
