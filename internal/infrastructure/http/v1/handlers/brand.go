package handlers

import (
	"garmentpos/internal/domain/catalogs/brand"
	"garmentpos/internal/infrastructure/http/v1/dto"
)

// BrandHTTPHandler handles brand catalog endpoints.
type BrandHTTPHandler = CatalogHandler[
	*brand.Brand,
	dto.CreateBrandRequest,
	dto.UpdateBrandRequest,
]

// NewBrandHandler creates a brand handler.
func NewBrandHandler(base *BaseHandler, service *brand.Service) *BrandHTTPHandler {
	config := CatalogHandlerConfig[
		*brand.Brand,
		dto.CreateBrandRequest,
		dto.UpdateBrandRequest,
	]{
		Service:    service.Service,
		EntityName: "brand",

		MapCreateDTO: func(req dto.CreateBrandRequest) (*brand.Brand, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateBrandRequest, existing *brand.Brand) (*brand.Brand, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(b *brand.Brand) any {
			return dto.FromBrand(b)
		},
	}

	return NewCatalogHandler(base, config)
}
