package handlers

import (
	"garmentpos/internal/domain/catalogs/dealer"
	"garmentpos/internal/infrastructure/http/v1/dto"
)

// DealerHTTPHandler handles dealer catalog endpoints.
type DealerHTTPHandler = CatalogHandler[
	*dealer.Dealer,
	dto.CreateDealerRequest,
	dto.UpdateDealerRequest,
]

// NewDealerHandler creates a dealer handler.
func NewDealerHandler(base *BaseHandler, service *dealer.Service) *DealerHTTPHandler {
	config := CatalogHandlerConfig[
		*dealer.Dealer,
		dto.CreateDealerRequest,
		dto.UpdateDealerRequest,
	]{
		Service:    service.Service,
		EntityName: "dealer",

		MapCreateDTO: func(req dto.CreateDealerRequest) (*dealer.Dealer, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateDealerRequest, existing *dealer.Dealer) (*dealer.Dealer, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(d *dealer.Dealer) any {
			return dto.FromDealer(d)
		},
	}

	return NewCatalogHandler(base, config)
}
