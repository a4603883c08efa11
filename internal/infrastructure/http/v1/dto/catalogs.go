package dto

import (
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/catalogs/brand"
	"garmentpos/internal/domain/catalogs/dealer"
	"garmentpos/internal/domain/catalogs/product"
)

// --- Brand ---

// CreateBrandRequest for creating brands.
type CreateBrandRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts request to domain entity.
func (r CreateBrandRequest) ToEntity() *brand.Brand {
	b := brand.NewBrand(r.Code, r.Name)
	b.Description = r.Description
	return b
}

// UpdateBrandRequest for updating brands.
type UpdateBrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ApplyTo applies non-nil fields onto an existing brand.
func (r UpdateBrandRequest) ApplyTo(b *brand.Brand) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Description != nil {
		b.Description = r.Description
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	b.Touch()
}

// BrandResponse for brand endpoints.
type BrandResponse struct {
	CatalogResponse
	Description *string `json:"description,omitempty"`
}

// FromBrand creates BrandResponse from entity.
func FromBrand(b *brand.Brand) BrandResponse {
	return BrandResponse{
		CatalogResponse: FromCatalog(b.Catalog),
		Description:     b.Description,
	}
}

// --- Dealer ---

// CreateDealerRequest for creating dealers.
type CreateDealerRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	GSTNumber     *string `json:"gstNumber"`
}

// ToEntity converts request to domain entity.
func (r CreateDealerRequest) ToEntity() *dealer.Dealer {
	d := dealer.NewDealer(r.Code, r.Name)
	d.ContactPerson = r.ContactPerson
	d.Phone = r.Phone
	d.Email = r.Email
	d.Address = r.Address
	d.GSTNumber = r.GSTNumber
	return d
}

// UpdateDealerRequest for updating dealers.
type UpdateDealerRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	GSTNumber     *string `json:"gstNumber"`
	IsActive      *bool   `json:"isActive"`
}

// ApplyTo applies non-nil fields onto an existing dealer.
func (r UpdateDealerRequest) ApplyTo(d *dealer.Dealer) {
	if r.Name != nil {
		d.Name = *r.Name
	}
	if r.ContactPerson != nil {
		d.ContactPerson = r.ContactPerson
	}
	if r.Phone != nil {
		d.Phone = r.Phone
	}
	if r.Email != nil {
		d.Email = r.Email
	}
	if r.Address != nil {
		d.Address = r.Address
	}
	if r.GSTNumber != nil {
		d.GSTNumber = r.GSTNumber
	}
	if r.IsActive != nil {
		d.IsActive = *r.IsActive
	}
	d.Touch()
}

// DealerResponse for dealer endpoints.
type DealerResponse struct {
	CatalogResponse
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	GSTNumber     *string `json:"gstNumber,omitempty"`
}

// FromDealer creates DealerResponse from entity.
func FromDealer(d *dealer.Dealer) DealerResponse {
	return DealerResponse{
		CatalogResponse: FromCatalog(d.Catalog),
		ContactPerson:   d.ContactPerson,
		Phone:           d.Phone,
		Email:           d.Email,
		Address:         d.Address,
		GSTNumber:       d.GSTNumber,
	}
}

// --- Product ---

// CreateProductRequest for creating products. Name is derived from the
// brand name and garment type.
type CreateProductRequest struct {
	BrandID     string  `json:"brandId" binding:"required"`
	DealerID    *string `json:"dealerId"`
	GarmentType string  `json:"garmentType" binding:"required"`
	GSTRate     *string `json:"gstRate"`
	Description *string `json:"description"`
}

// ToEntity converts request to domain entity.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	brandID, err := id.Parse(r.BrandID)
	if err != nil {
		return nil, err
	}

	p := product.NewProduct(brandID, r.GarmentType)
	p.Description = r.Description

	if r.DealerID != nil && *r.DealerID != "" {
		dealerID, err := id.Parse(*r.DealerID)
		if err != nil {
			return nil, err
		}
		p.DealerID = &dealerID
	}

	if r.GSTRate != nil && *r.GSTRate != "" {
		rate, err := types.NewMoneyFromString(*r.GSTRate)
		if err != nil {
			return nil, err
		}
		p.GSTRate = rate
	}

	return p, nil
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	DealerID    *string `json:"dealerId"`
	GSTRate     *string `json:"gstRate"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ApplyTo applies non-nil fields onto an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.DealerID != nil {
		if *r.DealerID == "" {
			p.DealerID = nil
		} else {
			dealerID, err := id.Parse(*r.DealerID)
			if err != nil {
				return err
			}
			p.DealerID = &dealerID
		}
	}
	if r.GSTRate != nil && *r.GSTRate != "" {
		rate, err := types.NewMoneyFromString(*r.GSTRate)
		if err != nil {
			return err
		}
		p.GSTRate = rate
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.Touch()
	return nil
}

// ProductResponse for product endpoints.
type ProductResponse struct {
	CatalogResponse
	BrandID     string  `json:"brandId"`
	DealerID    *string `json:"dealerId,omitempty"`
	GarmentType string  `json:"garmentType"`
	GSTRate     string  `json:"gstRate"`
	Description *string `json:"description,omitempty"`
}

// FromProduct creates ProductResponse from entity.
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		BrandID:         p.BrandID.String(),
		GarmentType:     p.GarmentType,
		GSTRate:         p.GSTRate.String(),
		Description:     p.Description,
	}
	if p.DealerID != nil {
		s := p.DealerID.String()
		resp.DealerID = &s
	}
	return resp
}
