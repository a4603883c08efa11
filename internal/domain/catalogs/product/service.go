package product

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/core/tx"
	"garmentpos/internal/domain/catalogs"
	"garmentpos/internal/domain/catalogs/brand"
	"garmentpos/pkg/numerator"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	catalogs.Repository[*Product]

	// GetByBrandAndType retrieves the product for a brand + garment type
	// pairing, or a not-found error.
	GetByBrandAndType(ctx context.Context, brandID id.ID, garmentType string) (*Product, error)
}

// BrandLookup resolves brands for product naming.
type BrandLookup interface {
	GetByID(ctx context.Context, brandID id.ID) (*brand.Brand, error)
}

// Service provides business logic for the Product catalog.
type Service struct {
	*catalogs.Service[*Product]
	repo      Repository
	brands    BrandLookup
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(repo Repository, brands BrandLookup, num *numerator.Service, txManager tx.Manager) *Service {
	base := catalogs.NewService(catalogs.ServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		Service:   base,
		repo:      repo,
		brands:    brands,
		numerator: num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate derives the display name from brand + garment type,
// applies the default GST rate and generates the code.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Name == "" {
		b, err := s.brands.GetByID(ctx, p.BrandID)
		if err != nil {
			return err
		}
		p.Name = fmt.Sprintf("%s-%s", b.Name, p.GarmentType)
	}

	if p.GSTRate.IsZero() {
		p.GSTRate = DefaultGSTRate
	}

	if p.Code == "" {
		code, err := s.numerator.NextSequential(ctx, numerator.DefaultConfig("PRD"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	return nil
}

// ResolveOrCreate finds the product for a brand + garment type pairing,
// creating it when absent. Used by stock intake so that registering new
// inventory never requires a separate product step.
func (s *Service) ResolveOrCreate(ctx context.Context, brandID id.ID, garmentType string) (*Product, error) {
	p, err := s.repo.GetByBrandAndType(ctx, brandID, garmentType)
	if err == nil {
		return p, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	p = NewProduct(brandID, garmentType)
	if createErr := s.Create(ctx, p); createErr != nil {
		return nil, createErr
	}
	return p, nil
}
