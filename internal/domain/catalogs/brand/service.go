package brand

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/tx"
	"garmentpos/internal/domain/catalogs"
	"garmentpos/pkg/numerator"
)

// Repository defines the interface for Brand persistence.
type Repository interface {
	catalogs.Repository[*Brand]

	// GetByName retrieves a brand by exact name.
	GetByName(ctx context.Context, name string) (*Brand, error)
}

// Service provides business logic for the Brand catalog.
type Service struct {
	*catalogs.Service[*Brand]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Brand service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := catalogs.NewService(catalogs.ServiceConfig[*Brand]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "brand",
	})

	svc := &Service{
		Service:   base,
		repo:      repo,
		numerator: num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates the code and guards name uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, b *Brand) error {
	if b.Code == "" {
		code, err := s.numerator.NextSequential(ctx, numerator.DefaultConfig("BRD"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}

	existing, err := s.repo.GetByName(ctx, b.Name)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check brand name: %w", err)
	}
	if existing != nil {
		return apperror.NewDuplicate("brand", "name", b.Name)
	}

	return nil
}

// GetByName retrieves a brand by exact name.
func (s *Service) GetByName(ctx context.Context, name string) (*Brand, error) {
	b, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("brand", name)
		}
		return nil, err
	}
	return b, nil
}
