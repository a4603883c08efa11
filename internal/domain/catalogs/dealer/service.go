package dealer

import (
	"context"
	"fmt"
	"time"

	"garmentpos/internal/core/tx"
	"garmentpos/internal/domain/catalogs"
	"garmentpos/pkg/numerator"
)

// Repository defines the interface for Dealer persistence.
type Repository interface {
	catalogs.Repository[*Dealer]
}

// Service provides business logic for the Dealer catalog.
type Service struct {
	*catalogs.Service[*Dealer]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Dealer service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := catalogs.NewService(catalogs.ServiceConfig[*Dealer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "dealer",
	})

	svc := &Service{
		Service:   base,
		repo:      repo,
		numerator: num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, d *Dealer) error {
	if d.Code == "" {
		code, err := s.numerator.NextSequential(ctx, numerator.DefaultConfig("DLR"), time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		d.Code = code
	}
	return nil
}
