package inventory

import (
	"context"
	"fmt"

	"garmentpos/internal/core/apperror"
	"garmentpos/pkg/logger"
)

// Service guards the stock invariant: quantity >= 0 on every item at all
// times. Decrements and restocks must run inside the caller's transaction so
// the row lock taken here covers the whole unit of work.
type Service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FindByBarcode resolves an item without locking it. Used for validation
// reads before pricing.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Item, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

// ReserveAndDecrement locks the item row, checks availability and decrements.
// Two concurrent checkouts against the last unit serialize on the row lock;
// the loser sees the decremented quantity and fails with InsufficientStock.
func (s *Service) ReserveAndDecrement(ctx context.Context, barcode string, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("barcode", barcode)
	}

	item, err := s.repo.GetByBarcodeForUpdate(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if item.Quantity < quantity {
		return nil, apperror.NewInsufficientStock(barcode, quantity, item.Quantity)
	}

	item.Quantity -= quantity
	if err := s.repo.SetQuantity(ctx, item.ID, item.Quantity); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	return item, nil
}

// Restock unconditionally increments a locked item row. Used by the return
// flow to put reversed units back on the shelf.
func (s *Service) Restock(ctx context.Context, barcode string, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("barcode", barcode)
	}

	item, err := s.repo.GetByBarcodeForUpdate(ctx, barcode)
	if err != nil {
		return err
	}

	item.Quantity += quantity
	if err := s.repo.SetQuantity(ctx, item.ID, item.Quantity); err != nil {
		return fmt.Errorf("restock: %w", err)
	}

	logger.Info(ctx, "restocked inventory", "barcode", barcode, "quantity", quantity)
	return nil
}

// RegisterNew enforces global barcode uniqueness and persists the item.
func (s *Service) RegisterNew(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return err
	}

	logger.Info(ctx, "inventory item registered", "barcode", item.Barcode, "quantity", item.Quantity)
	return nil
}

// List returns items matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, filter)
}
