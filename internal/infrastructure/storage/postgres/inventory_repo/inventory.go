// Package inventory_repo provides the PostgreSQL implementation of the
// inventory repository.
package inventory_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/inventory"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var itemColumns = []string{
	"id", "product_id", "barcode", "design_number", "size", "color",
	"cost_price", "mrp", "quantity", "created_at", "updated_at",
}

// Repo is the PostgreSQL repository for inventory items.
type Repo struct {
	txm *postgres.TxManager
}

// NewRepo creates a new inventory repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{txm: txm}
}

var _ inventory.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(itemColumns...).
		From("inventory_items")
}

func (r *Repo) getByBarcode(ctx context.Context, barcode string, forUpdate bool) (*inventory.Item, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Limit(1)

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", barcode)
		}
		return nil, fmt.Errorf("get by barcode: %w", err)
	}

	return &item, nil
}

func (r *Repo) GetByBarcode(ctx context.Context, barcode string) (*inventory.Item, error) {
	return r.getByBarcode(ctx, barcode, false)
}

// GetByBarcodeForUpdate takes a row lock for the surrounding transaction.
func (r *Repo) GetByBarcodeForUpdate(ctx context.Context, barcode string) (*inventory.Item, error) {
	return r.getByBarcode(ctx, barcode, true)
}

func (r *Repo) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return &item, nil
}

func (r *Repo) Insert(ctx context.Context, item *inventory.Item) error {
	q := r.builder().
		Insert("inventory_items").
		Columns(itemColumns...).
		Values(
			item.ID, item.ProductID, item.Barcode, item.DesignNumber,
			item.Size, item.Color, item.CostPrice, item.MRP,
			item.Quantity, item.CreatedAt, item.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("inventory item", "barcode", item.Barcode).
				WithCause(err)
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}

	return nil
}

func (r *Repo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	q := r.builder().
		Update("inventory_items").
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID.String())
	}

	return nil
}

func (r *Repo) List(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	q := r.baseSelect().OrderBy("barcode ASC")

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"barcode": pattern},
			squirrel.ILike{"design_number": pattern},
		})
	}

	if filter.InStock {
		q = q.Where(squirrel.Gt{"quantity": 0})
	}

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*inventory.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}

	return items, nil
}
