package billing_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/billing/returns"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var returnColumns = []string{
	"id", "return_number", "invoice_id", "invoice_number", "customer_id",
	"total_return_amount", "total_gst_amount", "total_cgst_amount", "total_sgst_amount",
	"return_method", "return_reason", "cash_refund", "wallet_credit",
	"notes", "created_at",
}

var returnItemColumns = []string{
	"id", "return_id", "invoice_item_id", "inventory_item_id",
	"barcode", "product_name", "original_quantity", "return_quantity",
	"total_return_price", "return_gst_amount", "return_cgst_amount", "return_sgst_amount",
	"created_at",
}

// ReturnRepo is the PostgreSQL repository for returns.
type ReturnRepo struct {
	txm *postgres.TxManager
}

// NewReturnRepo creates a new return repository.
func NewReturnRepo(txm *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{txm: txm}
}

var _ returns.Repository = (*ReturnRepo)(nil)

func (r *ReturnRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ReturnRepo) Insert(ctx context.Context, ret *returns.Return) error {
	q := r.builder().
		Insert("returns").
		Columns(returnColumns...).
		Values(
			ret.ID, ret.ReturnNumber, ret.InvoiceID, ret.InvoiceNumber, ret.CustomerID,
			ret.TotalReturnAmount, ret.TotalGSTAmount, ret.TotalCGSTAmount, ret.TotalSGSTAmount,
			ret.Method, ret.Reason, ret.CashRefund, ret.WalletCredit,
			ret.Notes, ret.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// 23505 on invoice_id: the unique index backs the
			// one-return-per-invoice rule under concurrency.
			if pgErr.Code == "23505" {
				return apperror.NewAlreadyReturned(ret.InvoiceNumber).WithCause(err)
			}
		}
		return fmt.Errorf("insert return: %w", err)
	}

	return nil
}

func (r *ReturnRepo) InsertItems(ctx context.Context, items []returns.ReturnItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert("return_items").
		Columns(returnItemColumns...)

	for _, it := range items {
		q = q.Values(
			it.ID, it.ReturnID, it.InvoiceItemID, it.InventoryItemID,
			it.Barcode, it.ProductName, it.OriginalQuantity, it.ReturnQuantity,
			it.TotalReturnPrice, it.ReturnGSTAmount, it.ReturnCGSTAmount, it.ReturnSGSTAmount,
			it.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert return items: %w", err)
	}

	return nil
}

func (r *ReturnRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(returnColumns...).
		From("returns")
}

func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*returns.Return, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": returnID}).
		Limit(1)

	return r.getOne(ctx, q, returnID.String())
}

func (r *ReturnRepo) GetByNumber(ctx context.Context, number string) (*returns.Return, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"return_number": number}).
		Limit(1)

	return r.getOne(ctx, q, number)
}

func (r *ReturnRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*returns.Return, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ret returns.Return
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &ret, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("return", key)
		}
		return nil, fmt.Errorf("get return: %w", err)
	}

	return &ret, nil
}

func (r *ReturnRepo) GetItems(ctx context.Context, returnID id.ID) ([]returns.ReturnItem, error) {
	q := r.builder().
		Select(returnItemColumns...).
		From("return_items").
		Where(squirrel.Eq{"return_id": returnID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []returns.ReturnItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get return items: %w", err)
	}

	return items, nil
}

// CountByInvoice reports how many returns reference an invoice.
func (r *ReturnRepo) CountByInvoice(ctx context.Context, invoiceID id.ID) (int, error) {
	q := r.builder().
		Select("COUNT(*)").
		From("returns").
		Where(squirrel.Eq{"invoice_id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count returns: %w", err)
	}

	return count, nil
}

func (r *ReturnRepo) List(ctx context.Context, filter returns.ListFilter) ([]*returns.Return, error) {
	q := r.baseSelect().OrderBy("created_at DESC")

	if filter.InvoiceID != nil {
		q = q.Where(squirrel.Eq{"invoice_id": *filter.InvoiceID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.DateTo})
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

	var rets []*returns.Return
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rets, sql, args...); err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}

	return rets, nil
}
