// Package billing_repo provides PostgreSQL implementations for invoice and
// return repositories. Both tables are insert-only history.
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
	"garmentpos/internal/domain/billing/checkout"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var invoiceColumns = []string{
	"id", "invoice_number", "customer_id", "customer_name",
	"customer_phone", "customer_email",
	"total_mrp", "total_discount", "total_final_price",
	"total_base_amount", "total_gst_amount", "total_cgst_amount",
	"total_sgst_amount",
	"payment_method",
	"loyalty_points_earned", "loyalty_points_redeemed", "loyalty_discount_amount",
	"notes", "created_at",
}

var invoiceItemColumns = []string{
	"id", "invoice_id", "inventory_item_id",
	"barcode", "product_name", "design_number", "size", "color",
	"unit_price", "quantity", "total_price", "discount_amount", "final_price",
	"base_price", "gst_amount", "cgst_amount", "sgst_amount", "gst_rate",
	"created_at",
}

// InvoiceRepo is the PostgreSQL repository for invoices.
type InvoiceRepo struct {
	txm *postgres.TxManager
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{txm: txm}
}

var _ checkout.Repository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InvoiceRepo) Insert(ctx context.Context, inv *checkout.Invoice) error {
	q := r.builder().
		Insert("invoices").
		Columns(invoiceColumns...).
		Values(
			inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.CustomerName,
			inv.CustomerPhone, inv.CustomerEmail,
			inv.TotalMRP, inv.TotalDiscount, inv.TotalFinalPrice,
			inv.TotalBaseAmount, inv.TotalGSTAmount, inv.TotalCGSTAmount,
			inv.TotalSGSTAmount,
			inv.PaymentMethod,
			inv.LoyaltyPointsEarned, inv.LoyaltyPointsRedeemed, inv.LoyaltyDiscountAmount,
			inv.Notes, inv.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("invoice", "invoice_number", inv.InvoiceNumber).
				WithCause(err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	return nil
}

func (r *InvoiceRepo) InsertItems(ctx context.Context, items []checkout.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert("invoice_items").
		Columns(invoiceItemColumns...)

	for _, it := range items {
		q = q.Values(
			it.ID, it.InvoiceID, it.InventoryItemID,
			it.Barcode, it.ProductName, it.DesignNumber, it.Size, it.Color,
			it.UnitPrice, it.Quantity, it.TotalPrice, it.DiscountAmount, it.FinalPrice,
			it.BasePrice, it.GSTAmount, it.CGSTAmount, it.SGSTAmount, it.GSTRate,
			it.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}

	return nil
}

func (r *InvoiceRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(invoiceColumns...).
		From("invoices")
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*checkout.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": invoiceID}).
		Limit(1)

	return r.getOne(ctx, q, invoiceID.String())
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*checkout.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"invoice_number": number}).
		Limit(1)

	return r.getOne(ctx, q, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*checkout.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv checkout.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", key)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &inv, nil
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]checkout.InvoiceItem, error) {
	q := r.builder().
		Select(invoiceItemColumns...).
		From("invoice_items").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []checkout.InvoiceItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}

	return items, nil
}

func (r *InvoiceRepo) GetItem(ctx context.Context, itemID id.ID) (*checkout.InvoiceItem, error) {
	q := r.builder().
		Select(invoiceItemColumns...).
		From("invoice_items").
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item checkout.InvoiceItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice item", itemID.String())
		}
		return nil, fmt.Errorf("get invoice item: %w", err)
	}

	return &item, nil
}

func (r *InvoiceRepo) List(ctx context.Context, filter checkout.ListFilter) ([]*checkout.Invoice, error) {
	q := r.baseSelect().OrderBy("created_at DESC")

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
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

	var invoices []*checkout.Invoice
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &invoices, sql, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return invoices, nil
}
