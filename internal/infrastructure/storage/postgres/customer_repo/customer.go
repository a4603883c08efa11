// Package customer_repo provides the PostgreSQL implementation of the
// customer repository, including the loyalty transaction ledger.
package customer_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/id"
	"garmentpos/internal/domain/customer"
	"garmentpos/internal/infrastructure/storage/postgres"
)

var customerColumns = []string{
	"id", "phone", "name", "email", "address",
	"loyalty_points", "total_spent", "total_orders", "last_visit_at",
	"created_at", "updated_at",
}

var transactionColumns = []string{
	"id", "customer_id", "invoice_id", "transaction_type", "points",
	"amount_spent", "discount_amount", "description", "created_at",
}

// Repo is the PostgreSQL repository for customers.
type Repo struct {
	txm *postgres.TxManager
}

// NewRepo creates a new customer repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{txm: txm}
}

var _ customer.Repository = (*Repo)(nil)

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(customerColumns...).
		From("customers")
}

func (r *Repo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": customerID}).
		Limit(1)

	return r.getOne(ctx, q, customerID.String())
}

func (r *Repo) GetByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"phone": phone}).
		Limit(1)

	return r.getOne(ctx, q, phone)
}

// GetByPhoneForUpdate locks the customer row for the surrounding transaction.
func (r *Repo) GetByPhoneForUpdate(ctx context.Context, phone string) (*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"phone": phone}).
		Limit(1).
		Suffix("FOR UPDATE")

	return r.getOne(ctx, q, phone)
}

func (r *Repo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*customer.Customer, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", key)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return &c, nil
}

func (r *Repo) Insert(ctx context.Context, c *customer.Customer) error {
	q := r.builder().
		Insert("customers").
		Columns(customerColumns...).
		Values(
			c.ID, c.Phone, c.Name, c.Email, c.Address,
			c.LoyaltyPoints, c.TotalSpent, c.TotalOrders, c.LastVisitAt,
			c.CreatedAt, c.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("customer", "phone", c.Phone).WithCause(err)
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, c *customer.Customer) error {
	q := r.builder().
		Update("customers").
		Set("name", c.Name).
		Set("email", c.Email).
		Set("address", c.Address).
		Set("loyalty_points", c.LoyaltyPoints).
		Set("total_spent", c.TotalSpent).
		Set("total_orders", c.TotalOrders).
		Set("last_visit_at", c.LastVisitAt).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID.String())
	}

	return nil
}

func (r *Repo) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	q := r.baseSelect().OrderBy("name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
		})
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

	var customers []*customer.Customer
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	return customers, nil
}

// InsertTransaction appends an immutable loyalty ledger entry.
func (r *Repo) InsertTransaction(ctx context.Context, t *customer.Transaction) error {
	q := r.builder().
		Insert("loyalty_transactions").
		Columns(transactionColumns...).
		Values(
			t.ID, t.CustomerID, t.InvoiceID, t.Type, t.Points,
			t.AmountSpent, t.DiscountAmount, t.Description, t.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert loyalty transaction: %w", err)
	}

	return nil
}

func (r *Repo) ListTransactions(ctx context.Context, customerID id.ID) ([]*customer.Transaction, error) {
	q := r.builder().
		Select(transactionColumns...).
		From("loyalty_transactions").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var transactions []*customer.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &transactions, sql, args...); err != nil {
		return nil, fmt.Errorf("list loyalty transactions: %w", err)
	}

	return transactions, nil
}
