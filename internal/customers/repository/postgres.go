package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertCustomerQuery = `
		INSERT INTO customers (customer_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)`

	listCustomersQuery = `
		SELECT customer_id, name, email, phone, address
		FROM customers
		ORDER BY customer_id ASC`

	updateCustomerQuery = `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5
		WHERE customer_id = $1`

	deleteCustomerQuery = `
		DELETE FROM customers
		WHERE customer_id = $1`
)

// Querier is satisfied by *pgxpool.Pool and by pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepo implements Repository with a direct PostgreSQL connection.
type PostgresRepo struct {
	db Querier
}

// NewPostgres creates a repository backed by a pgx pool.
func NewPostgres(db Querier) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// Compile-time check that PostgresRepo implements Repository.
var _ Repository = (*PostgresRepo)(nil)

// Insert writes the full customer row.
func (r *PostgresRepo) Insert(ctx context.Context, customer Customer) error {
	_, err := r.db.Exec(ctx, insertCustomerQuery,
		customer.CustomerID, customer.Name, customer.Email, customer.Phone, customer.Address,
	)
	if err != nil {
		return classifyPg("insert customer", err)
	}
	return nil
}

// List retrieves all customers ordered by customer_id.
func (r *PostgresRepo) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, listCustomersQuery)
	if err != nil {
		return nil, classifyPg("list customers", err)
	}

	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Customer, error) {
		var c Customer
		err := row.Scan(&c.CustomerID, &c.Name, &c.Email, &c.Phone, &c.Address)
		return c, err
	})
	if err != nil {
		return nil, classifyPg("list customers", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return customers, nil
}

// Update writes name, email, phone and address of the matching customer.
func (r *PostgresRepo) Update(ctx context.Context, customerID int64, params UpdateParams) (int64, error) {
	tag, err := r.db.Exec(ctx, updateCustomerQuery,
		customerID, params.Name, params.Email, params.Phone, params.Address,
	)
	if err != nil {
		return 0, classifyPg("update customer", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the matching customer.
func (r *PostgresRepo) Delete(ctx context.Context, customerID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteCustomerQuery, customerID)
	if err != nil {
		return 0, classifyPg("delete customer", err)
	}
	return tag.RowsAffected(), nil
}

func classifyPg(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
