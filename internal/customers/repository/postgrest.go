package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadqualification_backend/platform/postgrest"
)

// Table is the subset of the PostgREST client the repository needs.
type Table interface {
	Insert(ctx context.Context, table string, row any) (json.RawMessage, error)
	Select(ctx context.Context, table string, columns []string, order *postgrest.Order, filters ...postgrest.Filter) (json.RawMessage, error)
	Update(ctx context.Context, table string, values any, filters ...postgrest.Filter) (json.RawMessage, error)
	Delete(ctx context.Context, table string, filters ...postgrest.Filter) (json.RawMessage, error)
}

// PostgRESTRepo implements Repository against a Supabase/PostgREST table.
type PostgRESTRepo struct {
	table Table
}

// NewPostgREST creates a repository backed by the given REST table client.
func NewPostgREST(table Table) *PostgRESTRepo {
	return &PostgRESTRepo{table: table}
}

// Compile-time check that PostgRESTRepo implements Repository.
var _ Repository = (*PostgRESTRepo)(nil)

// Insert writes the full customer row.
func (r *PostgRESTRepo) Insert(ctx context.Context, customer Customer) error {
	if _, err := r.table.Insert(ctx, TableName, customer); err != nil {
		return classify("insert customer", err)
	}
	return nil
}

// List retrieves all customers ordered by customer_id.
func (r *PostgRESTRepo) List(ctx context.Context) ([]Customer, error) {
	raw, err := r.table.Select(ctx, TableName, Columns, &postgrest.Order{Column: "customer_id", Ascending: true})
	if err != nil {
		return nil, classify("list customers", err)
	}

	customers, err := decodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Update writes name, email, phone and address of the matching customer.
func (r *PostgRESTRepo) Update(ctx context.Context, customerID int64, params UpdateParams) (int64, error) {
	raw, err := r.table.Update(ctx, TableName, params, postgrest.Eq("customer_id", customerID))
	if err != nil {
		return 0, classify("update customer", err)
	}
	return countRows("update customer", raw)
}

// Delete removes the matching customer.
func (r *PostgRESTRepo) Delete(ctx context.Context, customerID int64) (int64, error) {
	raw, err := r.table.Delete(ctx, TableName, postgrest.Eq("customer_id", customerID))
	if err != nil {
		return 0, classify("delete customer", err)
	}
	return countRows("delete customer", raw)
}

// decodeRows accepts an empty body or a JSON null as an empty result set.
func decodeRows(raw json.RawMessage) ([]Customer, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Customer{}, nil
	}

	var customers []Customer
	if err := json.Unmarshal(trimmed, &customers); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return customers, nil
}

func countRows(op string, raw json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return 0, fmt.Errorf("%s: decode rows: %w", op, err)
	}
	return int64(len(rows)), nil
}

func classify(op string, err error) error {
	var restErr *postgrest.Error
	if errors.As(err, &restErr) {
		return &StoreError{
			Code:    restErr.Code,
			Message: restErr.Message,
			Details: restErr.Details,
			Hint:    restErr.Hint,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
