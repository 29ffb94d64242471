package repository

import (
	"context"
	"fmt"
)

// TableName is the remote table holding customer rows.
const TableName = "customers"

// Columns lists every customer column in select order.
var Columns = []string{"customer_id", "name", "email", "phone", "address"}

// Customer is one row of the customers table.
type Customer struct {
	CustomerID int64   `json:"customer_id" db:"customer_id"`
	Name       string  `json:"name" db:"name"`
	Email      string  `json:"email" db:"email"`
	Phone      *string `json:"phone" db:"phone"`
	Address    *string `json:"address" db:"address"`
}

// UpdateParams contains the mutable columns of a customer. customer_id is the
// filter and is never written.
type UpdateParams struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// CustomerReader provides read operations for customers.
type CustomerReader interface {
	// List returns all customers ordered by customer_id ascending.
	List(ctx context.Context) ([]Customer, error)
}

// CustomerWriter provides write operations for customers.
// Update and Delete report how many rows matched the customer_id filter.
type CustomerWriter interface {
	Insert(ctx context.Context, customer Customer) error
	Update(ctx context.Context, customerID int64, params UpdateParams) (int64, error)
	Delete(ctx context.Context, customerID int64) (int64, error)
}

// Repository combines all customer repository operations.
type Repository interface {
	CustomerReader
	CustomerWriter
}

// StoreError is a structured rejection reported by the store, such as a
// constraint violation. Any other error from a Repository is a transport fault.
type StoreError struct {
	Code    string
	Message string
	Details string
	Hint    string
	Err     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (code %s)", msg, e.Code)
	}
	return msg
}

// Unwrap returns the driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}
