// Package service implements the customer operations on top of a row store.
package service

import (
	"context"
	"errors"

	"leadqualification_backend/internal/customers/repository"
	"leadqualification_backend/internal/customers/transport"
	"leadqualification_backend/platform/apperr"
	"leadqualification_backend/platform/logger"

	"github.com/samber/lo"
)

const (
	msgCustomerNotFound = "Customer not found"
	msgStoreUnavailable = "store unavailable"
)

// Service provides business logic for customers.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new customers service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create inserts the customer and echoes the submitted record.
func (s *Service) Create(ctx context.Context, req transport.CustomerRequest) (transport.CustomerResponse, error) {
	customer := repository.Customer{
		CustomerID: *req.CustomerID,
		Name:       *req.Name,
		Email:      *req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
	}

	if err := s.repo.Insert(ctx, customer); err != nil {
		return transport.CustomerResponse{}, s.storeFailure(ctx, "create customer", err)
	}
	return req.Echo(), nil
}

// List returns every customer ordered by customer_id. An empty table yields an empty slice.
func (s *Service) List(ctx context.Context) ([]transport.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, "list customers", err)
	}

	return lo.Map(customers, func(c repository.Customer, _ int) transport.CustomerResponse {
		return toResponse(c)
	}), nil
}

// Update replaces the mutable fields of the customer addressed by customerID.
// The customer_id in the body is echoed but never written.
func (s *Service) Update(ctx context.Context, customerID int64, req transport.CustomerRequest) (transport.CustomerResponse, error) {
	affected, err := s.repo.Update(ctx, customerID, repository.UpdateParams{
		Name:    *req.Name,
		Email:   *req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return transport.CustomerResponse{}, s.storeFailure(ctx, "update customer", err)
	}
	if affected == 0 {
		return transport.CustomerResponse{}, apperr.NotFound(msgCustomerNotFound).WithOp("update customer")
	}
	return req.Echo(), nil
}

// Delete removes the customer addressed by customerID.
func (s *Service) Delete(ctx context.Context, customerID int64) (transport.DeleteCustomerResponse, error) {
	affected, err := s.repo.Delete(ctx, customerID)
	if err != nil {
		return transport.DeleteCustomerResponse{}, s.storeFailure(ctx, "delete customer", err)
	}
	if affected == 0 {
		return transport.DeleteCustomerResponse{}, apperr.NotFound(msgCustomerNotFound).WithOp("delete customer")
	}
	return transport.DeleteCustomerResponse{Deleted: true, CustomerID: customerID}, nil
}

// storeFailure passes a store rejection through as a bad request carrying the
// store's own text. Transport faults are logged and hidden behind a generic message.
func (s *Service) storeFailure(ctx context.Context, op string, err error) error {
	var storeErr *repository.StoreError
	if errors.As(err, &storeErr) {
		return apperr.Wrap(apperr.KindBadRequest, storeErr.Error(), err).WithOp(op)
	}

	s.log.WithContext(ctx).StoreError(op, err)
	return apperr.Wrap(apperr.KindInternal, msgStoreUnavailable, err).WithOp(op)
}

func toResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}
