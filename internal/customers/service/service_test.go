package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"leadqualification_backend/internal/customers/repository"
	"leadqualification_backend/internal/customers/transport"
	"leadqualification_backend/platform/apperr"
	"leadqualification_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows      map[int64]repository.Customer
	failWith  error
	lastParam repository.UpdateParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]repository.Customer{}}
}

func (f *fakeRepo) Insert(_ context.Context, c repository.Customer) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, exists := f.rows[c.CustomerID]; exists {
		return &repository.StoreError{Code: "23505", Message: "duplicate key value violates unique constraint \"customers_pkey\""}
	}
	f.rows[c.CustomerID] = c
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]repository.Customer, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]repository.Customer, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, p repository.UpdateParams) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.lastParam = p
	c, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	c.Name, c.Email, c.Phone, c.Address = p.Name, p.Email, p.Phone, p.Address
	f.rows[id] = c
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func ptr[T any](v T) *T { return &v }

func request(id int64, name, email string) transport.CustomerRequest {
	return transport.CustomerRequest{CustomerID: ptr(id), Name: ptr(name), Email: ptr(email)}
}

func TestCreateEchoesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.Discard())

	req := request(1, "Ada", "ada@example.com")
	req.Phone = ptr("555-0100")

	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, transport.CustomerResponse{CustomerID: 1, Name: "Ada", Email: "ada@example.com", Phone: ptr("555-0100")}, resp)
	assert.Contains(t, repo.rows, int64(1))
}

func TestCreateDuplicateIsBadRequestWithStoreText(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.Discard())

	_, err := svc.Create(context.Background(), request(1, "Ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), request(1, "Ada", "ada@example.com"))
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Contains(t, appErr.Message, "duplicate key")
}

func TestListEmptyIsNonNil(t *testing.T) {
	svc := New(newFakeRepo(), logger.Discard())

	customers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestUpdateWritesPathIDNotBodyID(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[5] = repository.Customer{CustomerID: 5, Name: "Old", Email: "old@example.com"}
	svc := New(repo, logger.Discard())

	resp, err := svc.Update(context.Background(), 5, request(99, "New", "new@example.com"))
	require.NoError(t, err)

	assert.Equal(t, int64(99), resp.CustomerID, "response echoes the body")
	assert.Equal(t, "New", repo.rows[5].Name)
	assert.NotContains(t, repo.rows, int64(99))
}

func TestUpdateAndDeleteMissingAreNotFound(t *testing.T) {
	svc := New(newFakeRepo(), logger.Discard())

	_, err := svc.Update(context.Background(), 42, request(42, "A", "a@example.com"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	appErr, _ := apperr.As(err)
	assert.Equal(t, "Customer not found", appErr.Message)

	_, err = svc.Delete(context.Background(), 42)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteConfirms(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[3] = repository.Customer{CustomerID: 3, Name: "C", Email: "c@example.com"}
	svc := New(repo, logger.Discard())

	resp, err := svc.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, transport.DeleteCustomerResponse{Deleted: true, CustomerID: 3}, resp)
	assert.Empty(t, repo.rows)
}

func TestTransportFaultIsInternal(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = errors.New("dial tcp: connection refused")
	svc := New(repo, logger.Discard())

	_, err := svc.List(context.Background())
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindInternal, appErr.Kind)
	assert.Equal(t, "store unavailable", appErr.Message)
	assert.NotContains(t, appErr.Message, "connection refused")
}
