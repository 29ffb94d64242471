package transport

// CustomerRequest is the customer data contract accepted by create and update.
// Required fields are pointers so that presence is checked rather than zero values:
// customer_id 0 and an empty name are valid, a missing or null field is not.
type CustomerRequest struct {
	CustomerID *int64  `json:"customer_id" validate:"required"`
	Name       *string `json:"name" validate:"required"`
	Email      *string `json:"email" validate:"required"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
}

// CustomerResponse represents a customer in API responses.
// Optional fields serialize as null when absent.
type CustomerResponse struct {
	CustomerID int64   `json:"customer_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
}

// DeleteCustomerResponse confirms a delete.
type DeleteCustomerResponse struct {
	Deleted    bool  `json:"deleted"`
	CustomerID int64 `json:"customer_id"`
}

// Echo converts a validated request into the response shape.
// Callers must validate first; required fields are dereferenced.
func (r CustomerRequest) Echo() CustomerResponse {
	return CustomerResponse{
		CustomerID: *r.CustomerID,
		Name:       *r.Name,
		Email:      *r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
	}
}
