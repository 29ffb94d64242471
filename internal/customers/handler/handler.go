package handler

import (
	"net/http"
	"strconv"

	"leadqualification_backend/internal/customers/service"
	"leadqualification_backend/internal/customers/transport"
	"leadqualification_backend/platform/apperr"
	"leadqualification_backend/platform/httpkit"
	"leadqualification_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "customer_id must be an integer"
)

// Handler handles HTTP requests for customers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new customers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers customer routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.PUT("/:customer_id", h.Update)
	rg.DELETE("/:customer_id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := h.bindCustomer(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	customerID, ok := parseCustomerID(c)
	if !ok {
		return
	}
	req, ok := h.bindCustomer(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), customerID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	customerID, ok := parseCustomerID(c)
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), customerID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) bindCustomer(c *gin.Context) (transport.CustomerRequest, bool) {
	var req transport.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgInvalidRequest).WithDetails(err.Error()))
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.Describe(err)))
		return req, false
	}
	return req, true
}

func parseCustomerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("customer_id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusUnprocessableEntity, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}
