// Package customers provides the customers bounded context module.
package customers

import (
	"leadqualification_backend/internal/customers/handler"
	"leadqualification_backend/internal/customers/repository"
	"leadqualification_backend/internal/customers/service"
	apphttp "leadqualification_backend/internal/http"
	"leadqualification_backend/platform/logger"
	"leadqualification_backend/platform/validator"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the customers module on top of the given store.
func NewModule(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// RegisterRoutes mounts customer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Root.Group("/customers"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
