// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"leadqualification_backend/platform/config"
	"leadqualification_backend/platform/logger"
)

// RouterConfig is the configuration the HTTP router needs.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks against the row store.
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
