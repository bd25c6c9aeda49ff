// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"cep_address_backend/platform/config"
	"cep_address_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f HealthCheckFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and CORS settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (e.g., Redis ping). May be nil.
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
