// Package address provides the CEP address lookup bounded context.
// This file defines the module that encapsulates all address setup.
package address

import (
	"cep_address_backend/internal/address/client"
	"cep_address_backend/internal/address/handler"
	"cep_address_backend/internal/address/service"
	"cep_address_backend/internal/address/transport"
	apphttp "cep_address_backend/internal/http"
	"cep_address_backend/platform/cache"
	"cep_address_backend/platform/config"
	"cep_address_backend/platform/logger"
	"cep_address_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the address module needs.
type ModuleConfig interface {
	config.ViaCEPConfig
	config.ServiceInfoConfig
}

// Module is the address bounded context module.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule creates and initializes the address module.
func NewModule(cfg ModuleConfig, store cache.Store[transport.AddressResponse], val *validator.Validator, log *logger.Logger) *Module {
	apiClient := client.New(cfg, log)
	svc := service.New(apiClient, store, log)
	h := handler.New(svc, val, cfg, log)

	log.Info("address module initialized", "viacep", cfg.GetViaCEPBaseURL())

	return &Module{
		service: svc,
		handler: h,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "address"
}

// Service returns the address service for external use.
func (m *Module) Service() AddressService {
	return m.service
}

// RegisterRoutes mounts the address routes under /api/v1/address.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/address"))
}

var _ apphttp.Module = (*Module)(nil)
var _ AddressService = (*service.Service)(nil)
