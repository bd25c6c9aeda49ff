// Package service provides business logic for CEP address lookups.
package service

import (
	"context"

	"cep_address_backend/internal/address/transport"
	"cep_address_backend/platform/cache"
	"cep_address_backend/platform/logger"
)

const cacheName = "addresses"

// Lookuper fetches a raw ViaCEP payload for a CEP.
type Lookuper interface {
	Lookup(ctx context.Context, rawCEP string) (*transport.ViaCEPAddress, error)
}

// Service handles address lookups with caching.
type Service struct {
	client Lookuper
	cache  cache.Store[transport.AddressResponse]
	log    *logger.Logger
}

// New creates a new address service.
func New(client Lookuper, store cache.Store[transport.AddressResponse], log *logger.Logger) *Service {
	return &Service{
		client: client,
		cache:  store,
		log:    log,
	}
}

// FindByCEP returns the address for a CEP, using the cache when available.
// Entries are keyed by the input exactly as given, so "01310-100" and
// "01310100" occupy separate slots. Failures are never cached.
func (s *Service) FindByCEP(ctx context.Context, rawCEP string) (*transport.AddressResponse, error) {
	log := s.log.WithContext(ctx)

	if cached, ok := s.getFromCache(ctx, rawCEP); ok {
		return &cached, nil
	}

	log.Info("fetching address", "cep", rawCEP)
	payload, err := s.client.Lookup(ctx, rawCEP)
	if err != nil {
		return nil, err
	}

	resp := toResponse(payload)
	s.setCache(ctx, rawCEP, resp)
	log.Info("address found", "cep", rawCEP, "city", resp.Cidade)

	return &resp, nil
}

// ClearCache removes all cached addresses.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		s.log.WithContext(ctx).Error("failed to clear address cache", "error", err)
		return err
	}
	s.log.WithContext(ctx).Info("address cache cleared")
	return nil
}

// getFromCache treats backend errors as a miss.
func (s *Service) getFromCache(ctx context.Context, key string) (transport.AddressResponse, bool) {
	log := s.log.WithContext(ctx)
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("address cache read failed", "cep", key, "error", err)
		return transport.AddressResponse{}, false
	}
	log.CacheEvent(cacheName, key, ok)
	return value, ok
}

func (s *Service) setCache(ctx context.Context, key string, value transport.AddressResponse) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WithContext(ctx).Warn("address cache write failed", "cep", key, "error", err)
	}
}

func toResponse(p *transport.ViaCEPAddress) transport.AddressResponse {
	return transport.AddressResponse{
		CEP:            p.CEP,
		Logradouro:     p.Logradouro,
		Complemento:    p.Complemento,
		Bairro:         p.Bairro,
		Cidade:         p.Localidade,
		CidadeCompleta: p.Localidade,
		UF:             p.UF,
		DDD:            p.DDD,
	}
}
