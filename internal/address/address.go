// Package address provides the CEP address lookup bounded context.
// This file defines the public interfaces exposed to other domains.
package address

import (
	"context"

	"cep_address_backend/internal/address/transport"
)

// AddressService defines the public interface for CEP lookups.
// Other domains should depend on this interface, not the concrete implementation.
type AddressService interface {
	// FindByCEP resolves a raw CEP ("01310-100" or "01310100") into an address.
	FindByCEP(ctx context.Context, rawCEP string) (*transport.AddressResponse, error)

	// ClearCache drops every cached address.
	ClearCache(ctx context.Context) error
}
