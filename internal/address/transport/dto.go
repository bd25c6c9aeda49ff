// Package transport provides DTOs for the address domain.
package transport

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AddressResponse is the normalized address returned by the API and cached by the service.
type AddressResponse struct {
	CEP            string `json:"cep"`
	Logradouro     string `json:"logradouro"`
	Complemento    string `json:"complemento"`
	Bairro         string `json:"bairro"`
	Cidade         string `json:"cidade"`
	CidadeCompleta string `json:"cidadeCompleta"` // same as Cidade, kept for older clients
	UF             string `json:"uf"`
	DDD            string `json:"ddd"`
}

// ViaCEPAddress mirrors the ViaCEP /ws/{cep}/json/ payload.
type ViaCEPAddress struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	DDD         string   `json:"ddd"`
	Erro        NotFound `json:"erro"`
}

// NotFound is ViaCEP's "erro" sentinel. The API has emitted it both as the
// boolean true and as the string "true"; both decode to true.
type NotFound bool

// UnmarshalJSON implements json.Unmarshaler.
func (n *NotFound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*n = NotFound(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = NotFound(strings.EqualFold(strings.TrimSpace(s), "true"))
	return nil
}

// AddressRequest is the body of POST /search and each item of POST /batch.
type AddressRequest struct {
	CEP string `json:"cep" validate:"required,cep"`
	// IncludeAdditionalInfo is accepted for compatibility; the response shape does not change.
	IncludeAdditionalInfo bool `json:"includeAdditionalInfo"`
}

// BatchResponse aggregates per-item results of POST /batch.
// Both maps are keyed by the CEP exactly as the caller sent it.
type BatchResponse struct {
	Sucessos      map[string]AddressResponse `json:"sucessos"`
	Erros         map[string]string          `json:"erros"`
	Total         int                        `json:"total"`
	SucessosCount int                        `json:"sucessos_count"`
	ErrosCount    int                        `json:"erros_count"`
}

// HealthResponse is the static health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp int64  `json:"timestamp"` // unix millis
	Version   string `json:"version"`
}

// MetricsResponse is a process memory/CPU snapshot.
type MetricsResponse struct {
	MemoryUsedMB  uint64 `json:"memory_used_mb"`
	MemoryTotalMB uint64 `json:"memory_total_mb"`
	MemoryMaxMB   uint64 `json:"memory_max_mb"`
	Processors    int    `json:"processors"`
	UptimeMs      int64  `json:"uptime_ms"`
}
