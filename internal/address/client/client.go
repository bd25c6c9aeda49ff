// Package client provides the HTTP client for the ViaCEP postal code API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cep_address_backend/internal/address/transport"
	"cep_address_backend/platform/apperr"
	"cep_address_backend/platform/cep"
	"cep_address_backend/platform/config"
	"cep_address_backend/platform/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// APIName identifies ViaCEP in integration errors.
	APIName = "ViaCEP"
	// OpLookup is the operation name reported for CEP lookups.
	OpLookup = "lookup"
)

// Client is the HTTP client for the ViaCEP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
	tracer     trace.Tracer
}

// New creates a new ViaCEP client. A zero timeout keeps the http.Client default.
func New(cfg config.ViaCEPConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.GetViaCEPTimeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.GetViaCEPBaseURL(),
		log:     log,
		tracer:  otel.Tracer("address-client"),
	}
}

// Lookup normalizes and validates rawCEP, then fetches its address from ViaCEP.
// Invalid input yields an apperr InvalidArgument error before any network call;
// transport failures, empty bodies and the not-found sentinel yield an
// apperr Integration error.
func (c *Client) Lookup(ctx context.Context, rawCEP string) (*transport.ViaCEPAddress, error) {
	log := c.log.WithContext(ctx)
	log.Info("looking up CEP", "cep", rawCEP)

	normalized, err := cep.Parse(rawCEP)
	if err != nil {
		log.Warn("invalid CEP", "cep", rawCEP, "error", err)
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "viacep.lookup")
	defer span.End()
	span.SetAttributes(attribute.String("cep", normalized))

	reqURL := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, normalized)
	log.Debug("viacep request url", "url", reqURL)

	start := time.Now()
	addr, status, err := c.doRequest(ctx, reqURL, rawCEP)
	latency := float64(time.Since(start).Milliseconds())
	log.UpstreamCall(APIName, OpLookup, status, latency, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("city", addr.Localidade))
	log.Info("CEP looked up", "cep", cep.Format(normalized), "city", addr.Localidade)
	return addr, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL, rawCEP string) (*transport.ViaCEPAddress, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, apperr.Integration(APIName, OpLookup, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, apperr.Integration(APIName, OpLookup, "communication with the API failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, apperr.Integration(APIName, OpLookup,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload *transport.ViaCEPAddress
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, resp.StatusCode, apperr.Integration(APIName, OpLookup, "null response from the API", nil)
		}
		return nil, resp.StatusCode, apperr.Integration(APIName, OpLookup, "communication with the API failed", err)
	}
	if payload == nil {
		return nil, resp.StatusCode, apperr.Integration(APIName, OpLookup, "null response from the API", nil)
	}
	if payload.Erro {
		return nil, resp.StatusCode, apperr.Integration(APIName, OpLookup, "CEP not found: "+rawCEP, nil)
	}

	return payload, resp.StatusCode, nil
}
