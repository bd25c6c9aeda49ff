// Package handler provides HTTP handlers for the address domain.
package handler

import (
	"context"
	"math"
	"runtime"
	"runtime/debug"
	"time"

	"cep_address_backend/internal/address/transport"
	"cep_address_backend/platform/apperr"
	"cep_address_backend/platform/config"
	"cep_address_backend/platform/httpkit"
	"cep_address_backend/platform/logger"
	"cep_address_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "invalid request"
	msgEmptyBatch     = "request list must not be empty"
	msgInvalidPathCEP = "cep must be in the format 00000-000 or 00000000"

	statusUp = "UP"
	bytesMB  = 1024 * 1024
)

// AddressFinder resolves a raw CEP into an address.
type AddressFinder interface {
	FindByCEP(ctx context.Context, rawCEP string) (*transport.AddressResponse, error)
}

// Handler handles address HTTP requests.
type Handler struct {
	svc       AddressFinder
	val       *validator.Validator
	info      config.ServiceInfoConfig
	log       *logger.Logger
	startedAt time.Time
}

// New creates a new address handler.
func New(svc AddressFinder, val *validator.Validator, info config.ServiceInfoConfig, log *logger.Logger) *Handler {
	return &Handler{
		svc:       svc,
		val:       val,
		info:      info,
		log:       log,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the address endpoints on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cep/:cep", h.GetByCEP)
	rg.POST("/search", h.Search)
	rg.POST("/batch", h.Batch)
	rg.GET("/health", h.Health)
	rg.GET("/metrics", h.Metrics)
}

// GetByCEP handles GET /cep/:cep.
func (h *Handler) GetByCEP(c *gin.Context) {
	raw := c.Param("cep")
	if err := h.val.Var(raw, validator.TagCEP); err != nil {
		httpkit.HandleError(c, apperr.InvalidArgument(msgInvalidPathCEP))
		return
	}

	result, err := h.svc.FindByCEP(c.Request.Context(), raw)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Search handles POST /search.
func (h *Handler) Search(c *gin.Context) {
	var req transport.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.InvalidArgument(validator.FirstMessage(err)))
		return
	}

	result, err := h.svc.FindByCEP(c.Request.Context(), req.CEP)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Batch handles POST /batch. Items are looked up one after another and a
// failing item is reported under erros without aborting the rest.
func (h *Handler) Batch(c *gin.Context) {
	var reqs []transport.AddressRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if len(reqs) == 0 {
		httpkit.HandleError(c, apperr.BadRequest(msgEmptyBatch))
		return
	}

	ctx := c.Request.Context()
	log := h.log.WithContext(ctx)
	log.Info("batch lookup received", "count", len(reqs))

	resp := transport.BatchResponse{
		Sucessos: make(map[string]transport.AddressResponse, len(reqs)),
		Erros:    make(map[string]string),
		Total:    len(reqs),
	}
	for _, req := range reqs {
		result, err := h.svc.FindByCEP(ctx, req.CEP)
		if err != nil {
			if apperr.Is(err, apperr.KindInvalidArgument) {
				log.Info("batch item rejected", "cep", req.CEP, "error", err)
			} else {
				log.Warn("batch item failed", "cep", req.CEP, "error", err)
			}
			resp.Erros[req.CEP] = err.Error()
			continue
		}
		resp.Sucessos[req.CEP] = *result
	}
	resp.SucessosCount = len(resp.Sucessos)
	resp.ErrosCount = len(resp.Erros)

	log.Info("batch lookup finished", "successes", resp.SucessosCount, "errors", resp.ErrosCount)
	httpkit.OK(c, resp)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	httpkit.OK(c, transport.HealthResponse{
		Status:    statusUp,
		Service:   h.info.GetServiceName(),
		Timestamp: time.Now().UnixMilli(),
		Version:   h.info.GetServiceVersion(),
	})
}

// Metrics handles GET /metrics.
func (h *Handler) Metrics(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	httpkit.OK(c, transport.MetricsResponse{
		MemoryUsedMB:  ms.HeapAlloc / bytesMB,
		MemoryTotalMB: ms.Sys / bytesMB,
		MemoryMaxMB:   memoryLimit(ms.Sys) / bytesMB,
		Processors:    runtime.NumCPU(),
		UptimeMs:      time.Since(h.startedAt).Milliseconds(),
	})
}

// memoryLimit reports GOMEMLIMIT when one is set, otherwise the memory
// currently obtained from the OS.
func memoryLimit(sys uint64) uint64 {
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit == math.MaxInt64 {
		return sys
	}
	return uint64(limit)
}
