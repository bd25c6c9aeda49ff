package httpkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cep_address_backend/platform/apperr"
	"cep_address_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapError(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	t.Run("invalid argument", func(t *testing.T) {
		status, body := MapError(apperr.InvalidArgument("CEP must contain exactly 8 digits"))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Bad Request", body.Error)
		assert.Equal(t, "CEP must contain exactly 8 digits", body.Message)
		assert.Equal(t, fixed, body.Timestamp)
		assert.Empty(t, body.API)
	})

	t.Run("integration", func(t *testing.T) {
		err := fmt.Errorf("service: %w", apperr.Integration("ViaCEP", "lookup", "CEP not found: 99999999", nil))
		status, body := MapError(err)
		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "API Integration Error", body.Error)
		assert.Equal(t, "ViaCEP", body.API)
		assert.Equal(t, "lookup", body.Operation)
		assert.Equal(t, "[ViaCEP] error in operation 'lookup': CEP not found: 99999999", body.Message)
	})

	t.Run("untyped error hides internals", func(t *testing.T) {
		status, body := MapError(errors.New("pq: password authentication failed"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal server error", body.Message)
	})

	t.Run("internal kind hides message", func(t *testing.T) {
		status, body := MapError(apperr.New(apperr.KindInternal, "nil pointer in mapper"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal server error", body.Message)
	})
}

func newTestEngine(handler gin.HandlerFunc) *gin.Engine {
	log := logger.Discard()
	engine := gin.New()
	engine.Use(RequestID(), Recovery(log), RequestLogger(log), SecurityHeaders())
	engine.GET("/x", handler)
	return engine
}

func TestHandleErrorWritesMappedBody(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		if HandleError(c, apperr.Integration("ViaCEP", "lookup", "null response", nil)) {
			return
		}
		OK(c, gin.H{"unreachable": true})
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ViaCEP", body["api"])
	assert.Equal(t, "lookup", body["operation"])
	assert.EqualValues(t, http.StatusBadGateway, body["status"])
}

func TestHandleErrorNil(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		if HandleError(c, nil) {
			return
		}
		OK(c, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoveryReturnsGenericBody(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) {
		panic("mapper exploded")
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "mapper exploded")
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	var seen string
	engine := newTestEngine(func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		OK(c, gin.H{})
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	engine := newTestEngine(func(c *gin.Context) { OK(c, gin.H{}) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
}

func TestRequestLoggerTagsRejectedRequestsWithKind(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log))
	engine.GET("/x", func(c *gin.Context) {
		HandleError(c, apperr.InvalidArgument("CEP must contain exactly 8 digits"))
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"request rejected"`)
	assert.Contains(t, buf.String(), `"kind":"invalid_argument"`)
}
