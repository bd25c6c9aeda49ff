package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cep_address_backend/platform/apperr"
	"cep_address_backend/platform/config"
	"cep_address_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paulistaJSON = `{
  "cep": "01310-100",
  "logradouro": "Avenida Paulista",
  "complemento": "de 612 a 1510 - lado par",
  "bairro": "Bela Vista",
  "localidade": "São Paulo",
  "uf": "SP",
  "ddd": "11"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{ViaCEPBaseURL: srv.URL}
	return New(cfg, logger.Discard()), &calls
}

func TestLookupSuccess(t *testing.T) {
	var gotPath string
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(paulistaJSON))
	})

	addr, err := c.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)

	assert.Equal(t, "/ws/01310100/json/", gotPath)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "01310-100", addr.CEP)
	assert.Equal(t, "Avenida Paulista", addr.Logradouro)
	assert.Equal(t, "São Paulo", addr.Localidade)
	assert.Equal(t, "SP", addr.UF)
	assert.Equal(t, "11", addr.DDD)
}

func TestLookupLogsFormattedCEP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(paulistaJSON))
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	c := New(&config.Config{ViaCEPBaseURL: srv.URL}, logger.NewWithWriter("production", &buf))

	_, err := c.Lookup(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"CEP looked up","cep":"01310-100"`)
}

func TestLookupInvalidCEPSkipsNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	for _, input := range []string{"", "123", "0131010099"} {
		_, err := c.Lookup(context.Background(), input)
		require.Error(t, err, input)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument), input)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestLookupNotFoundSentinel(t *testing.T) {
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		_, err := c.Lookup(context.Background(), "99999999")
		require.Error(t, err, body)

		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindIntegration, e.Kind)
		assert.Equal(t, "ViaCEP", e.API)
		assert.Equal(t, "lookup", e.Op)
		assert.Equal(t, "CEP not found: 99999999", e.Message)
	}
}

func TestLookupNullAndEmptyBody(t *testing.T) {
	for _, body := range []string{"null", ""} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		_, err := c.Lookup(context.Background(), "01310100")
		require.Error(t, err, body)
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindIntegration, e.Kind)
		assert.Equal(t, "null response from the API", e.Message)
	}
}

func TestLookupUpstreamStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Lookup(context.Background(), "01310100")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIntegration))
	assert.Contains(t, err.Error(), "unexpected status 400")
}

func TestLookupMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := c.Lookup(context.Background(), "01310100")
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindIntegration, e.Kind)
	assert.NotNil(t, e.Err)
}

func TestLookupTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := New(&config.Config{ViaCEPBaseURL: baseURL}, logger.Discard())

	_, err := c.Lookup(context.Background(), "01310100")
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindIntegration, e.Kind)
	assert.Equal(t, "communication with the API failed", e.Message)
	assert.NotNil(t, e.Err)
}

func TestLookupHonoursConfiguredTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(&config.Config{ViaCEPBaseURL: srv.URL, ViaCEPTimeout: 50 * time.Millisecond}, logger.Discard())

	_, err := c.Lookup(context.Background(), "01310100")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIntegration))
}
