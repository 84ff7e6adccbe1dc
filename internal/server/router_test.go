package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/eventgen/internal/config"
	"github.com/telhawk-systems/eventgen/internal/handlers"
	"github.com/telhawk-systems/eventgen/internal/render"
	"github.com/telhawk-systems/eventgen/internal/sink"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	gen := handlers.NewGenerator(sink.New("", "", 0, 0), render.New())
	proxy, err := handlers.NewHTTPBinProxy(config.ProxyConfig{
		UpstreamURL: "http://127.0.0.1:0",
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return NewRouter(gen, proxy)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRouter_GeneratorPage(t *testing.T) {
	rr := get(t, testRouter(t), "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Event Generator 3000")
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := testRouter(t)

	rr := get(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")

	rr = get(t, router, "/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ready")
}

func TestRouter_Metrics(t *testing.T) {
	rr := get(t, testRouter(t), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_UnknownPath(t *testing.T) {
	rr := get(t, testRouter(t), "/definitely-not-here")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_SetsRequestID(t *testing.T) {
	rr := get(t, testRouter(t), "/healthz")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
