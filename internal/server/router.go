package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/telhawk-systems/eventgen/internal/handlers"
	"github.com/telhawk-systems/eventgen/internal/middleware"
)

// NewRouter constructs a ServeMux with the generator and proxy routes
// registered.
func NewRouter(gen *handlers.Generator, proxy *handlers.HTTPBinProxy) http.Handler {
	mux := http.NewServeMux()

	// Demo endpoints
	mux.HandleFunc("/", gen.HandleIndex)
	mux.HandleFunc("/httpbin", proxy.Handle)

	// Health endpoints
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/readyz", handlers.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(otelhttp.NewHandler(mux, "eventgen"))
}
