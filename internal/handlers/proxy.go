package handlers

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/telhawk-systems/eventgen/internal/config"
	"github.com/telhawk-systems/eventgen/internal/metrics"
)

// HTTPBinProxy serves the companion demo endpoint: one outbound GET to an
// echo upstream, optionally through a forward proxy with a custom CA,
// summarized as JSON.
type HTTPBinProxy struct {
	upstream string
	client   *http.Client
	tracer   trace.Tracer
}

func NewHTTPBinProxy(cfg config.ProxyConfig) (*HTTPBinProxy, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	tlsCfg := &tls.Config{InsecureSkipVerify: cfg.TLSSkipVerify}
	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsCfg.RootCAs = pool
	}
	transport.TLSClientConfig = tlsCfg

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPBinProxy{
		upstream: cfg.UpstreamURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		tracer: otel.Tracer("eventgen/httpbin-proxy"),
	}, nil
}

func (p *HTTPBinProxy) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, span := p.tracer.Start(r.Context(), "httpbin_request")
	defer span.End()
	span.SetAttributes(attribute.String("upstream.url", p.upstream))

	var data any
	success := false

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream, nil)
	if err == nil {
		var resp *http.Response
		resp, err = p.client.Do(req)
		if err == nil {
			defer resp.Body.Close()
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			var body map[string]any
			if err = json.NewDecoder(resp.Body).Decode(&body); err == nil {
				span.AddEvent("received httpbin response")
				data = body
				success = true
			}
		}
	}

	if err != nil {
		span.RecordError(err)
		span.AddEvent("httpbin request failed",
			trace.WithAttributes(attribute.String("error", err.Error())),
		)
		data = map[string]any{"error": err.Error()}
	}

	if success {
		metrics.ProxyRequestsTotal.WithLabelValues("success").Inc()
	} else {
		metrics.ProxyRequestsTotal.WithLabelValues("error").Inc()
	}

	summary := map[string]any{
		"function":     "httpbin-proxy",
		"success":      success,
		"httpbin_data": data,
	}

	w.Header().Set("Content-Type", "application/json")
	if success {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(summary)
}
