package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event generation metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgen_events_total",
			Help: "Total number of event generation requests by outcome",
		},
		[]string{"type", "status"},
	)

	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventgen_delivery_duration_seconds",
			Help:    "Duration of event delivery to the sink in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Connectivity probe metrics
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgen_probe_total",
			Help: "Total number of sink connectivity probes by result",
		},
		[]string{"result"},
	)

	// Httpbin proxy metrics
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgen_proxy_requests_total",
			Help: "Total number of proxied httpbin requests by outcome",
		},
		[]string{"status"},
	)
)
