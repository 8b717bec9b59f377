package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	SignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total successful signups",
		},
	)

	TokensIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total access tokens issued",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RequestLatency)
		prometheus.MustRegister(SignupsTotal)
		prometheus.MustRegister(TokensIssuedTotal)
	})
}
