// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultado labels.
const (
	ResultadoOK      = "ok"
	ResultadoError   = "error"
	ResultadoRetry   = "retry"
	ResultadoDLQ     = "dlq"
	ResultadoRechazo = "rechazado"
	ResultadoAbierto = "circuito_abierto"
)

var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	},
	[]string{"method", "route", "status"},
)

var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// EmailJobs counts processed email jobs by tipo (confirmacion, recuperacion) and outcome.
var EmailJobs = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "email_jobs_total",
		Help: "Email jobs processed by type and outcome",
	},
	[]string{"tipo", "resultado"},
)

var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_total",
		Help: "Login attempts by role and outcome",
	},
	[]string{"rol", "resultado"},
)

// CircuitState is 0 closed, 1 open, 2 half-open.
var CircuitState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
	},
	[]string{"breaker"},
)

var registerOnce sync.Once

// Register adds every collector to reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(HTTPRequests, HTTPDuration, EmailJobs, Logins, CircuitState)
	})
}

func RecordRequest(method, route, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordEmail(tipo, resultado string) {
	EmailJobs.WithLabelValues(tipo, resultado).Inc()
}

func RecordLogin(rol, resultado string) {
	Logins.WithLabelValues(rol, resultado).Inc()
}

func RecordCircuitState(breaker string, state int) {
	CircuitState.WithLabelValues(breaker).Set(float64(state))
}
