// Package metrics expone métricas Prometheus del servidor HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry agrupa los collectors de una instancia del servidor.
// Cada router tiene el suyo para que los tests no choquen con el registro global.
type Registry struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	doses    *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medremind_http_requests_total",
			Help: "Requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medremind_http_request_duration_seconds",
			Help:    "Latencia de requests HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		doses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "medremind_doses_recorded_total",
			Help: "Tomas registradas por resultado.",
		}, []string{"taken"}),
	}
	reg.MustRegister(r.requests, r.duration, r.doses)
	return r
}

// ObserveRequest registra un request ya servido. route es el patrón de chi, no el path crudo.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// DoseRecorded cuenta una toma registrada.
func (r *Registry) DoseRecorded(taken bool) {
	if r == nil {
		return
	}
	r.doses.WithLabelValues(strconv.FormatBool(taken)).Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer expone el registro (tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
