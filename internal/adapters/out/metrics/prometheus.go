// Package metrics exposes the business counters of the service to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "driverdesk"

// Prometheus implements ports.Metrics and the cache and hub observers.
type Prometheus struct {
	registry *prometheus.Registry

	scans          *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	payoutCascades *prometheus.CounterVec
	lookupFailures *prometheus.CounterVec
	cacheRequests  *prometheus.CounterVec
	subscribers    prometheus.Gauge
}

// New registers every collector on a private registry, together with the Go
// runtime and process collectors.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scans by result.",
		}, []string{"result"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Delivery status changes by previous and new status.",
		}, []string{"from", "to"}),
		payoutCascades: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_cascade_orders_total",
			Help:      "Orders moved by paid or unpaid payout transitions.",
		}, []string{"direction"}),
		lookupFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_failures_total",
			Help:      "Failed calls to external order sources.",
		}, []string{"source"}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_requests_total",
			Help:      "Read view cache requests by outcome.",
		}, []string{"outcome"}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_subscribers",
			Help:      "Connected notification subscribers.",
		}),
	}
}

func (p *Prometheus) ScanRecorded(result string) {
	p.scans.WithLabelValues(result).Inc()
}

func (p *Prometheus) StatusChanged(from, to string) {
	p.transitions.WithLabelValues(from, to).Inc()
}

func (p *Prometheus) PayoutCascade(direction string, orders int) {
	p.payoutCascades.WithLabelValues(direction).Add(float64(orders))
}

func (p *Prometheus) LookupFailed(source string) {
	p.lookupFailures.WithLabelValues(source).Inc()
}

func (p *Prometheus) CacheHit() {
	p.cacheRequests.WithLabelValues("hit").Inc()
}

func (p *Prometheus) CacheMiss() {
	p.cacheRequests.WithLabelValues("miss").Inc()
}

func (p *Prometheus) SubscribersChanged(n int) {
	p.subscribers.Set(float64(n))
}

// Registry is used by tests to gather the collected values.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
