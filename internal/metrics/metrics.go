package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the service's Prometheus metrics. A nil *Collector is
// safe to use; every recording method is a no-op on it.
type Collector struct {
	registry            *prometheus.Registry
	fraudScans          prometheus.Counter
	alertsEmitted       *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	operationsRecorded  prometheus.Counter
	operationsRejected  prometheus.Counter
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		fraudScans: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "fraud_scans_total",
			Help: "Total number of fraud analyses run",
		}),
		alertsEmitted: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_alerts_total",
			Help: "Total number of fraud alerts emitted",
		}, []string{"level"}),
		statusTransitions: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "card_status_transitions_total",
			Help: "Total number of card status transitions persisted",
		}, []string{"status"}),
		operationsRecorded: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "card_operations_recorded_total",
			Help: "Total number of operations admitted and recorded",
		}),
		operationsRejected: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "card_operations_rejected_total",
			Help: "Total number of operations rejected by the limit check",
		}),
	}
}

// ScanRun counts one completed fraud analysis.
func (c *Collector) ScanRun() {
	if c == nil {
		return
	}
	c.fraudScans.Inc()
}

// AlertEmitted counts one emitted alert at the given level.
func (c *Collector) AlertEmitted(level string) {
	if c == nil {
		return
	}
	c.alertsEmitted.WithLabelValues(level).Inc()
}

// StatusChanged counts one persisted card status transition.
func (c *Collector) StatusChanged(status string) {
	if c == nil {
		return
	}
	c.statusTransitions.WithLabelValues(status).Inc()
}

// OperationRecorded counts one admitted operation.
func (c *Collector) OperationRecorded() {
	if c == nil {
		return
	}
	c.operationsRecorded.Inc()
}

// OperationRejected counts one operation refused by the limit check.
func (c *Collector) OperationRejected() {
	if c == nil {
		return
	}
	c.operationsRejected.Inc()
}

// Handler exposes the registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
