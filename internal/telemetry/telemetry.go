// Package telemetry exposes prometheus metrics for the request pipeline.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kaiwa-dev/kaiwa/config"
)

// Outcome labels for ObserveRequest.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	registerOnce sync.Once
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
)

// Telemetry records pipeline metrics into the default prometheus registry,
// served by the /metrics endpoint.
type Telemetry struct {
	enabled bool
}

func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	registerOnce.Do(func() {
		requests = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaiwa",
			Name:      "requests_total",
			Help:      "Completed pipeline invocations by task and outcome.",
		}, []string{"task", "outcome"})
		duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kaiwa",
			Name:      "request_duration_seconds",
			Help:      "Pipeline duration by task.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"task"})
	})
	return &Telemetry{enabled: cfg.Enabled}
}

// ObserveRequest records one completed pipeline invocation.
func (t *Telemetry) ObserveRequest(task, outcome string, d time.Duration) {
	if t == nil || !t.enabled {
		return
	}
	requests.WithLabelValues(task, outcome).Inc()
	duration.WithLabelValues(task).Observe(d.Seconds())
}
