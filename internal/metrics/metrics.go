// Package metrics exposes prometheus instrumentation for webhook handling.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "issuebridge"

// Outcome labels for DeliveriesTotal.
const (
	OutcomeEmitted    = "emitted"
	OutcomeSuppressed = "suppressed"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
)

var (
	Registry = prometheus.NewRegistry()

	DeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Webhook deliveries processed, by GitHub event and outcome.",
	}, []string{"event", "outcome"})

	EmitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "emit_duration_seconds",
		Help:      "Latency of calls to the alerting provider.",
		Buckets:   prometheus.DefBuckets,
	})

	EmitFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emit_failures_total",
		Help:      "Calls to the alerting provider that returned an error.",
	})
)

func init() {
	Registry.MustRegister(
		DeliveriesTotal,
		EmitDuration,
		EmitFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveDelivery counts one processed delivery. An empty event type is
// reported as "none".
func ObserveDelivery(event, outcome string) {
	if event == "" {
		event = "none"
	}
	DeliveriesTotal.WithLabelValues(event, outcome).Inc()
}

// ObserveEmit records the latency and result of one emit call.
func ObserveEmit(started time.Time, err error) {
	EmitDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		EmitFailures.Inc()
	}
}

// Routes exposes the registry at /metrics.
func Routes(app fiber.Router) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})))
}
