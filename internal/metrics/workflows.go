package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assistRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "requests_total",
			Help:      "AI assist operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "Rendered documents by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Time spent producing an exported document.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"format"},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Billing webhook events by type and whether they changed an entitlement.",
		},
		[]string{"type", "handled"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveAssist counts one assist operation
func ObserveAssist(op string, err error) {
	assistRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
}

// ObserveExport counts one export and records how long it took
func ObserveExport(format string, seconds float64, err error) {
	exportsTotal.WithLabelValues(format, outcome(err)).Inc()
	if err == nil {
		exportDuration.WithLabelValues(format).Observe(seconds)
	}
}

// ObserveWebhook counts one billing webhook event
func ObserveWebhook(eventType string, handled bool) {
	h := "false"
	if handled {
		h = "true"
	}
	webhookEventsTotal.WithLabelValues(eventType, h).Inc()
}
