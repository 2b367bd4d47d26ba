package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PipelineMetrics struct {
	WebhookEvents       *prometheus.CounterVec
	Fulfillments        *prometheus.CounterVec
	InvariantViolations prometheus.Counter
}

// NewPipelineMetrics registers the pipeline counters on reg. Tests pass a
// fresh registry; main passes prometheus.DefaultRegisterer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "pipeline",
		Name:      "webhook_events_total",
		Help:      "Inbound payment webhook events by verification result.",
	}, []string{"result"})
	fulfillments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "pipeline",
		Name:      "fulfillment_orders_total",
		Help:      "Fulfillment submission outcomes.",
	}, []string{"result"})
	invariantViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "pipeline",
		Name:      "metadata_invariant_violations_total",
		Help:      "Completed sessions whose line items lacked variant metadata. Any increase is a defect; alert on it.",
	})

	reg.MustRegister(webhookEvents, fulfillments, invariantViolations)
	return &PipelineMetrics{
		WebhookEvents:       webhookEvents,
		Fulfillments:        fulfillments,
		InvariantViolations: invariantViolations,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
