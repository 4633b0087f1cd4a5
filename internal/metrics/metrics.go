// Package metrics holds the Prometheus collectors shared by the gateway
// client, the booking flow and the web layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiCalls = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "busbooking_api_call_duration_seconds",
		Help:    "Latency of calls to the booking REST API by operation and outcome",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"op", "outcome"})

	flowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "busbooking_flow_transitions_total",
		Help: "Booking flow state transitions by target state",
	}, []string{"state"})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "busbooking_events_published_total",
		Help: "Flow events published to the broker by queue and result",
	}, []string{"queue", "result"})

	activeVisitors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "busbooking_active_visitors",
		Help: "Browser sessions currently held in memory by the web frontend",
	})
)

// ObserveAPICall records one gateway call.
func ObserveAPICall(op, outcome string, d time.Duration) {
	apiCalls.WithLabelValues(op, outcome).Observe(d.Seconds())
}

// FlowTransition counts one transition into state.
func FlowTransition(state string) {
	flowTransitions.WithLabelValues(state).Inc()
}

// EventPublished counts a publish attempt.
func EventPublished(queue string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublished.WithLabelValues(queue, result).Inc()
}

// SetActiveVisitors reports the visitor registry size.
func SetActiveVisitors(n int) { activeVisitors.Set(float64(n)) }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
