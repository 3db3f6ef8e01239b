package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_events_total",
			Help: "Total number of delivery events reconciled, by instance and result",
		},
		[]string{"instance", "result"},
	)

	ResolutionTiers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_tier_total",
			Help: "Total number of identity resolutions, by matching tier",
		},
		[]string{"tier"},
	)

	TimelineWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_writes_total",
			Help: "Total number of timeline fields written, by instance",
		},
		[]string{"instance"},
	)

	EventsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_skipped_total",
			Help: "Total number of malformed transport events skipped, by stream",
		},
		[]string{"stream"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(EventsProcessed)
	prometheus.MustRegister(ResolutionTiers)
	prometheus.MustRegister(TimelineWrites)
	prometheus.MustRegister(EventsSkipped)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
