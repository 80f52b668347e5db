package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sim", Name: "events_applied_total", Help: "Simulation events applied, by kind"},
		[]string{"kind"},
	)
	MatchesTotal       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sim", Name: "matches_total", Help: "Riders matched to a driver"})
	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sim", Name: "cancellations_total", Help: "Rider requests cancelled"})
	RidesCompleted     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sim", Name: "rides_completed_total", Help: "Rides dropped off"})
	SimulationRuns     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "ride_sim", Name: "simulation_runs_total", Help: "Completed simulation runs"})
	EventsPerRun       = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ride_sim",
		Name:      "simulation_events_per_run",
		Help:      "Events processed per simulation run",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ride_sim", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ride_sim",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
