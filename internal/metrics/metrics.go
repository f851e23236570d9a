// Package metrics holds the Prometheus collectors exported by the costar service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "costar"

// Query outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// queriesTotal counts service queries.
	// Labels: operation, outcome (found, not_found, error)
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "total",
		Help:      "Graph queries by operation and outcome",
	}, []string{"operation", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Graph query latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"})

	graphActors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "actors",
		Help:      "Actors in the loaded graph",
	})

	graphFilms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "films",
		Help:      "Films in the loaded graph",
	})

	// graphReloads counts graph loads.
	// Labels: outcome (success, error)
	graphReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "reloads_total",
		Help:      "Graph load attempts by outcome",
	}, []string{"outcome"})

	graphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "build_duration_seconds",
		Help:      "Time to read credits and build the graph",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	// httpRequests counts served requests.
	// Labels: route (mux pattern), status (HTTP status code class)
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status class",
	}, []string{"route", "status"})

	ingestedCredits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingest",
		Name:      "credits_total",
		Help:      "Credits written to the graph database by outcome",
	}, []string{"outcome"})
)

// RecordQuery records one service query.
func RecordQuery(operation, outcome string, elapsed time.Duration) {
	queriesTotal.WithLabelValues(operation, outcome).Inc()
	queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordGraphLoad records a load attempt and, on success, the new graph size.
func RecordGraphLoad(actors, films int, elapsed time.Duration, err error) {
	if err != nil {
		graphReloads.WithLabelValues("error").Inc()
		return
	}
	graphReloads.WithLabelValues("success").Inc()
	graphBuildDuration.Observe(elapsed.Seconds())
	graphActors.Set(float64(actors))
	graphFilms.Set(float64(films))
}

// RecordHTTPRequest records a served request. status is the numeric response code.
func RecordHTTPRequest(route string, status int) {
	httpRequests.WithLabelValues(route, statusClass(status)).Inc()
}

// RecordIngest records a batch of credits written (or failed) during bulk ingestion.
func RecordIngest(credits int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ingestedCredits.WithLabelValues(outcome).Add(float64(credits))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
