package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "node_requests_total",
			Help: "Total number of Aptos node REST requests",
		},
		[]string{"endpoint", "status"},
	)

	nodeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "node_request_duration_seconds",
			Help:    "Duration of Aptos node REST requests",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	fetchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_cycles_total",
			Help: "Total number of page fetch cycles by outcome",
		},
		[]string{"page", "state"},
	)

	transactionsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transactions_submitted_total",
			Help: "Total number of transactions handed to the wallet",
		},
		[]string{"function", "outcome"},
	)
)

// ObserveNodeRequest records one node call. status is the HTTP status, 0 for transport failures.
func ObserveNodeRequest(endpoint string, status int, d time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	nodeRequestsTotal.WithLabelValues(endpoint, label).Inc()
	nodeRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveFetchCycle records the outcome of one aggregation cycle
func ObserveFetchCycle(page, state string) {
	fetchCyclesTotal.WithLabelValues(page, state).Inc()
}

// ObserveSubmission records a transaction submission outcome
func ObserveSubmission(function, outcome string) {
	transactionsSubmittedTotal.WithLabelValues(function, outcome).Inc()
}
