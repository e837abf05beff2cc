package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// result: accepted, rejected, batch_error, precheck_closed, commit_failed
	DispatchStopsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_stops_total",
			Help: "Requests processed by the dispatch scheduler by result",
		},
		[]string{"provider", "result"},
	)

	DispatchBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_batch_size",
			Help:    "Number of stops per submitted batch",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 20},
		},
		[]string{"provider"},
	)
)
