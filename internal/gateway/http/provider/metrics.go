package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of courier provider API calls including token refresh",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "method", "route", "code"},
	)

	ProviderUnauthorizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_unauthorized_total",
			Help: "Total number of 401 responses that forced a token refresh",
		},
		[]string{"provider"},
	)

	ProviderAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_alerts_total",
			Help: "Total number of provider failures reported to the ops channel",
		},
		[]string{"provider", "route"},
	)
)
