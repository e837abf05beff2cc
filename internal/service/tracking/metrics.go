package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// source: poll, webhook, event. result: noop, unrecognized, applied, not_found, retry, error.
var ReconcileTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reconcile_orders_total",
		Help: "Orders reconciled against provider state",
	},
	[]string{"provider", "source", "result"},
)
