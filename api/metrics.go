package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch and import counters, registered on the default registry and
// served at /metrics.
var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmbook",
		Name:      "actions_total",
		Help:      "Dispatched actions by name and outcome.",
	}, []string{"action", "outcome"})

	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "farmbook",
		Name:      "import_rows_total",
		Help:      "CSV import rows by result (committed, rejected).",
	}, []string{"result"})
)
