package orchestrator

import (
	"github.com/kgraph-io/kgraph/pkg/statemachine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "orchestrator",
			Name:      "tasks_finished_total",
			Help:      "Finished build tasks by final status and error type.",
		},
		[]string{"status", "error_type"},
	)

	tasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kgraph",
			Subsystem: "orchestrator",
			Name:      "tasks_in_flight",
			Help:      "Build tasks currently pending or running.",
		},
	)
)

func observeTaskStarted() {
	tasksInFlight.Inc()
}

func observeTaskAbandoned() {
	tasksInFlight.Dec()
}

func observeTaskFinished(status statemachine.TaskStatus, errType string) {
	tasksInFlight.Dec()
	tasksFinishedTotal.WithLabelValues(string(status), errType).Inc()
}
