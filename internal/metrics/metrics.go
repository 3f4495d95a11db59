// Package metrics declares the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gomibot"

var (
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "received_total",
			Help:      "Inbound user events by channel and type.",
		},
		[]string{"channel", "type"},
	)

	RoutesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "routes_total",
			Help:      "Dispatched events by matched route.",
		},
		[]string{"route"},
	)

	DialogueOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "outcomes_total",
			Help:      "Modification dialogue turns by outcome.",
		},
		[]string{"outcome"},
	)

	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "pushes_total",
			Help:      "Reminder pushes by slot and result.",
		},
		[]string{"slot", "result"},
	)

	ReminderTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one reminder tick.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Outbound messaging API calls by channel, operation and result.",
		},
		[]string{"channel", "op", "result"},
	)
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)
