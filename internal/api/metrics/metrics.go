// Package metrics defines and registers all custom Prometheus metrics for
// the community management API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "community"

// ComplaintsCreatedTotal counts newly filed complaints.
// Labels:
//   - category: maintenance, security, cleanliness, noise, parking,
//     utilities, safety, other
var ComplaintsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "complaints_created_total",
		Help:      "Total number of complaints created, by category.",
	},
	[]string{"category"},
)

// StatusTransitionsTotal counts complaint status transitions that were
// accepted by the state machine.
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of accepted complaint status transitions.",
	},
	[]string{"from", "to"},
)

// RejectedTransitionsTotal counts transition attempts refused by the state
// machine or by authorization.
// Label:
//   - reason: "invalid_transition" or "forbidden"
var RejectedTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_transitions_total",
		Help:      "Total number of rejected complaint status transition attempts.",
	},
	[]string{"reason"},
)

// NotificationsTotal counts fan-out deliveries by kind and result.
// Labels:
//   - kind: "email", "sms", "realtime"
//   - result: "ok" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries attempted, by kind and result.",
	},
	[]string{"kind", "result"},
)

// FeedbackRating observes submitted feedback ratings (1-5).
var FeedbackRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feedback_rating",
		Help:      "Distribution of complaint feedback ratings.",
		Buckets:   []float64{1, 2, 3, 4, 5},
	},
)

// EventsQueueDepth tracks events waiting in each fan-out worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of lifecycle events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
