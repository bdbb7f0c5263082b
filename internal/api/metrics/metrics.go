// Package metrics defines and registers all custom Prometheus metrics for the
// project system API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "projects"

// TransitionsTotal counts successful project status transitions.
// Label:
//   - to: the new project status (includes "approved" via the review cascade)
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of successful project status transitions.",
	},
	[]string{"to"},
)

// ReviewsResolvedTotal counts terminal review decisions.
// Label:
//   - decision: "approved" or "rejected"
var ReviewsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_resolved_total",
		Help:      "Total number of review requests resolved, by decision.",
	},
	[]string{"decision"},
)

// AuthzDenialsTotal counts authorization failures surfaced to clients.
// Label:
//   - code: the stable error code ("forbidden", "forbidden_transition")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by authorization checks.",
	},
	[]string{"code"},
)

// NotificationsDroppedTotal counts notifications discarded because a worker
// queue was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped due to full worker queues.",
	},
)

// LedgerEntriesTotal counts entries appended to the approval ledger.
var LedgerEntriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_entries_total",
		Help:      "Total number of entries appended to the approved-project ledger.",
	},
)
