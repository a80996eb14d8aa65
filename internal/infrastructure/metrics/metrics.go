// Package metrics defines and registers all custom Prometheus metrics for
// ballot. It is the single source of truth for metric names, labels, and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ballot"

// ── Client request pipeline ──────────────────────────────────────────────────

// ClientRequestsTotal counts classified outbound calls.
// Labels:
//   - method: HTTP method
//   - route: logical route template (e.g. "/candidates/{id}")
//   - kind: "ok" or the failure kind (e.g. "unauthenticated", "conflict")
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total number of outbound API calls, by classification.",
	},
	[]string{"method", "route", "kind"},
)

// ClientRequestDuration measures outbound call latency including retries.
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound API calls from first attempt to classification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ClientRetriesTotal counts transport-level retries of idempotent calls.
var ClientRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "retries_total",
		Help:      "Total number of retried outbound calls after transport failures.",
	},
	[]string{"route"},
)

// SessionInvalidationsTotal counts sessions ended by the server rejecting
// the credential (401 or failed refresh).
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated by the server.",
	},
)

// ── Development backend ──────────────────────────────────────────────────────

// VotesCastTotal counts votes accepted by the development backend.
var VotesCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "votes_cast_total",
		Help:      "Total number of votes accepted.",
	},
)

// VotesRejectedTotal counts rejected cast attempts.
// Label:
//   - reason: "already_voted", "unknown_candidate"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "votes_rejected_total",
		Help:      "Total number of rejected cast attempts, by reason.",
	},
	[]string{"reason"},
)
