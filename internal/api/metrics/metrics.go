// Package metrics defines and registers the custom Prometheus metrics of the
// lost & found API. HTTP request metrics come from echoprometheus; this package
// only holds domain counters.
//
// All metrics register with the default registry on package load (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lostfound"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts auth flow outcomes.
// Labels:
//   - event: register, login, refresh, logout
//   - result: success, or a short failure reason (e.g. "invalid_credentials")
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth flow requests, by event and result.",
	},
	[]string{"event", "result"},
)

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemsCreatedTotal counts newly posted reports.
// Labels:
//   - status: "lost" or "found"
//   - category: item category
var ItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_created_total",
		Help:      "Total number of item reports created, by status and category.",
	},
	[]string{"status", "category"},
)

// ItemsResolvedTotal counts resolve calls that succeeded.
var ItemsResolvedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_resolved_total",
		Help:      "Total number of item reports marked as resolved.",
	},
)

// ItemMutationsDeniedTotal counts update/delete/resolve attempts by non-owners.
// Label:
//   - operation: update, delete, resolve
var ItemMutationsDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_mutations_denied_total",
		Help:      "Total number of item mutations rejected because the caller is not the owner.",
	},
	[]string{"operation"},
)

// ItemSearchResults observes how many items a list query returned.
var ItemSearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "item_list_results",
		Help:      "Number of items returned by the public list endpoint.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)
