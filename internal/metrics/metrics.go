// Package metrics defines and registers the custom Prometheus metrics of the
// money manager API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moneymanager"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created through the register endpoint.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered accounts.",
	},
)

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionWritesTotal counts successful ledger mutations.
// Labels:
//   - kind: "income" or "expense"
//   - op: "add", "update" or "delete"
var TransactionWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_writes_total",
		Help:      "Total number of income and expense writes.",
	},
	[]string{"kind", "op"},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// DashboardCacheTotal counts dashboard cache lookups.
// Label:
//   - result: "hit" or "miss"
var DashboardCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_cache_total",
		Help:      "Total number of dashboard cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the broker.
// Labels:
//   - type: event type (e.g. "user.registered")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published.",
	},
	[]string{"type", "result"},
)

// EventsProcessedTotal counts events handled by the notifier.
// Labels:
//   - type: event type
//   - result: "ok" or "error"
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of domain events processed by the notifier.",
	},
	[]string{"type", "result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single event takes to handle.
// Label:
//   - type: event type
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event handling from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
