// Package metrics exposes Prometheus observability metrics for the
// reconciliation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// RowsIngestedTotal counts raw rows accepted from batch uploads.
var RowsIngestedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "telecare",
	Name:      "rows_ingested_total",
	Help:      "Total raw call rows ingested from uploaded batches",
})

// RowsDegradedTotal counts rows whose fields degraded to safe defaults.
var RowsDegradedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "telecare",
	Name:      "rows_degraded_total",
	Help:      "Rows whose fields degraded to safe defaults during normalization",
}, []string{"field"})

// PhoneIndexCollisionsTotal counts suffix collisions during index builds.
// Last write wins on a collision; the counter is the only trace left.
var PhoneIndexCollisionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "telecare",
	Name:      "phone_index_collisions_total",
	Help:      "Phone suffixes claimed by more than one operator during index construction",
})

// PhoneIndexSize reports the entry count of the most recent phone index build.
var PhoneIndexSize = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "telecare",
	Name:      "phone_index_size",
	Help:      "Entries in the phone suffix index after the last rebuild",
})

// UnmatchedCallsTotal counts calls whose phone suffix matched no operator.
var UnmatchedCallsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "telecare",
	Name:      "unmatched_calls_total",
	Help:      "Calls dropped from per-operator aggregation because no assignment matched",
})

// RecomputeDurationSeconds tracks full metric recomputation time.
var RecomputeDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "telecare",
	Name:      "recompute_duration_seconds",
	Help:      "Time taken to rebuild the derived metrics from raw data",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
})

// CacheInvalidationsTotal counts wholesale cache invalidations.
var CacheInvalidationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "telecare",
	Name:      "cache_invalidations_total",
	Help:      "Times the memoization cache was invalidated by a data replacement",
})

// FollowUpsByStatus reports the beneficiary count per urgency state after
// the last recompute.
var FollowUpsByStatus = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "telecare",
	Name:      "followups_by_status",
	Help:      "Beneficiaries per follow-up urgency state",
}, []string{"status"})
