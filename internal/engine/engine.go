// Package engine is the call-to-assignment reconciliation core: it joins
// normalized call records against the assignment set through the phone
// suffix index, aggregates per-operator metrics and classifies every
// beneficiary's follow-up urgency. All derived data is recomputed in full
// from an in-memory snapshot cache that is invalidated wholesale whenever
// either raw dataset is replaced.
package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/normalize"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/phoneindex"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Engine owns the raw datasets and the memoization cache derived from them.
// Readers may call OperatorMetrics and FollowUps concurrently; the
// invalidate-then-rebuild step runs under the write lock so no reader ever
// observes an index built from half of one dataset version and half of the
// next.
type Engine struct {
	mu        sync.RWMutex
	calls     []types.CallRecord
	operators []types.OperatorAssignments
	snap      *snapshot

	now    func() time.Time
	logger zerolog.Logger
}

// snapshot is the memoized state rebuilt lazily after an invalidation: the
// phone index, the per-beneficiary call history (keyed both by phone suffix
// and by normalized name) and the parsed-date table.
type snapshot struct {
	index           *phoneindex.Index
	historyBySuffix map[string][]int // suffix -> indexes into calls
	historyByName   map[string][]int
	dates           map[string]time.Time // canonical date string -> parsed UTC time
}

// New creates an Engine with empty datasets
func New(logger zerolog.Logger) *Engine {
	return &Engine{
		now:    time.Now,
		logger: logger,
	}
}

// ReplaceCalls swaps in a new call batch wholesale and invalidates the cache
func (e *Engine) ReplaceCalls(records []types.CallRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = records
	e.invalidateLocked()

	e.logger.Info().Int("records", len(records)).Msg("call dataset replaced")
}

// ReplaceAssignments swaps in a new assignment set and invalidates the cache
func (e *Engine) ReplaceAssignments(operators []types.OperatorAssignments) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.operators = operators
	e.invalidateLocked()

	e.logger.Info().Int("operators", len(operators)).Msg("assignment set replaced")
}

// Invalidate drops the memoized snapshot. The next read rebuilds it.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
}

func (e *Engine) invalidateLocked() {
	e.snap = nil
	metrics.CacheInvalidationsTotal.Inc()
}

// Collisions reports how many phone suffix collisions the current index
// build overwrote. Diagnostic only; last write wins per the index contract.
func (e *Engine) Collisions() int {
	s, _, _ := e.view()
	return s.index.Collisions()
}

// Snapshot assembles the dashboard payload pushed to websocket clients
func (e *Engine) Snapshot() types.DashboardSnapshot {
	return types.DashboardSnapshot{
		Type:      "dashboard_snapshot",
		Timestamp: e.now(),
		Operators: e.OperatorMetrics(),
		FollowUps: e.FollowUps(),
	}
}

// view returns the memoized snapshot together with the dataset slices it
// was built from, rebuilding under the write lock if an invalidation dropped
// it. Datasets are replaced wholesale and never mutated in place, so the
// captured slice headers stay consistent with the snapshot even if a
// replacement lands right after the lock is released. Rebuilding is
// idempotent, so a racing reader that loses the lock reuses the winner's
// build.
func (e *Engine) view() (*snapshot, []types.CallRecord, []types.OperatorAssignments) {
	e.mu.RLock()
	s, calls, operators := e.snap, e.calls, e.operators
	e.mu.RUnlock()
	if s != nil {
		return s, calls, operators
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		e.snap = e.buildSnapshot()
	}
	return e.snap, e.calls, e.operators
}

func (e *Engine) buildSnapshot() *snapshot {
	start := time.Now()

	s := &snapshot{
		index:           phoneindex.Build(e.operators),
		historyBySuffix: make(map[string][]int),
		historyByName:   make(map[string][]int),
		dates:           make(map[string]time.Time),
	}

	for i, call := range e.calls {
		if suffix, ok := normalize.Phone(call.Phone); ok {
			s.historyBySuffix[suffix] = append(s.historyBySuffix[suffix], i)
		}
		if key := nameKey(call.BeneficiaryName); key != "" {
			s.historyByName[key] = append(s.historyByName[key], i)
		}
		if _, seen := s.dates[call.Date]; !seen {
			if t, ok := normalize.ParseCanonicalDate(call.Date); ok {
				s.dates[call.Date] = t
			}
		}
	}

	elapsed := time.Since(start)
	metrics.RecomputeDurationSeconds.Observe(elapsed.Seconds())

	e.logger.Debug().
		Int("calls", len(e.calls)).
		Int("index_size", s.index.Size()).
		Int("index_collisions", s.index.Collisions()).
		Dur("elapsed", elapsed).
		Msg("snapshot rebuilt")

	return s
}

// nameKey normalizes a beneficiary name for history matching: trimmed,
// lower-cased, inner whitespace collapsed.
func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
