package engine

import (
	"math"
	"sort"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/normalize"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// operatorTotals accumulates one operator's running counters during the join
type operatorTotals struct {
	totalCalls      int
	successfulCalls int
	failedCalls     int
	durationSum     int

	contactedNames    map[string]bool
	contactedSuffixes map[string]bool
}

// OperatorMetrics joins the call batch against the phone index and returns
// one aggregate per operator in the assignment set, sorted descending by
// total calls. Calls whose suffix matches no operator are dropped silently —
// an "unknown" bucket proved noisier than omission — and only show up in the
// unmatched-calls counter. An empty assignment set yields an empty slice.
func (e *Engine) OperatorMetrics() []types.OperatorMetrics {
	s, calls, operators := e.view()

	totals := make(map[string]*operatorTotals)
	for _, call := range calls {
		suffix, ok := normalize.Phone(call.Phone)
		if !ok {
			metrics.UnmatchedCallsTotal.Inc()
			continue
		}
		operator, ok := s.index.Lookup(suffix)
		if !ok {
			metrics.UnmatchedCallsTotal.Inc()
			continue
		}

		t := totals[operator]
		if t == nil {
			t = &operatorTotals{
				contactedNames:    make(map[string]bool),
				contactedSuffixes: make(map[string]bool),
			}
			totals[operator] = t
		}

		t.totalCalls++
		if call.IsSuccessful {
			t.successfulCalls++
		} else {
			t.failedCalls++
		}
		if call.DurationSeconds != nil {
			t.durationSum += *call.DurationSeconds
		}

		if key := nameKey(call.BeneficiaryName); key != "" {
			t.contactedNames[key] = true
		}
		t.contactedSuffixes[suffix] = true
	}

	out := make([]types.OperatorMetrics, 0, len(operators))
	for _, op := range operators {
		t := totals[op.OperatorName]
		if t == nil {
			t = &operatorTotals{
				contactedNames:    map[string]bool{},
				contactedSuffixes: map[string]bool{},
			}
		}

		m := types.OperatorMetrics{
			OperatorName:    op.OperatorName,
			TotalCalls:      t.totalCalls,
			SuccessfulCalls: t.successfulCalls,
			FailedCalls:     t.failedCalls,
		}
		if t.totalCalls > 0 {
			m.AverageDurationSeconds = int(math.Round(float64(t.durationSum) / float64(t.totalCalls)))
			m.SuccessRate = int(math.Round(100 * float64(t.successfulCalls) / float64(t.totalCalls)))
		}

		m.AssignedBeneficiaries = len(op.Assignments)
		for _, a := range op.Assignments {
			if beneficiaryContacted(a, t) {
				m.ContactedBeneficiaries++
			}
		}
		m.UncontactedBeneficiaries = m.AssignedBeneficiaries - m.ContactedBeneficiaries
		if m.AssignedBeneficiaries > 0 {
			m.CoverageRate = int(math.Round(100 * float64(m.ContactedBeneficiaries) / float64(m.AssignedBeneficiaries)))
		}

		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCalls != out[j].TotalCalls {
			return out[i].TotalCalls > out[j].TotalCalls
		}
		return out[i].OperatorName < out[j].OperatorName
	})

	return out
}

// beneficiaryContacted reports whether any of the operator's matched calls
// reached this beneficiary, by normalized name or by any of their phone
// suffixes.
func beneficiaryContacted(a types.Assignment, t *operatorTotals) bool {
	if key := nameKey(a.BeneficiaryName); key != "" && t.contactedNames[key] {
		return true
	}
	for _, field := range a.Phones {
		for _, candidate := range normalize.SplitPhoneField(field) {
			if suffix, ok := normalize.Phone(candidate); ok && t.contactedSuffixes[suffix] {
				return true
			}
		}
	}
	return false
}
