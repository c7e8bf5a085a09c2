package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/normalize"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Follow-up thresholds in elapsed days since the last successful contact
const (
	alDiaMaxDays     = 15
	pendienteMaxDays = 30
)

var statusRank = map[types.FollowUpStatus]int{
	types.StatusUrgente:   0,
	types.StatusPendiente: 1,
	types.StatusAlDia:     2,
}

// FollowUps classifies every beneficiary in the assignment set into the
// three-state urgency. Only successful calls count as contact; a beneficiary
// with any number of failed attempts and no dated successful call is
// urgente. The classification is a pure function of elapsed time, recomputed
// fresh on every request.
func (e *Engine) FollowUps() []types.FollowUpRecord {
	s, calls, operators := e.view()
	now := e.now()

	out := make([]types.FollowUpRecord, 0)
	counts := map[types.FollowUpStatus]int{}

	for _, op := range operators {
		for _, a := range op.Assignments {
			rec := e.followUpFor(s, calls, op.OperatorName, a, now)
			counts[rec.Status]++
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if statusRank[out[i].Status] != statusRank[out[j].Status] {
			return statusRank[out[i].Status] < statusRank[out[j].Status]
		}
		return out[i].BeneficiaryName < out[j].BeneficiaryName
	})

	for _, status := range []types.FollowUpStatus{types.StatusAlDia, types.StatusPendiente, types.StatusUrgente} {
		metrics.FollowUpsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	return out
}

func (e *Engine) followUpFor(s *snapshot, calls []types.CallRecord, operatorName string, a types.Assignment, now time.Time) types.FollowUpRecord {
	rec := types.FollowUpRecord{
		BeneficiaryName:       a.BeneficiaryName,
		OperatorName:          operatorName,
		Commune:               a.Commune,
		LastCallDateFormatted: types.DateMissing,
	}
	if len(a.Phones) > 0 {
		rec.Phone = a.Phones[0]
	}

	var lastSuccess time.Time
	var lastSuccessDate string

	for _, i := range beneficiaryHistory(s, a) {
		call := calls[i]
		rec.CallCount++
		if !call.IsSuccessful {
			continue
		}
		rec.SuccessfulCallCount++

		// Only dated successful calls can anchor the elapsed-day math; a
		// success whose date degraded to a sentinel still counts above.
		t, ok := s.dates[call.Date]
		if !ok {
			continue
		}
		if t.After(lastSuccess) {
			lastSuccess = t
			lastSuccessDate = call.Date
		}
	}

	if lastSuccessDate == "" {
		rec.Status = types.StatusUrgente
		rec.StatusReason = "Sin contacto exitoso registrado"
		return rec
	}

	days := int(now.Sub(lastSuccess).Hours() / 24)
	rec.DaysSinceLastCall = &days
	rec.LastCallDateFormatted = lastSuccessDate

	switch {
	case days <= alDiaMaxDays:
		rec.Status = types.StatusAlDia
		rec.StatusReason = fmt.Sprintf("Contacto exitoso hace %d días", days)
	case days <= pendienteMaxDays:
		rec.Status = types.StatusPendiente
		rec.StatusReason = fmt.Sprintf("Sin contacto hace %d días, requiere seguimiento", days)
	default:
		rec.Status = types.StatusUrgente
		rec.StatusReason = fmt.Sprintf("Sin contacto hace %d días", days)
	}
	return rec
}

// beneficiaryHistory unions the calls matched to an assignment by phone
// suffix with those matched by normalized beneficiary name, deduplicated by
// record position.
func beneficiaryHistory(s *snapshot, a types.Assignment) []int {
	seen := make(map[int]bool)
	var idxs []int

	add := func(list []int) {
		for _, i := range list {
			if !seen[i] {
				seen[i] = true
				idxs = append(idxs, i)
			}
		}
	}

	for _, field := range a.Phones {
		for _, candidate := range normalize.SplitPhoneField(field) {
			if suffix, ok := normalize.Phone(candidate); ok {
				add(s.historyBySuffix[suffix])
			}
		}
	}
	if key := nameKey(a.BeneficiaryName); key != "" {
		add(s.historyByName[key])
	}

	sort.Ints(idxs)
	return idxs
}
