// Package phoneindex builds the lookup that correlates call records with
// operators. The last 8 digits of a normalized phone number are the only
// join key shared by the two data sources.
package phoneindex

import (
	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/normalize"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Index maps normalized phone suffixes to operator names. Construction is
// pure; the engine caches the built index and only rebuilds after an
// explicit invalidation, so repeated lookups never pay the build cost twice.
type Index struct {
	entries    map[string]string
	collisions int
}

// Build constructs the index from the full assignment set. Each stored phone
// value may itself be a packed multi-phone field, so every value is split
// and normalized independently. When two operators claim the same suffix the
// later write wins; the collision is counted but not otherwise resolved,
// because the source data carries no tie-break signal.
func Build(operators []types.OperatorAssignments) *Index {
	ix := &Index{entries: make(map[string]string)}

	for _, op := range operators {
		name := op.OperatorName
		for _, a := range op.Assignments {
			for _, field := range a.Phones {
				for _, candidate := range normalize.SplitPhoneField(field) {
					suffix, ok := normalize.Phone(candidate)
					if !ok {
						continue
					}
					if prev, exists := ix.entries[suffix]; exists && prev != name {
						ix.collisions++
						metrics.PhoneIndexCollisionsTotal.Inc()
					}
					ix.entries[suffix] = name
				}
			}
		}
	}

	metrics.PhoneIndexSize.Set(float64(len(ix.entries)))
	return ix
}

// Lookup resolves a suffix to an operator name
func (ix *Index) Lookup(suffix string) (string, bool) {
	name, ok := ix.entries[suffix]
	return name, ok
}

// Size returns the number of distinct suffixes indexed
func (ix *Index) Size() int {
	return len(ix.entries)
}

// Collisions returns how many suffix collisions were overwritten during the
// build. Exposed as a diagnostic; see also the Prometheus counter.
func (ix *Index) Collisions() int {
	return ix.collisions
}
