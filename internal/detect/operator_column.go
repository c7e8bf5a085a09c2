// Package detect locates the operator-name column in headerless call
// exports. The column position drifts between exports, so the first few data
// rows are scored with a name-likeness heuristic instead of trusting a fixed
// index.
package detect

import (
	"regexp"
	"strings"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

const (
	// FallbackColumn is the nominal operator position used when no column
	// scores above zero
	FallbackColumn = 7

	// candidate window: exports place the operator somewhere in columns 8-15
	// (1-based), duration and result keep their nominal slots
	firstCandidate = 7
	lastCandidate  = 14

	sampleRows = 5
)

var (
	timeRe    = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	dateRe    = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{2,4}$`)
	integerRe = regexp.MustCompile(`^\d+$`)
	nameRe    = regexp.MustCompile(`^[\p{L} .\-]+$`)
)

// Scorer rates how many values of a column look like operator names. The
// heuristic is pluggable so it can be tuned without touching ingestion.
type Scorer func(values []string) int

// LooksLikeName reports whether a single cell plausibly holds a person's
// name: not a time, date or bare integer, at least 3 characters, and either
// multiple words or purely letters/spaces/hyphens/periods (accents included).
func LooksLikeName(value string) bool {
	v := strings.TrimSpace(value)
	if len([]rune(v)) < 3 {
		return false
	}
	if timeRe.MatchString(v) || dateRe.MatchString(v) || integerRe.MatchString(v) {
		return false
	}
	if len(strings.Fields(v)) >= 2 {
		return true
	}
	return nameRe.MatchString(v)
}

// NameScore is the default Scorer: the count of values that look like names
func NameScore(values []string) int {
	score := 0
	for _, v := range values {
		if LooksLikeName(v) {
			score++
		}
	}
	return score
}

// Detector finds the operator column for a batch of rows
type Detector struct {
	score Scorer
}

// New creates a Detector. A nil scorer uses NameScore.
func New(score Scorer) *Detector {
	if score == nil {
		score = NameScore
	}
	return &Detector{score: score}
}

// OperatorColumn scores the candidate columns of the first rows and returns
// the best index. Ties go to the column with the higher match percentage,
// which with a fixed sample size means the earlier column wins. Returns
// FallbackColumn when nothing scores.
func (d *Detector) OperatorColumn(rows [][]string) int {
	n := len(rows)
	if n > sampleRows {
		n = sampleRows
	}
	if n == 0 {
		return FallbackColumn
	}

	bestCol, bestScore := FallbackColumn, 0
	bestPct := 0.0

	for col := firstCandidate; col <= lastCandidate; col++ {
		values := make([]string, 0, n)
		for _, row := range rows[:n] {
			if col < len(row) {
				values = append(values, row[col])
			}
		}
		if len(values) == 0 {
			continue
		}
		score := d.score(values)
		pct := float64(score) / float64(len(values))
		if score > bestScore || (score == bestScore && score > 0 && pct > bestPct) {
			bestCol, bestScore, bestPct = col, score, pct
		}
	}

	return bestCol
}

// OperatorForRow extracts the operator name from a row given the detected
// column. If that cell still looks like a time string — exports sometimes
// shift a single row — the rest of the row is rescanned for a multi-word,
// non-time, non-integer candidate before giving up.
func OperatorForRow(row []string, col int) string {
	var value string
	if col < len(row) {
		value = strings.TrimSpace(row[col])
	}

	if value != "" && !timeRe.MatchString(value) {
		return value
	}

	for i, cell := range row {
		if i == col {
			continue
		}
		v := strings.TrimSpace(cell)
		if timeRe.MatchString(v) || integerRe.MatchString(v) {
			continue
		}
		if len(strings.Fields(v)) >= 2 && LooksLikeName(v) {
			return v
		}
	}

	return types.OperatorUnidentified
}
