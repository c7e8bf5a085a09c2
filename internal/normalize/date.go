// Package normalize converts the raw date and phone values found in
// spreadsheet exports into the canonical forms the rest of the engine keys on.
// All functions are pure; failures degrade to sentinels, never errors.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// CanonicalDateLayout is the zero-padded DD-MM-YYYY form every date normalizes to
const CanonicalDateLayout = "02-01-2006"

// serialEpochOffsetDays converts a spreadsheet serial (days since 1899-12-30)
// to days since the unix epoch.
const serialEpochOffsetDays = 25569

var localDateRe = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)

// genericLayouts are tried in order for values that are neither in local
// format nor spreadsheet serials. Exports mix ISO timestamps with a handful
// of regional spellings.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Date normalizes a raw date cell to DD-MM-YYYY. Three branches are tried in
// a fixed precedence order: a value already in local D-M-YYYY (or D/M/YYYY)
// format is reformatted in place, a numeric value is interpreted as a
// spreadsheet serial date, and anything else goes through the generic layout
// list. An empty cell yields "N/A"; an unparseable one "Fecha inválida".
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return types.DateMissing
	}

	if m := localDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 1900 {
			return fmt.Sprintf("%02d-%02d-%04d", day, month, year)
		}
		// pattern matched but out of range, fall through to the other branches
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		ms := (serial - serialEpochOffsetDays) * 86400 * 1000
		return time.UnixMilli(int64(ms)).UTC().Format(CanonicalDateLayout)
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}

	return types.DateInvalid
}

// ParseCanonicalDate parses a canonical DD-MM-YYYY value back into a UTC
// time for elapsed-day math. Sentinels and anything else report false.
func ParseCanonicalDate(s string) (time.Time, bool) {
	t, err := time.Parse(CanonicalDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
