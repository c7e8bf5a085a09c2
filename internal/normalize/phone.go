package normalize

import (
	"regexp"
	"strings"
)

// SuffixLength is the number of trailing digits used as the join key between
// call records and assignments. Local numbers are 9 digits with an unstable
// leading prefix, so suffix matching deliberately drops the prefix.
const SuffixLength = 8

var (
	nonDigitRe    = regexp.MustCompile(`\D`)
	phoneSplitRe  = regexp.MustCompile(`[;|\-]+|\s+`)
)

// Phone strips every non-digit character from a raw phone value and returns
// the last 8 digits. Values with fewer than 8 digits are unusable as keys
// and report ok=false.
func Phone(raw string) (suffix string, ok bool) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) < SuffixLength {
		return "", false
	}
	return digits[len(digits)-SuffixLength:], true
}

// SplitPhoneField splits a packed multi-phone cell into individual candidate
// values. Exports pack numbers with ";", "|", "-" or runs of whitespace.
func SplitPhoneField(raw string) []string {
	parts := phoneSplitRe.Split(strings.TrimSpace(raw), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
