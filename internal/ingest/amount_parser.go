package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// Estimated costs arrive as free text, normally "<number> Cr" with optional
// thousands separators and a trailing period ("273.45 Cr.", "1,250 Cr").
var croreAmountRegex = regexp.MustCompile(`^\s*([\d,]+(?:\.\d+)?)\s*(?:[Cc][Rr]\.?)?\s*$`)

// ParseCrore extracts the leading numeric token of an estimated-cost string
// as a value in crores. ok is false when the text carries no parseable
// amount; callers decide the pass-through policy for that case.
func ParseCrore(text string) (float64, bool) {
	matches := croreAmountRegex.FindStringSubmatch(text)
	if matches == nil {
		return 0, false
	}

	clean := strings.ReplaceAll(matches[1], ",", "")
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// parseCrorePtr is the nullable-field form used when building a Tender.
func parseCrorePtr(text string) *float64 {
	if v, ok := ParseCrore(text); ok {
		return &v
	}
	return nil
}
