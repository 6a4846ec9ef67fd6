package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

// Upstream submission dates arrive in two observed shapes, DD-MM-YYYY from
// the tender portal and ISO YYYY-MM-DD from the scores service, plus a few
// human-entered variants. Every date field is forced through this parser at
// the ingestion boundary so filter and sort never compare mixed formats.
var submissionDateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2-1-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02 January 2006",
	"2 January 2006",
	"02 Jan 2006",
	"2 Jan 2006",
}

// ParseSubmissionDate parses a raw date string into a civil date. The error
// names the offending text so a failed field surfaces in logs instead of
// silently dropping out of the today-only filter.
func ParseSubmissionDate(text string) (models.Date, error) {
	text = cleanDateString(text)
	if text == "" {
		return models.Date{}, fmt.Errorf("empty date string")
	}

	for _, format := range submissionDateFormats {
		if t, err := time.Parse(format, text); err == nil {
			return models.DateOf(t), nil
		}
	}

	return models.Date{}, fmt.Errorf("unable to parse submission date: %q", text)
}

// parseSubmissionDatePtr is the nullable-field form used when building a
// Tender; parse failures are reported through the second return value.
func parseSubmissionDatePtr(text string) (*models.Date, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	d, err := ParseSubmissionDate(text)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// cleanDateString strips label prefixes commonly glued to portal dates.
func cleanDateString(s string) string {
	prefixes := []string{
		"Submission date:", "Last date:", "Deadline:", "Due date:", "Closes:",
	}
	sLower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(sLower, strings.ToLower(p)); idx != -1 {
			s = s[idx+len(p):]
			sLower = sLower[idx+len(p):]
		}
	}
	return strings.TrimSpace(s)
}
