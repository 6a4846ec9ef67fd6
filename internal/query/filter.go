// Package query implements the in-memory pipeline applied to each enriched
// tender batch: a conjunction of filter predicates, a stable sort, and
// pagination. Every stage is pure; batches are never mutated.
package query

import (
	"strings"

	"github.com/rohan/tender-scout/internal/models"
)

// Apply returns the subset of tenders matching every active predicate in
// the filter state. Input order is preserved; ordering is imposed later by
// Sort. today is the civil date used by the today-only toggle.
func Apply(tenders []models.Tender, f models.FilterState, today models.Date) []models.Tender {
	if !anyFilterActive(f) {
		return tenders
	}

	out := make([]models.Tender, 0, len(tenders))
	for _, t := range tenders {
		if matches(t, f, today) {
			out = append(out, t)
		}
	}
	return out
}

func anyFilterActive(f models.FilterState) bool {
	return strings.TrimSpace(f.SearchTerm) != "" ||
		activeSelection(f.Organization) ||
		activeSelection(f.State) ||
		activeSelection(f.WorkType) ||
		f.HasAmountRange() ||
		f.TodayOnly
}

func activeSelection(v string) bool {
	return v != "" && v != models.FilterAll
}

func matches(t models.Tender, f models.FilterState, today models.Date) bool {
	return matchesSearch(t, f.SearchTerm) &&
		matchesOrganization(t, f.Organization) &&
		matchesState(t, f.State) &&
		matchesAmountRange(t, f) &&
		matchesWorkType(t, f.WorkType) &&
		matchesToday(t, f.TodayOnly, today)
}

// matchesSearch does a case-insensitive substring match over description,
// organization and location.
func matchesSearch(t models.Tender, term string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.Organization), term) ||
		strings.Contains(strings.ToLower(t.Location), term)
}

func matchesOrganization(t models.Tender, org string) bool {
	if !activeSelection(org) {
		return true
	}
	return t.Organization == org
}

func matchesState(t models.Tender, state string) bool {
	if !activeSelection(state) {
		return true
	}
	return t.State() == state
}

// matchesAmountRange tests the parsed crore amount against the closed
// interval [AmountMin, AmountMax]. A tender whose amount cannot be parsed
// passes regardless of range: hiding malformed records behind a numeric
// filter would make bad upstream data invisible. Note the asymmetry with
// the equality predicates, where a missing field fails the match.
func matchesAmountRange(t models.Tender, f models.FilterState) bool {
	if !f.HasAmountRange() {
		return true
	}
	if t.EstimatedCost == nil {
		return true
	}
	amount := *t.EstimatedCost
	if f.AmountMin > 0 && amount < f.AmountMin {
		return false
	}
	if f.AmountMax > 0 && amount > f.AmountMax {
		return false
	}
	return true
}

// matchesWorkType compares the metadata type against a canonical work type,
// case-insensitively. The "others" bucket selects tenders whose type matches
// none of the canonical types.
func matchesWorkType(t models.Tender, workType string) bool {
	if !activeSelection(workType) {
		return true
	}

	recordType := strings.TrimSpace(t.Metadata["type"])
	if strings.EqualFold(workType, models.WorkTypeOthers) {
		if recordType == "" {
			return false
		}
		return !isCanonicalWorkType(recordType)
	}
	return strings.EqualFold(recordType, workType)
}

func isCanonicalWorkType(recordType string) bool {
	for _, known := range models.WorkTypes {
		if strings.EqualFold(recordType, known) {
			return true
		}
	}
	return false
}

// matchesToday restricts to tenders whose submission date equals today's
// civil date. Both sides are parsed dates, so mixed upstream formats
// (DD-MM-YYYY vs ISO) compare correctly. A tender without a parsed date
// fails the toggle.
func matchesToday(t models.Tender, todayOnly bool, today models.Date) bool {
	if !todayOnly {
		return true
	}
	return t.SubmissionDate != nil && t.SubmissionDate.Equal(today)
}
