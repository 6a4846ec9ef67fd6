package query

import (
	"sort"

	"github.com/rohan/tender-scout/internal/models"
)

// Sort keys accepted by the pipeline.
const (
	SortByScore  = "score"
	SortByAmount = "amount"
	SortByDate   = "date"
)

// Sort returns a new ordering of the filtered batch. Score and amount sort
// descending (best first); date sorts ascending (soonest deadline first).
// Tenders missing the sort field go last. The sort is stable, so equal or
// missing keys keep their filtered order.
func Sort(tenders []models.Tender, sortBy string) []models.Tender {
	out := make([]models.Tender, len(tenders))
	copy(out, tenders)

	switch sortBy {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return lessFloatDesc(out[i].EstimatedCost, out[j].EstimatedCost)
		})
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return lessDateAsc(out[i].SubmissionDate, out[j].SubmissionDate)
		})
	case SortByScore:
		fallthrough
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return lessFloatDesc(out[i].CompatibilityScore, out[j].CompatibilityScore)
		})
	}
	return out
}

// lessFloatDesc orders larger values first, nils last.
func lessFloatDesc(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a > *b
}

// lessDateAsc orders earlier dates first, nils last.
func lessDateAsc(a, b *models.Date) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
