package ingest

import (
	"math"

	"github.com/rohan/tender-scout/internal/models"
)

// ScoreEntry is one row from the compatibility-score endpoint.
type ScoreEntry struct {
	TenderID string   `json:"tenderId"`
	Score    *float64 `json:"score"`
	Analysis string   `json:"analysis"`
}

// JoinScores attaches raw compatibility scores to tenders by identifier,
// returning a new slice. A tender with no matching entry keeps a nil score.
func JoinScores(tenders []models.Tender, entries []ScoreEntry) []models.Tender {
	byID := make(map[string]ScoreEntry, len(entries))
	for _, e := range entries {
		byID[e.TenderID] = e
	}

	out := make([]models.Tender, len(tenders))
	for i, t := range tenders {
		if e, ok := byID[t.ID]; ok && e.Score != nil {
			score := *e.Score
			t.RawScore = &score
			t.AnalysisText = e.Analysis
		}
		out[i] = t
	}
	return out
}

// NormalizeScores rescales raw compatibility scores to [0,100] relative to
// the batch's own min and max, rounded to two decimals. Tenders with a nil
// raw score keep a nil normalized score. When every non-nil raw score is
// equal the range is zero-width; all of them normalize to 100 (a tender
// matching the whole batch's best observed score counts as a full match).
// The input is never mutated.
func NormalizeScores(tenders []models.Tender) []models.Tender {
	min, max, found := scoreRange(tenders)

	out := make([]models.Tender, len(tenders))
	for i, t := range tenders {
		if t.RawScore != nil {
			var normalized float64
			switch {
			case !found || min == max:
				normalized = 100
			default:
				normalized = round2(((*t.RawScore - min) / (max - min)) * 100)
			}
			t.CompatibilityScore = &normalized
		}
		out[i] = t
	}
	return out
}

// scoreRange computes min/max over non-nil raw scores. found is false when
// no tender carries a score; the caller must not divide by the zero-width
// default range.
func scoreRange(tenders []models.Tender) (min, max float64, found bool) {
	min, max = 0, 100
	for _, t := range tenders {
		if t.RawScore == nil {
			continue
		}
		s := *t.RawScore
		if !found {
			min, max = s, s
			found = true
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max, found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
