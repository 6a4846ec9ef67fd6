package query

import (
	"testing"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

func scoredBatch() []models.Tender {
	return []models.Tender{
		{ID: "low", EstimatedCost: fptr(50), CompatibilityScore: fptr(0), SubmissionDate: dptr(2026, time.May, 1)},
		{ID: "high", EstimatedCost: fptr(200), CompatibilityScore: fptr(100), SubmissionDate: dptr(2026, time.March, 10)},
		{ID: "none", EstimatedCost: fptr(80), SubmissionDate: nil},
		{ID: "mid", EstimatedCost: nil, CompatibilityScore: fptr(55.5), SubmissionDate: dptr(2026, time.April, 20)},
	}
}

func TestSort_ScoreDescendingNilsLast(t *testing.T) {
	got := Sort(scoredBatch(), SortByScore)
	assertIDs(t, got, "high", "mid", "low", "none")
}

func TestSort_AmountDescendingNilsLast(t *testing.T) {
	got := Sort(scoredBatch(), SortByAmount)
	assertIDs(t, got, "high", "none", "low", "mid")
}

func TestSort_DateAscendingNilsLast(t *testing.T) {
	// Date is the one ascending key: soonest deadline first.
	got := Sort(scoredBatch(), SortByDate)
	assertIDs(t, got, "high", "mid", "low", "none")
}

// Both directions asserted in one run so a regression that accidentally
// unifies them is caught.
func TestSort_DirectionAsymmetry(t *testing.T) {
	batch := scoredBatch()

	byScore := Sort(batch, SortByScore)
	if byScore[0].ID != "high" {
		t.Fatalf("score sort must place the best score first, got %s", byScore[0].ID)
	}
	byAmount := Sort(batch, SortByAmount)
	if byAmount[0].ID != "high" {
		t.Fatalf("amount sort must place the largest amount first, got %s", byAmount[0].ID)
	}
	byDate := Sort(batch, SortByDate)
	if byDate[0].ID != "high" || !byDate[0].SubmissionDate.Equal(models.NewDate(2026, time.March, 10)) {
		t.Fatalf("date sort must place the soonest date first, got %s", byDate[0].ID)
	}
}

func TestSort_StableOnEqualKeys(t *testing.T) {
	batch := []models.Tender{
		{ID: "a", EstimatedCost: fptr(100)},
		{ID: "b", EstimatedCost: fptr(100)},
		{ID: "c", EstimatedCost: fptr(100)},
	}
	got := Sort(batch, SortByAmount)
	assertIDs(t, got, "a", "b", "c")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	batch := scoredBatch()
	Sort(batch, SortByScore)
	assertIDs(t, batch, "low", "high", "none", "mid")
}

func TestSort_EndToEndScenario(t *testing.T) {
	// Normalized scores {100, 0, nil} sorted by score descending: the
	// 200 Cr record first, nil score last.
	batch := []models.Tender{
		{ID: "a", EstimatedCostRaw: "50 Cr", EstimatedCost: fptr(50), CompatibilityScore: fptr(0)},
		{ID: "b", EstimatedCostRaw: "200 Cr", EstimatedCost: fptr(200), CompatibilityScore: fptr(100)},
		{ID: "c", EstimatedCostRaw: "80 Cr", EstimatedCost: fptr(80)},
	}
	got := Sort(batch, SortByScore)
	assertIDs(t, got, "b", "a", "c")
}
