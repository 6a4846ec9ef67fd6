package ingest

import (
	"testing"

	"github.com/rohan/tender-scout/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestJoinScores(t *testing.T) {
	tenders := []models.Tender{
		{ID: "T-1"},
		{ID: "T-2"},
		{ID: "T-3"},
	}
	entries := []ScoreEntry{
		{TenderID: "T-1", Score: fptr(60), Analysis: "strong terrain match"},
		{TenderID: "T-3", Score: nil},
		{TenderID: "T-9", Score: fptr(99)},
	}

	joined := JoinScores(tenders, entries)

	if joined[0].RawScore == nil || *joined[0].RawScore != 60 {
		t.Fatalf("expected T-1 raw score 60, got %v", joined[0].RawScore)
	}
	if joined[0].AnalysisText != "strong terrain match" {
		t.Fatalf("expected analysis text to be joined, got %q", joined[0].AnalysisText)
	}
	if joined[1].RawScore != nil {
		t.Fatal("T-2 has no score entry, expected nil raw score")
	}
	if joined[2].RawScore != nil {
		t.Fatal("T-3 entry carries nil score, expected nil raw score")
	}

	// Input must not be mutated.
	if tenders[0].RawScore != nil {
		t.Fatal("JoinScores mutated its input")
	}
}

func TestNormalizeScores_RangeInvariant(t *testing.T) {
	tenders := []models.Tender{
		{ID: "a", RawScore: fptr(60)},
		{ID: "b", RawScore: fptr(90)},
		{ID: "c"},
		{ID: "d", RawScore: fptr(75)},
	}

	out := NormalizeScores(tenders)

	if got := *out[0].CompatibilityScore; got != 0 {
		t.Errorf("min raw score should normalize to 0, got %v", got)
	}
	if got := *out[1].CompatibilityScore; got != 100 {
		t.Errorf("max raw score should normalize to 100, got %v", got)
	}
	if out[2].CompatibilityScore != nil {
		t.Error("nil raw score must stay nil after normalization")
	}
	if got := *out[3].CompatibilityScore; got != 50 {
		t.Errorf("midpoint should normalize to 50, got %v", got)
	}
	for _, tt := range out {
		if tt.CompatibilityScore == nil {
			continue
		}
		if *tt.CompatibilityScore < 0 || *tt.CompatibilityScore > 100 {
			t.Errorf("normalized score %v outside [0,100]", *tt.CompatibilityScore)
		}
	}

	// Input untouched.
	if tenders[0].CompatibilityScore != nil {
		t.Fatal("NormalizeScores mutated its input")
	}
}

func TestNormalizeScores_RoundsToTwoDecimals(t *testing.T) {
	tenders := []models.Tender{
		{ID: "a", RawScore: fptr(0)},
		{ID: "b", RawScore: fptr(3)},
		{ID: "c", RawScore: fptr(1)},
	}
	out := NormalizeScores(tenders)
	if got := *out[2].CompatibilityScore; got != 33.33 {
		t.Errorf("expected 33.33, got %v", got)
	}
}

func TestNormalizeScores_DegenerateBatch(t *testing.T) {
	// All non-nil scores equal: zero-width range must not produce NaN.
	tenders := []models.Tender{
		{ID: "a", RawScore: fptr(72)},
		{ID: "b", RawScore: fptr(72)},
		{ID: "c"},
	}
	out := NormalizeScores(tenders)
	for _, tt := range out[:2] {
		if tt.CompatibilityScore == nil || *tt.CompatibilityScore != 100 {
			t.Fatalf("degenerate batch must normalize to 100, got %v", tt.CompatibilityScore)
		}
	}
	if out[2].CompatibilityScore != nil {
		t.Fatal("nil score must stay nil in degenerate batch")
	}
}

func TestNormalizeScores_NoScores(t *testing.T) {
	tenders := []models.Tender{{ID: "a"}, {ID: "b"}}
	out := NormalizeScores(tenders)
	for _, tt := range out {
		if tt.CompatibilityScore != nil {
			t.Fatalf("batch without scores must stay nil, got %v", *tt.CompatibilityScore)
		}
	}
}

func TestNormalizeScores_EndToEndScenario(t *testing.T) {
	// Batch {60, 90, nil} normalizes to {0, 100, nil}.
	tenders := []models.Tender{
		{ID: "a", EstimatedCostRaw: "50 Cr", RawScore: fptr(60)},
		{ID: "b", EstimatedCostRaw: "200 Cr", RawScore: fptr(90)},
		{ID: "c", EstimatedCostRaw: "80 Cr"},
	}
	out := NormalizeScores(tenders)
	if *out[0].CompatibilityScore != 0 || *out[1].CompatibilityScore != 100 || out[2].CompatibilityScore != nil {
		t.Fatalf("unexpected normalization: %v %v %v",
			out[0].CompatibilityScore, out[1].CompatibilityScore, out[2].CompatibilityScore)
	}
}
