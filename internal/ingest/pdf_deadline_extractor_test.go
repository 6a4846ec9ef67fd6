package ingest

import (
	"testing"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

func TestParseNoticeDates(t *testing.T) {
	text := `NIT No. 41/2026. Last date of submission 15-03-2026 up to 15:00 hrs.
	Pre-bid meeting on 20/02/2026. Bid opening 2026-03-16.
	Corrigendum issued 10 February 2026.`

	dates := parseNoticeDates(text)
	if len(dates) != 4 {
		t.Fatalf("expected 4 distinct dates, got %d: %v", len(dates), dates)
	}

	// Ascending order, soonest first.
	want := []models.Date{
		models.NewDate(2026, time.February, 10),
		models.NewDate(2026, time.February, 20),
		models.NewDate(2026, time.March, 15),
		models.NewDate(2026, time.March, 16),
	}
	for i, w := range want {
		if !dates[i].Equal(w) {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], w)
		}
	}
}

func TestParseNoticeDates_Deduplicates(t *testing.T) {
	// The same day in two formats must collapse to one candidate.
	text := "Submission by 15-03-2026. Deadline repeated: 2026-03-15."
	dates := parseNoticeDates(text)
	if len(dates) != 1 {
		t.Fatalf("expected 1 deduplicated date, got %d: %v", len(dates), dates)
	}
}

func TestParseNoticeDates_NoDates(t *testing.T) {
	if dates := parseNoticeDates("no schedule information here"); dates != nil {
		t.Fatalf("expected nil, got %v", dates)
	}
}
