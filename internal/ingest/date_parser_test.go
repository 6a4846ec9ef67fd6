package ingest

import (
	"testing"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

func TestParseSubmissionDate(t *testing.T) {
	tests := []struct {
		in   string
		want models.Date
	}{
		{"2026-03-15", models.NewDate(2026, time.March, 15)},
		{"15-03-2026", models.NewDate(2026, time.March, 15)},
		{"15/03/2026", models.NewDate(2026, time.March, 15)},
		{"5-4-2026", models.NewDate(2026, time.April, 5)},
		{"2026-03-15T10:30:00Z", models.NewDate(2026, time.March, 15)},
		{"15 March 2026", models.NewDate(2026, time.March, 15)},
		{"Last date: 15-03-2026", models.NewDate(2026, time.March, 15)},
	}

	for _, tt := range tests {
		got, err := ParseSubmissionDate(tt.in)
		if err != nil {
			t.Errorf("ParseSubmissionDate(%q) returned error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseSubmissionDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseSubmissionDate_MixedFormatsAgree(t *testing.T) {
	// The same calendar day in both observed upstream formats must parse to
	// the same civil date; string comparison would never match these.
	iso, err := ParseSubmissionDate("2026-07-09")
	if err != nil {
		t.Fatal(err)
	}
	dmy, err := ParseSubmissionDate("09-07-2026")
	if err != nil {
		t.Fatal(err)
	}
	if !iso.Equal(dmy) {
		t.Fatalf("ISO %s and DD-MM-YYYY %s parsed to different dates", iso, dmy)
	}
}

func TestParseSubmissionDate_Failure(t *testing.T) {
	for _, in := range []string{"", "soon", "32-13-2026", "yesterday"} {
		if _, err := ParseSubmissionDate(in); err == nil {
			t.Errorf("ParseSubmissionDate(%q) expected error", in)
		}
	}
}
