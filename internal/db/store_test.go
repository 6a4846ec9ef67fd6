package db

import (
	"testing"
	"time"

	"github.com/rohan/tender-scout/internal/models"
)

// fakeScan populates the scan destinations the way a pgx row would.
func fakeScan(values []interface{}) func(dest ...interface{}) error {
	return func(dest ...interface{}) error {
		for i, d := range dest {
			if i >= len(values) || values[i] == nil {
				continue
			}
			switch p := d.(type) {
			case *string:
				*p = values[i].(string)
			case **float64:
				v := values[i].(float64)
				*p = &v
			case **time.Time:
				v := values[i].(time.Time)
				*p = &v
			case *time.Time:
				*p = values[i].(time.Time)
			case *[]byte:
				*p = []byte(values[i].(string))
			}
		}
		return nil
	}
}

func TestScanTender(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	fetched := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	scan := fakeScan([]interface{}{
		"T-1", "Bridge over Chenab", "NHAI", "Reasi, Jammu and Kashmir",
		"273.45 Cr.", 273.45, 88.5, 60.0, "strong fit",
		deadline, "15-03-2026", `{"type":"EPC","terrain":"mountainous"}`, fetched,
	})

	tender, err := scanTender(scan)
	if err != nil {
		t.Fatalf("scanTender failed: %v", err)
	}

	if tender.ID != "T-1" || tender.Organization != "NHAI" {
		t.Errorf("unexpected identity fields: %+v", tender)
	}
	if tender.EstimatedCost == nil || *tender.EstimatedCost != 273.45 {
		t.Errorf("estimated cost not scanned: %v", tender.EstimatedCost)
	}
	if tender.SubmissionDate == nil || !tender.SubmissionDate.Equal(models.NewDate(2026, 3, 15)) {
		t.Errorf("submission date not converted: %v", tender.SubmissionDate)
	}
	if tender.Metadata["type"] != "EPC" || tender.Metadata["terrain"] != "mountainous" {
		t.Errorf("metadata not decoded: %v", tender.Metadata)
	}
}

func TestScanTenderNullColumns(t *testing.T) {
	scan := fakeScan([]interface{}{
		"T-2", "Highway widening", "MoRTH", "Pune, Maharashtra",
		"TBD", nil, nil, nil, "",
		nil, "TBD", "", time.Now(),
	})

	tender, err := scanTender(scan)
	if err != nil {
		t.Fatalf("scanTender failed: %v", err)
	}

	if tender.EstimatedCost != nil {
		t.Errorf("expected nil estimated cost, got %v", *tender.EstimatedCost)
	}
	if tender.CompatibilityScore != nil {
		t.Errorf("expected nil score, got %v", *tender.CompatibilityScore)
	}
	if tender.SubmissionDate != nil {
		t.Errorf("expected nil submission date, got %v", tender.SubmissionDate)
	}
	if tender.Metadata == nil {
		t.Error("expected non-nil metadata map for empty column")
	}
}
