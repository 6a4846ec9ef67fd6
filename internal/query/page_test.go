package query

import (
	"fmt"
	"testing"

	"github.com/rohan/tender-scout/internal/models"
)

func numberedBatch(n int) []models.Tender {
	out := make([]models.Tender, n)
	for i := range out {
		out[i] = models.Tender{ID: fmt.Sprintf("T-%02d", i)}
	}
	return out
}

func TestPaginate_SliceReconstruction(t *testing.T) {
	// 23 records, size 10: pages concatenated must rebuild the sequence
	// exactly, no drops or duplicates.
	batch := numberedBatch(23)

	first := Paginate(batch, 10, 1)
	if first.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", first.TotalPages)
	}

	var rebuilt []models.Tender
	for p := 1; p <= first.TotalPages; p++ {
		page := Paginate(batch, 10, p)
		rebuilt = append(rebuilt, page.Tenders...)
	}
	assertIDs(t, rebuilt, ids(batch)...)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	page := Paginate(numberedBatch(23), 10, 3)
	if len(page.Tenders) != 3 {
		t.Fatalf("last page has %d tenders, want 3", len(page.Tenders))
	}
	if page.Tenders[0].ID != "T-20" {
		t.Fatalf("last page starts at %s, want T-20", page.Tenders[0].ID)
	}
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	batch := numberedBatch(23)

	past := Paginate(batch, 10, 99)
	if past.Page != 3 {
		t.Fatalf("page past the end should clamp to 3, got %d", past.Page)
	}
	before := Paginate(batch, 10, 0)
	if before.Page != 1 {
		t.Fatalf("page before the start should clamp to 1, got %d", before.Page)
	}
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate(nil, 10, 1)
	if page.Total != 0 || page.TotalPages != 1 || len(page.Tenders) != 0 {
		t.Fatalf("unexpected empty pagination: %+v", page)
	}
}

func TestRun_PaginateDisabledReturnsFullSet(t *testing.T) {
	batch := numberedBatch(23)
	f := models.DefaultFilterState()
	f.Paginate = false

	page := Run(batch, f, testToday)
	if len(page.Tenders) != 23 || page.TotalPages != 1 {
		t.Fatalf("expected full set in one page, got %d tenders in %d pages",
			len(page.Tenders), page.TotalPages)
	}
}

func TestRun_FullPipeline(t *testing.T) {
	batch := sampleBatch()
	f := models.DefaultFilterState()
	f.Organization = "NHAI"
	f.SortBy = SortByAmount
	f.PageSize = 1
	f.Page = 2

	page := Run(batch, f, testToday)
	if page.Total != 2 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	// NHAI tenders sorted by amount descending: T-3 (80) then T-1 (50);
	// page 2 of size 1 is T-1.
	assertIDs(t, page.Tenders, "T-1")
}
