package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rohan/tender-scout/internal/models"
	"github.com/rohan/tender-scout/internal/query"
)

func fptr(v float64) *float64 { return &v }

func testServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(nil, nil)

	d1 := models.NewDate(2026, 3, 15)
	d2 := models.NewDate(2026, 4, 1)
	s.SetBatch([]models.Tender{
		{ID: "T-1", Description: "Bridge over Chenab", Organization: "NHAI", Location: "Reasi, Jammu and Kashmir",
			EstimatedCost: fptr(273.45), CompatibilityScore: fptr(88), SubmissionDate: &d1,
			Metadata: map[string]string{"type": "EPC"}},
		{ID: "T-2", Description: "Highway widening NH-48", Organization: "MoRTH", Location: "Pune, Maharashtra",
			EstimatedCost: fptr(120), CompatibilityScore: fptr(45), SubmissionDate: &d2,
			Metadata: map[string]string{"type": "HAM"}},
		{ID: "T-3", Description: "Flyover rehabilitation", Organization: "NHAI", Location: "Nagpur, Maharashtra",
			CompatibilityScore: fptr(70),
			Metadata:           map[string]string{"type": "Custom-XYZ"}},
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, target string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s response: %v", target, err)
		}
	}
	return rec
}

func TestListTendersDefaultSort(t *testing.T) {
	s := testServer(t)

	var page query.Page
	rec := doJSON(t, s, http.MethodGet, "/api/v1/tenders", &page)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if page.Total != 3 {
		t.Fatalf("expected total 3, got %d", page.Total)
	}
	// Default sort is score descending.
	if page.Tenders[0].ID != "T-1" || page.Tenders[1].ID != "T-3" || page.Tenders[2].ID != "T-2" {
		t.Errorf("unexpected order: %s %s %s", page.Tenders[0].ID, page.Tenders[1].ID, page.Tenders[2].ID)
	}
}

func TestListTendersFiltered(t *testing.T) {
	s := testServer(t)

	var page query.Page
	doJSON(t, s, http.MethodGet, "/api/v1/tenders?organization=NHAI&work_type=EPC", &page)
	if page.Total != 1 || page.Tenders[0].ID != "T-1" {
		t.Fatalf("expected only T-1, got total=%d", page.Total)
	}

	var others query.Page
	doJSON(t, s, http.MethodGet, "/api/v1/tenders?work_type=others", &others)
	if others.Total != 1 || others.Tenders[0].ID != "T-3" {
		t.Fatalf("expected only T-3 in others bucket, got total=%d", others.Total)
	}
}

func TestListTendersPagination(t *testing.T) {
	s := testServer(t)

	var page query.Page
	doJSON(t, s, http.MethodGet, "/api/v1/tenders?page=2&page_size=2", &page)
	if page.Page != 2 || page.PageSize != 2 || page.TotalPages != 2 {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if len(page.Tenders) != 1 {
		t.Fatalf("expected 1 tender on last page, got %d", len(page.Tenders))
	}

	var full query.Page
	doJSON(t, s, http.MethodGet, "/api/v1/tenders?paginate=false", &full)
	if len(full.Tenders) != 3 {
		t.Fatalf("expected full set with paginate=false, got %d", len(full.Tenders))
	}
}

func TestGetTenderFromBatch(t *testing.T) {
	s := testServer(t)

	var tender models.Tender
	rec := doJSON(t, s, http.MethodGet, "/api/v1/tenders/T-2", &tender)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if tender.ID != "T-2" || tender.Organization != "MoRTH" {
		t.Errorf("unexpected tender: %+v", tender)
	}
}

func TestGetWorkTypes(t *testing.T) {
	s := testServer(t)

	var types []string
	doJSON(t, s, http.MethodGet, "/api/v1/work-types", &types)
	if len(types) != len(models.WorkTypes) {
		t.Fatalf("expected %d work types, got %d", len(models.WorkTypes), len(types))
	}
}

func TestRefreshRequiresAdminSecret(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin secret, got %d", rec.Code)
	}
}

func TestFilterByIDs(t *testing.T) {
	s := testServer(t)
	batch := s.batch.Current()

	got := filterByIDs(batch, []string{"T-3", "T-1", "T-404"})
	if len(got) != 2 {
		t.Fatalf("expected 2 tenders, got %d", len(got))
	}
	// Batch order is preserved regardless of the ID list's order.
	if got[0].ID != "T-1" || got[1].ID != "T-3" {
		t.Errorf("unexpected order: %s %s", got[0].ID, got[1].ID)
	}

	if out := filterByIDs(batch, nil); out != nil {
		t.Errorf("expected nil for empty ID set, got %v", out)
	}
}

func TestSavedEndpointsRequireToken(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/saved", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
