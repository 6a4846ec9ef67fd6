package query

import "github.com/rohan/tender-scout/internal/models"

// Page is one slice of a sorted batch plus the bookkeeping a list view
// needs to render a pager.
type Page struct {
	Tenders    []models.Tender `json:"tenders"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// Paginate slices the sorted batch into the 1-based page of the given size.
// Callers are expected to keep the page number in range; the clamp here is
// a deliberate extra guard so a page number that goes stale when a filter
// change shrinks the set renders the nearest valid page instead of an empty
// one. Views that render the full set pass paginate=false through
// FilterState and skip this stage.
func Paginate(tenders []models.Tender, size, page int) Page {
	total := len(tenders)
	if size < 1 {
		size = 10
	}

	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Tenders:    tenders[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

// Run applies the full pipeline (filter, sort, paginate) for one view's
// filter state against the current batch.
func Run(tenders []models.Tender, f models.FilterState, today models.Date) Page {
	filtered := Apply(tenders, f, today)
	sorted := Sort(filtered, f.SortBy)

	if !f.Paginate {
		return Page{
			Tenders:    sorted,
			Total:      len(sorted),
			Page:       1,
			PageSize:   len(sorted),
			TotalPages: 1,
		}
	}
	return Paginate(sorted, f.PageSize, f.Page)
}
