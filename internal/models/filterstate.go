package models

// Sentinel value meaning "no constraint on this field".
const FilterAll = "all"

// WorkTypeOthers selects tenders whose metadata type matches none of the
// canonical work types.
const WorkTypeOthers = "others"

// FilterState captures one view's current search/filter/sort/page selections.
// It is persisted wholesale as a JSON blob under a namespaced storage key and
// injected into the filter and sort pipelines.
type FilterState struct {
	SearchTerm   string  `json:"searchTerm"`
	Organization string  `json:"organization"`
	State        string  `json:"state"`
	AmountMin    float64 `json:"amountMin"`
	AmountMax    float64 `json:"amountMax"`
	WorkType     string  `json:"workType"`
	TodayOnly    bool    `json:"todayOnly"`
	SortBy       string  `json:"sortBy"`
	Page         int     `json:"page"`
	PageSize     int     `json:"pageSize"`
	Paginate     bool    `json:"paginate"`
}

// DefaultFilterState returns the selections every view starts from.
func DefaultFilterState() FilterState {
	return FilterState{
		Organization: FilterAll,
		State:        FilterAll,
		WorkType:     FilterAll,
		AmountMin:    0,
		AmountMax:    0,
		SortBy:       "score",
		Page:         1,
		PageSize:     10,
		Paginate:     true,
	}
}

// WithDefaults fills zero-valued fields from the defaults one field at a
// time. A stored blob missing some fields (older schema, partial corruption)
// must not blank out unrelated selections, so this is deliberately not a
// struct overwrite.
func (f FilterState) WithDefaults() FilterState {
	def := DefaultFilterState()
	if f.Organization == "" {
		f.Organization = def.Organization
	}
	if f.State == "" {
		f.State = def.State
	}
	if f.WorkType == "" {
		f.WorkType = def.WorkType
	}
	if f.SortBy == "" {
		f.SortBy = def.SortBy
	}
	if f.Page < 1 {
		f.Page = def.Page
	}
	if f.PageSize < 1 {
		f.PageSize = def.PageSize
	}
	return f
}

// HasAmountRange reports whether the amount-range predicate is active.
func (f FilterState) HasAmountRange() bool {
	return f.AmountMin > 0 || f.AmountMax > 0
}
