package models

import (
	"strings"
	"time"
)

// Tender is one procurement opportunity. Instances are constructed once per
// upstream fetch, enriched (key normalization, metadata defaulting, score
// normalization) immediately after receipt, and treated as immutable by the
// filter/sort/page pipelines.
type Tender struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Organization string            `json:"organization"`
	Location     string            `json:"location"`
	Metadata     map[string]string `json:"metadata"`

	// EstimatedCostRaw keeps the upstream amount text ("273.45 Cr."); the
	// parsed crore value lives in EstimatedCost (nil when unparseable).
	EstimatedCostRaw string   `json:"estimatedCost"`
	EstimatedCost    *float64 `json:"estimatedCostCr,omitempty"`

	// CompatibilityScore is nil until a score entry is joined, then holds
	// the batch-normalized value in [0,100].
	CompatibilityScore *float64 `json:"compatibilityScore"`
	RawScore           *float64 `json:"-"`
	AnalysisText       string   `json:"analysisText,omitempty"`

	SubmissionDateRaw string `json:"submissionDateRaw,omitempty"`
	SubmissionDate    *Date  `json:"submissionDate"`

	// SavedDate is attached only when the tender is part of a user's saved
	// set; it is not part of the canonical entity.
	SavedDate *time.Time `json:"savedDate,omitempty"`

	FetchedAt time.Time `json:"-"`
}

// MetadataDefaults is the fixed template merged into every tender's metadata
// so all records expose the same key set even when the source omits fields.
var MetadataDefaults = map[string]string{
	"type":           "",
	"terrain":        "",
	"structure":      "",
	"span":           "",
	"loadCapacity":   "",
	"trafficVolume":  "",
	"designStandard": "",
	"materials":      "",
	"logistics":      "",
}

// WorkTypes are the canonical contract models recognized by the work-type
// filter. Anything else falls into the "others" bucket.
var WorkTypes = []string{"item-rate", "EPC", "EPC contract", "HAM", "BOT"}

// State derives the state segment of the location string: the last
// comma-separated token, trimmed. Empty location yields "".
func (t Tender) State() string {
	loc := t.Location
	if idx := strings.LastIndex(loc, ","); idx >= 0 {
		loc = loc[idx+1:]
	}
	return strings.TrimSpace(loc)
}
