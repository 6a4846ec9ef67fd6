package ingest

import (
	"fmt"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rohan/tender-scout/internal/models"
)

var descriptionPolicy = bluemonday.StrictPolicy()

// FromRaw converts one raw upstream record (decoded JSON with arbitrary key
// casing) into a canonical Tender: keys normalized, metadata merged against
// the default template, amount and date parsed, description stripped of any
// markup. The only rejection is a record without an identifier; a field that
// fails to parse keeps its raw text and a nil parsed value.
func FromRaw(raw map[string]any) (models.Tender, error) {
	rec := NormalizeRecordKeys(raw)

	id := firstStringField(rec, "_id", "id", "tenderId")
	if strings.TrimSpace(id) == "" {
		return models.Tender{}, fmt.Errorf("record has no identifier")
	}

	t := models.Tender{
		ID:               strings.TrimSpace(id),
		Description:      cleanDescription(firstStringField(rec, "description", "tenderDescription")),
		Organization:     cleanText(firstStringField(rec, "organization", "organizationName")),
		Location:         cleanText(stringField(rec, "location")),
		EstimatedCostRaw: strings.TrimSpace(stringField(rec, "estimatedCost")),
		SubmissionDateRaw: strings.TrimSpace(
			firstStringField(rec, "submissionDate", "lastDate", "deadline")),
		Metadata: mergeMetadataDefaults(rec["metadata"]),
	}

	t.EstimatedCost = parseCrorePtr(t.EstimatedCostRaw)

	date, err := parseSubmissionDatePtr(t.SubmissionDateRaw)
	if err != nil {
		// Unparseable dates are a data-quality signal, not a user-facing
		// error; the tender stays in the batch with a nil date.
		log.Printf("[normalize] tender %s: %v", t.ID, err)
	}
	t.SubmissionDate = date

	return t, nil
}

// cleanDescription strips markup and collapses whitespace. Upstream
// descriptions are occasionally raw HTML snippets.
func cleanDescription(s string) string {
	if strings.ContainsAny(s, "<>") {
		s = descriptionPolicy.Sanitize(s)
		s = HTMLToText(s)
	}
	return cleanText(s)
}

// mergeMetadataDefaults folds the record's metadata mapping over the fixed
// default template so every tender exposes the same key set. Missing or
// null values become empty strings, never absent keys.
func mergeMetadataDefaults(v any) map[string]string {
	merged := make(map[string]string, len(models.MetadataDefaults))
	for k, def := range models.MetadataDefaults {
		merged[k] = def
	}

	nested, ok := v.(map[string]any)
	if !ok {
		return merged
	}
	for k, val := range nested {
		if val == nil {
			merged[k] = ""
			continue
		}
		if s, ok := val.(string); ok {
			merged[k] = cleanText(s)
		}
	}
	return merged
}
