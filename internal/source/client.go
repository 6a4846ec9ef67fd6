// Package source pulls tender batches from the upstream data API and runs
// them through the ingest enrichment steps. A batch is all-or-nothing: if
// either the tender feed or the score feed fails, the previous batch stays
// in place.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rohan/tender-scout/internal/ingest"
	"github.com/rohan/tender-scout/internal/models"
)

// Client talks to the tender data API. BaseURL serves the record feed,
// ScoresURL the per-tender compatibility analyses.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	ScoresURL string
	APIKey    string
}

func NewClient(src ingest.SourceConfig) *Client {
	timeout := 60 * time.Second
	if src.Fetch.TimeoutSeconds > 0 {
		timeout = time.Duration(src.Fetch.TimeoutSeconds) * time.Second
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   src.BaseURL,
		ScoresURL: src.ScoresURL,
		APIKey:    src.APIKey,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// FetchRecords pulls the raw tender feed. Records are returned as loose maps
// so ingest.FromRaw can normalize whatever key spelling the upstream uses.
func (c *Client) FetchRecords(ctx context.Context) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	if err := c.getJSON(ctx, c.BaseURL, &records); err != nil {
		return nil, fmt.Errorf("tender feed: %w", err)
	}
	log.Printf("[source] Got %d tender records", len(records))
	return records, nil
}

// scoreRecord matches the score feed schema.
type scoreRecord struct {
	TenderID string   `json:"tenderId"`
	Score    *float64 `json:"score"`
	Analysis string   `json:"analysis"`
}

// FetchScores pulls the compatibility score feed.
func (c *Client) FetchScores(ctx context.Context) ([]ingest.ScoreEntry, error) {
	if c.ScoresURL == "" {
		return nil, nil
	}

	var records []scoreRecord
	if err := c.getJSON(ctx, c.ScoresURL, &records); err != nil {
		return nil, fmt.Errorf("score feed: %w", err)
	}

	entries := make([]ingest.ScoreEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, ingest.ScoreEntry{
			TenderID: rec.TenderID,
			Score:    rec.Score,
			Analysis: rec.Analysis,
		})
	}
	log.Printf("[source] Got %d score entries", len(entries))
	return entries, nil
}

// FetchBatch pulls both feeds and returns the fully enriched batch:
// normalized keys, metadata defaults, parsed amounts and dates, joined and
// batch-normalized scores. Any failure returns an error and no partial data.
func (c *Client) FetchBatch(ctx context.Context) ([]models.Tender, error) {
	records, err := c.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := c.FetchScores(ctx)
	if err != nil {
		return nil, err
	}

	tenders := make([]models.Tender, 0, len(records))
	skipped := 0
	for _, rec := range records {
		t, err := ingest.FromRaw(rec)
		if err != nil {
			log.Printf("[source] skipping record: %v", err)
			skipped++
			continue
		}
		tenders = append(tenders, t)
	}
	if skipped > 0 {
		log.Printf("[source] skipped %d records without usable IDs", skipped)
	}

	tenders = ingest.JoinScores(tenders, scores)
	tenders = ingest.NormalizeScores(tenders)

	log.Printf("[source] Enriched batch: %d tenders, %d scores", len(tenders), len(scores))
	return tenders, nil
}
