package main

import (
	"context"
	"flag"
	"log"

	"github.com/rohan/tender-scout/internal/db"
	"github.com/rohan/tender-scout/internal/ingest"
	"github.com/rohan/tender-scout/internal/models"
	"github.com/rohan/tender-scout/internal/source"
)

// fetch_batch pulls one registry source end to end and persists the result
// as the tender snapshot. Useful for verifying feed credentials and
// selectors without a running server.
func main() {
	sourceID := flag.String("source", "tenderdesk_api", "Registry source ID to fetch")
	dryRun := flag.Bool("dry-run", false, "Fetch and enrich without writing the snapshot")
	flag.Parse()

	ctx := context.Background()

	registry, err := ingest.LoadRegistry("internal/ingest/config/sources.yaml")
	if err != nil {
		log.Fatalf("Registry load failed: %v", err)
	}
	src := registry.FindSource(*sourceID)
	if src == nil {
		log.Fatalf("Unknown source: %s", *sourceID)
	}

	var tenders []models.Tender
	switch src.Strategy {
	case "api_json":
		tenders, err = source.NewClient(*src).FetchBatch(ctx)
		if err != nil {
			log.Fatalf("Fetch failed: %v", err)
		}
	case "html_listing":
		rows, err := ingest.NewListingFetcher().FetchListings(*src)
		if err != nil {
			log.Fatalf("Listing fetch failed: %v", err)
		}
		fetcher := ingest.NewRateLimitedFetcher(src.Fetch)
		defer fetcher.Close()
		for _, row := range rows {
			t, err := ingest.FromRaw(row)
			if err != nil {
				log.Printf("Skipping listing row: %v", err)
				continue
			}
			// Listings often omit the deadline; the notice PDF usually
			// carries it.
			if t.SubmissionDate == nil {
				if noticeURL, ok := row["noticeUrl"].(string); ok && noticeURL != "" {
					if dates, err := ingest.ExtractNoticeDeadlines(ctx, fetcher, noticeURL); err != nil {
						log.Printf("Notice extraction failed for %s: %v", t.ID, err)
					} else if len(dates) > 0 {
						t.SubmissionDate = &dates[0]
					}
				}
			}
			tenders = append(tenders, t)
		}
	default:
		log.Fatalf("Unsupported strategy %q for source %s", src.Strategy, src.ID)
	}

	log.Printf("Fetched %d tenders from %s", len(tenders), src.ID)
	if *dryRun {
		return
	}

	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := db.NewStore(pool).UpsertSnapshot(ctx, tenders); err != nil {
		log.Fatalf("Snapshot write failed: %v", err)
	}
	log.Printf("Snapshot updated: %d tenders", len(tenders))
}
