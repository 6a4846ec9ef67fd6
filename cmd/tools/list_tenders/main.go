package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rohan/tender-scout/internal/db"
	"github.com/rohan/tender-scout/internal/models"
	"github.com/rohan/tender-scout/internal/query"
)

func main() {
	search := flag.String("q", "", "Free-text search over description, organization and location")
	organization := flag.String("organization", models.FilterAll, "Organization filter")
	state := flag.String("state", models.FilterAll, "State filter")
	workType := flag.String("work-type", models.FilterAll, "Work type filter (or 'others')")
	sortBy := flag.String("sort", query.SortByScore, "Sort mode: score, amount or date")
	page := flag.Int("page", 1, "Page number")
	size := flag.Int("size", 20, "Page size")
	all := flag.Bool("all", false, "Print the full filtered set without paging")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	tenders, err := db.NewStore(pool).ListSnapshot(ctx)
	if err != nil {
		log.Fatalf("Snapshot load failed: %v", err)
	}

	f := models.DefaultFilterState()
	f.SearchTerm = *search
	f.Organization = *organization
	f.State = *state
	f.WorkType = *workType
	f.SortBy = *sortBy
	f.Page = *page
	f.PageSize = *size
	f.Paginate = !*all

	result := query.Run(tenders, f, models.DateOf(time.Now()))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Organization", "State", "Cost (Cr)", "Score", "Submission", "Description"})

	for _, tender := range result.Tenders {
		cost := tender.EstimatedCostRaw
		if tender.EstimatedCost != nil {
			cost = formatFloat(*tender.EstimatedCost)
		}
		score := "-"
		if tender.CompatibilityScore != nil {
			score = formatFloat(*tender.CompatibilityScore)
		}
		date := "-"
		if tender.SubmissionDate != nil {
			date = tender.SubmissionDate.String()
		}
		t.AppendRow(table.Row{tender.ID, tender.Organization, tender.State(), cost, score, date, truncate(tender.Description, 48)})
	}
	t.Render()

	log.Printf("Page %d/%d (%d tenders total)", result.Page, result.TotalPages, result.Total)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
