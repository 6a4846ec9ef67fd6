package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/rohan/tender-scout/internal/api"
	"github.com/rohan/tender-scout/internal/db"
	"github.com/rohan/tender-scout/internal/ingest"
	"github.com/rohan/tender-scout/internal/source"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Print("Loaded environment from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var client *source.Client
	registry, err := ingest.LoadRegistry("internal/ingest/config/sources.yaml")
	if err != nil {
		log.Printf("Registry load failed, refresh disabled: %v", err)
	} else if src := registry.FindSource("tenderdesk_api"); src != nil && src.Active {
		client = source.NewClient(*src)
	} else {
		log.Print("No active tenderdesk_api source in registry, refresh disabled")
	}

	srv := api.NewServer(pool, client)

	// Serve the persisted snapshot until the first refresh lands.
	if tenders, err := db.NewStore(pool).ListSnapshot(ctx); err != nil {
		log.Printf("Snapshot load failed, starting with empty batch: %v", err)
	} else {
		srv.SetBatch(tenders)
		log.Printf("Loaded %d tenders from snapshot", len(tenders))
	}

	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
