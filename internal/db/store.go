package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rohan/tender-scout/internal/filterstate"
	"github.com/rohan/tender-scout/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// selectCols is the comprehensive column list for all tender queries.
const selectCols = `id, description, organization, location,
	estimated_cost_raw, estimated_cost_cr, compatibility_score, raw_score, analysis_text,
	submission_date, submission_date_raw, metadata, fetched_at`

func scanTender(scan func(dest ...interface{}) error) (models.Tender, error) {
	return scanTenderWith(scan)
}

// UpsertSnapshot replaces the stored batch with the given tenders inside a
// single transaction. Tenders absent from the new batch are removed so the
// table always mirrors the latest upstream fetch.
func (s *Store) UpsertSnapshot(ctx context.Context, tenders []models.Tender) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "CREATE TEMP TABLE snapshot_ids (id TEXT PRIMARY KEY) ON COMMIT DROP"); err != nil {
		return fmt.Errorf("temp table failed: %w", err)
	}

	for _, t := range tenders {
		metadata, err := json.Marshal(t.Metadata)
		if err != nil {
			return fmt.Errorf("metadata encode failed for %s: %w", t.ID, err)
		}

		var submissionDate *time.Time
		if t.SubmissionDate != nil {
			ts := t.SubmissionDate.Time()
			submissionDate = &ts
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO tenders (id, description, organization, location,
				estimated_cost_raw, estimated_cost_cr, compatibility_score, raw_score, analysis_text,
				submission_date, submission_date_raw, metadata, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
			ON CONFLICT (id) DO UPDATE SET
				description = EXCLUDED.description,
				organization = EXCLUDED.organization,
				location = EXCLUDED.location,
				estimated_cost_raw = EXCLUDED.estimated_cost_raw,
				estimated_cost_cr = EXCLUDED.estimated_cost_cr,
				compatibility_score = EXCLUDED.compatibility_score,
				raw_score = EXCLUDED.raw_score,
				analysis_text = EXCLUDED.analysis_text,
				submission_date = EXCLUDED.submission_date,
				submission_date_raw = EXCLUDED.submission_date_raw,
				metadata = EXCLUDED.metadata,
				fetched_at = NOW()
		`, t.ID, t.Description, t.Organization, t.Location,
			t.EstimatedCostRaw, t.EstimatedCost, t.CompatibilityScore, t.RawScore, t.AnalysisText,
			submissionDate, t.SubmissionDateRaw, metadata)
		if err != nil {
			return fmt.Errorf("upsert failed for %s: %w", t.ID, err)
		}

		if _, err := tx.Exec(ctx, "INSERT INTO snapshot_ids (id) VALUES ($1) ON CONFLICT DO NOTHING", t.ID); err != nil {
			return fmt.Errorf("snapshot marker failed for %s: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM tenders WHERE id NOT IN (SELECT id FROM snapshot_ids)"); err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) ListSnapshot(ctx context.Context) ([]models.Tender, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT %s FROM tenders ORDER BY id", selectCols))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		t, err := scanTender(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tenders = append(tenders, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if tenders == nil {
		tenders = []models.Tender{}
	}
	return tenders, nil
}

func (s *Store) GetTender(ctx context.Context, id string) (*models.Tender, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM tenders WHERE id = $1", selectCols), id)

	t, err := scanTender(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	return &t, nil
}

func (s *Store) SaveTender(ctx context.Context, userID, tenderID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_tenders (user_id, tender_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, tender_id) DO NOTHING
	`, userID, tenderID)
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	return nil
}

func (s *Store) UnsaveTender(ctx context.Context, userID, tenderID string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM saved_tenders WHERE user_id = $1 AND tender_id = $2", userID, tenderID)
	if err != nil {
		return fmt.Errorf("unsave failed: %w", err)
	}
	return nil
}

func (s *Store) GetSavedTenderIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT tender_id FROM saved_tenders WHERE user_id = $1 ORDER BY saved_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) GetSavedTenders(ctx context.Context, userID string) ([]models.Tender, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s, st.saved_at
		FROM tenders t
		JOIN saved_tenders st ON st.tender_id = t.id
		WHERE st.user_id = $1
		ORDER BY st.saved_at DESC
	`, qualifySelectCols("t")), userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tenders []models.Tender
	for rows.Next() {
		var savedAt time.Time
		t, err := scanTenderWith(rows.Scan, &savedAt)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		t.SavedDate = &savedAt
		tenders = append(tenders, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if tenders == nil {
		tenders = []models.Tender{}
	}
	return tenders, nil
}

func qualifySelectCols(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.description, %[1]s.organization, %[1]s.location,
	%[1]s.estimated_cost_raw, %[1]s.estimated_cost_cr, %[1]s.compatibility_score, %[1]s.raw_score, %[1]s.analysis_text,
	%[1]s.submission_date, %[1]s.submission_date_raw, %[1]s.metadata, %[1]s.fetched_at`, alias)
}

func scanTenderWith(scan func(dest ...interface{}) error, extra ...interface{}) (models.Tender, error) {
	var t models.Tender
	var submissionDate *time.Time
	var metadataRaw []byte

	dest := []interface{}{
		&t.ID, &t.Description, &t.Organization, &t.Location,
		&t.EstimatedCostRaw, &t.EstimatedCost, &t.CompatibilityScore, &t.RawScore, &t.AnalysisText,
		&submissionDate, &t.SubmissionDateRaw, &metadataRaw, &t.FetchedAt,
	}
	dest = append(dest, extra...)

	if err := scan(dest...); err != nil {
		return t, err
	}

	if submissionDate != nil {
		d := models.DateOf(*submissionDate)
		t.SubmissionDate = &d
	}
	if len(metadataRaw) > 0 {
		_ = json.Unmarshal(metadataRaw, &t.Metadata)
	}
	if t.Metadata == nil {
		t.Metadata = map[string]string{}
	}

	return t, nil
}

func (s *Store) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenders").Scan(&total)
	stats["total"] = total

	var scored int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenders WHERE compatibility_score IS NOT NULL").Scan(&scored)
	stats["scored"] = scored

	var organizations int
	s.pool.QueryRow(ctx, "SELECT COUNT(DISTINCT organization) FROM tenders").Scan(&organizations)
	stats["organizations"] = organizations

	var upcoming int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tenders WHERE submission_date >= CURRENT_DATE").Scan(&upcoming)
	stats["upcoming_deadlines"] = upcoming

	workTypeCounts := map[string]int{}
	rows, err := s.pool.Query(ctx,
		"SELECT COALESCE(NULLIF(metadata->>'type', ''), 'unspecified'), COUNT(*) FROM tenders GROUP BY 1")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var workType string
			var count int
			if scanErr := rows.Scan(&workType, &count); scanErr == nil {
				workTypeCounts[workType] = count
			}
		}
	}
	stats["work_type_counts"] = workTypeCounts

	var lastFetched *time.Time
	s.pool.QueryRow(ctx, "SELECT MAX(fetched_at) FROM tenders").Scan(&lastFetched)
	if lastFetched != nil {
		stats["last_fetched_at"] = lastFetched.UTC().Format(time.RFC3339)
	}

	return stats, nil
}

// PgFilterStorage persists filter-state blobs per user. It satisfies
// filterstate.Storage so the same Store logic runs against memory in tests
// and Postgres in production.
type PgFilterStorage struct {
	pool   *pgxpool.Pool
	userID string
}

func (s *Store) FilterStorage(userID string) *PgFilterStorage {
	return &PgFilterStorage{pool: s.pool, userID: userID}
}

func (p *PgFilterStorage) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := p.pool.QueryRow(ctx,
		"SELECT payload FROM filter_states WHERE user_id = $1 AND key = $2",
		p.userID, key,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return "", filterstate.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("filter state read failed: %w", err)
	}
	return payload, nil
}

func (p *PgFilterStorage) Set(ctx context.Context, key, payload string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO filter_states (user_id, key, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`, p.userID, key, payload)
	if err != nil {
		return fmt.Errorf("filter state write failed: %w", err)
	}
	return nil
}
