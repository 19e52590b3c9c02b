package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"content_syncer/internal/scheduler"
)

type JobStateStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewJobStateStore(db *sqlx.DB, txManager *TransactionManager) *JobStateStore {
	return &JobStateStore{db: db, txManager: txManager}
}

func (s *JobStateStore) Load(ctx context.Context, id string) (*scheduler.JobRecord, error) {
	var doc string
	err := s.db.GetContext(ctx, &doc, `SELECT record FROM scheduler_jobs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}

	var rec scheduler.JobRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &rec, nil
}

func (s *JobStateStore) LoadAll(ctx context.Context) ([]scheduler.JobRecord, error) {
	var docs []string
	if err := s.db.SelectContext(ctx, &docs, `SELECT record FROM scheduler_jobs ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}

	records := make([]scheduler.JobRecord, 0, len(docs))
	for _, doc := range docs {
		var rec scheduler.JobRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save upserts records by ID and leaves other jobs untouched.
func (s *JobStateStore) Save(ctx context.Context, records []scheduler.JobRecord) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)
		for _, rec := range records {
			doc, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode job %s: %w", rec.ID, err)
			}
			query := `
				INSERT INTO scheduler_jobs (id, record)
				VALUES ($1, $2::jsonb)
				ON CONFLICT (id) DO UPDATE SET
					record = EXCLUDED.record,
					updated_at = now()`
			if _, err := exec.ExecContext(txCtx, query, rec.ID, string(doc)); err != nil {
				return fmt.Errorf("upsert job %s: %w", rec.ID, err)
			}
		}
		return nil
	})
}
