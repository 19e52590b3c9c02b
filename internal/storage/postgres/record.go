package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"content_syncer/internal/domain"
)

// RecordStore keeps the logical record stores in one table. Rows of a
// store are ordered by position; new records get the lowest position.
type RecordStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewRecordStore(db *sqlx.DB, txManager *TransactionManager) *RecordStore {
	return &RecordStore{db: db, txManager: txManager}
}

func (s *RecordStore) Read(ctx context.Context, key domain.StoreKey) ([]domain.Record, error) {
	return s.read(ctx, GetExecutor(ctx, s.db), key.String())
}

func (s *RecordStore) read(ctx context.Context, q sqlx.QueryerContext, store string) ([]domain.Record, error) {
	var docs []string
	query := `SELECT data FROM records WHERE store = $1 ORDER BY position`
	if err := sqlx.SelectContext(ctx, q, &docs, query, store); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	records := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		var rec domain.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Upsert merges records into the store with the same matching rules as
// the JSON files, serialised per store by an advisory lock.
func (s *RecordStore) Upsert(ctx context.Context, key domain.StoreKey, records []domain.Record) error {
	store := key.String()
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)
		if err := lockStore(txCtx, exec, store); err != nil {
			return err
		}
		existing, err := s.read(txCtx, exec, store)
		if err != nil {
			return err
		}
		return s.replace(txCtx, exec, store, domain.UpsertRecords(existing, records))
	})
}

func (s *RecordStore) Write(ctx context.Context, key domain.StoreKey, records []domain.Record) error {
	store := key.String()
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, s.db)
		if err := lockStore(txCtx, exec, store); err != nil {
			return err
		}
		return s.replace(txCtx, exec, store, records)
	})
}

func lockStore(ctx context.Context, exec sqlx.ExecerContext, store string) error {
	if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, store); err != nil {
		return fmt.Errorf("lock store %s: %w", store, err)
	}
	return nil
}

func (s *RecordStore) replace(ctx context.Context, exec sqlx.ExecerContext, store string, records []domain.Record) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM records WHERE store = $1`, store); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]string, len(records))
	for i, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		docs[i] = string(doc)
	}

	query := `
		INSERT INTO records (store, position, link, title, data)
		SELECT $1, t.ord - 1,
			COALESCE(t.doc::jsonb ->> 'Link for video', ''),
			COALESCE(t.doc::jsonb ->> 'Title', ''),
			t.doc::jsonb
		FROM unnest($2::text[]) WITH ORDINALITY AS t(doc, ord)`

	if _, err := exec.ExecContext(ctx, query, store, pq.Array(docs)); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}
