//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"content_syncer/internal/domain"
	"content_syncer/internal/scheduler"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_records.up.sql"),
			filepath.Join(migrationsPath, "002_create_scheduler_jobs.up.sql"),
			filepath.Join(migrationsPath, "003_create_wordpress_tags.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM records")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM scheduler_jobs")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM wordpress_tags")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func record(title, link string) domain.Record {
	rec := domain.Record{Site: "Example", Title: domain.Ptr(title)}
	if link != "" {
		rec.VideoSourceURL = domain.Ptr(link)
	}
	return rec
}

func (s *PostgresIntegrationSuite) TestRecordStore_ReadEmpty() {
	store := NewRecordStore(s.db, NewTransactionManager(s.db))

	records, err := store.Read(s.ctx, domain.SiteKey("example"))
	s.NoError(err)
	s.Empty(records)
}

func (s *PostgresIntegrationSuite) TestRecordStore_UpsertPrependsAndReplaces() {
	store := NewRecordStore(s.db, NewTransactionManager(s.db))
	key := domain.SiteKey("example")

	err := store.Upsert(s.ctx, key, []domain.Record{record("First", "https://e.com/1")})
	s.NoError(err)

	updated := record("First Updated", "https://e.com/1")
	err = store.Upsert(s.ctx, key, []domain.Record{record("Second", ""), updated})
	s.NoError(err)

	records, err := store.Read(s.ctx, key)
	s.NoError(err)
	s.Require().Len(records, 2)
	s.Equal("Second", domain.Value(records[0].Title))
	s.Equal("First Updated", domain.Value(records[1].Title))

	var link string
	err = s.db.GetContext(s.ctx, &link, "SELECT link FROM records WHERE store = $1 AND title = $2", key.String(), "First Updated")
	s.NoError(err)
	s.Equal("https://e.com/1", link)
}

func (s *PostgresIntegrationSuite) TestRecordStore_StoresAreIndependent() {
	store := NewRecordStore(s.db, NewTransactionManager(s.db))
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	s.NoError(store.Upsert(s.ctx, domain.DailyKey(day), []domain.Record{record("Daily", "")}))
	s.NoError(store.Upsert(s.ctx, domain.FilteredKey(day), []domain.Record{record("Filtered", "")}))

	daily, err := store.Read(s.ctx, domain.DailyKey(day))
	s.NoError(err)
	s.Require().Len(daily, 1)
	s.Equal("Daily", domain.Value(daily[0].Title))

	other, err := store.Read(s.ctx, domain.DailyKey(day.AddDate(0, 0, 1)))
	s.NoError(err)
	s.Empty(other)
}

func (s *PostgresIntegrationSuite) TestRecordStore_WriteOverwrites() {
	store := NewRecordStore(s.db, NewTransactionManager(s.db))
	key := domain.SiteKey("example")

	s.NoError(store.Upsert(s.ctx, key, []domain.Record{record("Old", "")}))
	s.NoError(store.Write(s.ctx, key, []domain.Record{record("A", ""), record("B", "")}))

	records, err := store.Read(s.ctx, key)
	s.NoError(err)
	s.Require().Len(records, 2)
	s.Equal("A", domain.Value(records[0].Title))
	s.Equal("B", domain.Value(records[1].Title))
}

func (s *PostgresIntegrationSuite) TestRecordStore_RollbackInsideTransaction() {
	tm := NewTransactionManager(s.db)
	store := NewRecordStore(s.db, tm)
	key := domain.SiteKey("example")
	boom := errors.New("boom")

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.Upsert(ctx, key, []domain.Record{record("Rolled back", "")}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	records, err := store.Read(s.ctx, key)
	s.NoError(err)
	s.Empty(records)
}

func (s *PostgresIntegrationSuite) TestJobStateStore_LoadMissing() {
	store := NewJobStateStore(s.db, NewTransactionManager(s.db))

	rec, err := store.Load(s.ctx, "missing")
	s.NoError(err)
	s.Nil(rec)
}

func (s *PostgresIntegrationSuite) TestJobStateStore_SaveAndLoad() {
	store := NewJobStateStore(s.db, NewTransactionManager(s.db))
	at := "09:30"
	next := scheduler.Timestamp{Time: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)}

	jobs := []scheduler.JobRecord{
		{ID: "morning", Interval: 1, Unit: scheduler.Days, AtTime: &at, NextRun: &next, ActionName: "scrape_upload"},
		{ID: "hourly", Interval: 2, Unit: scheduler.Hours, ActionName: "scrape_upload"},
	}
	s.NoError(store.Save(s.ctx, jobs))

	rec, err := store.Load(s.ctx, "morning")
	s.NoError(err)
	s.Require().NotNil(rec)
	s.Equal(scheduler.Days, rec.Unit)
	s.Require().NotNil(rec.AtTime)
	s.Equal("09:30", *rec.AtTime)
	s.Require().NotNil(rec.NextRun)
	s.True(next.Equal(rec.NextRun.Time))

	all, err := store.LoadAll(s.ctx)
	s.NoError(err)
	s.Len(all, 2)
}

func (s *PostgresIntegrationSuite) TestJobStateStore_SaveUpdatesExisting() {
	store := NewJobStateStore(s.db, NewTransactionManager(s.db))

	s.NoError(store.Save(s.ctx, []scheduler.JobRecord{{ID: "a", Interval: 1, Unit: scheduler.Days, ActionName: "x"}}))
	s.NoError(store.Save(s.ctx, []scheduler.JobRecord{{ID: "b", Interval: 1, Unit: scheduler.Weeks, ActionName: "x"}}))
	s.NoError(store.Save(s.ctx, []scheduler.JobRecord{{ID: "a", Interval: 3, Unit: scheduler.Days, ActionName: "x"}}))

	rec, err := store.Load(s.ctx, "a")
	s.NoError(err)
	s.Require().NotNil(rec)
	s.Equal(3, rec.Interval)

	all, err := store.LoadAll(s.ctx)
	s.NoError(err)
	s.Len(all, 2)
}

func (s *PostgresIntegrationSuite) TestTagCache_PutAndGet() {
	cache := NewTagCache(s.db)

	_, ok, err := cache.Get(s.ctx, "main", "Anna")
	s.NoError(err)
	s.False(ok)

	s.NoError(cache.Put(s.ctx, "main", "Anna", 12))
	s.NoError(cache.Put(s.ctx, "MAIN", "anna", 13))

	id, ok, err := cache.Get(s.ctx, "Main", "ANNA")
	s.NoError(err)
	s.True(ok)
	s.Equal(13, id)

	_, ok, err = cache.Get(s.ctx, "other", "Anna")
	s.NoError(err)
	s.False(ok)
}
