package jsonfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	"content_syncer/internal/domain"
	"content_syncer/internal/storage/diskguard"
	"content_syncer/internal/storage/filelock"
)

type StoreTestSuite struct {
	suite.Suite
	dir    string
	layout Layout
	store  *Store
	day    time.Time
}

func (s *StoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.layout = Layout{
		RawDir:      filepath.Join(s.dir, "Raw Data"),
		ScrapersDir: filepath.Join(s.dir, "Data From Scrapers"),
		FilteredDir: filepath.Join(s.dir, "Filtered Data"),
		UploadedDir: filepath.Join(s.dir, "Uploaded"),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	free := func(context.Context, string) (uint64, error) { return 1 << 30, nil }

	s.store = NewStore(
		s.layout,
		filelock.New(filelock.Config{Attempts: 1, Timeout: time.Second}, logger),
		diskguard.New(nil, logger, diskguard.WithFreeSpace(free)),
		logger,
	)
	s.day = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestPath() {
	path, err := s.layout.Path(domain.DailyKey(s.day))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.layout.RawDir, "DailyScrapped+Mar 05, 2024.json"), path)

	path, err = s.layout.Path(domain.SiteKey("Brazzers"))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.layout.ScrapersDir, "Brazzers.json"), path)

	path, err = s.layout.Path(domain.FilteredKey(s.day))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.layout.FilteredDir, "Filtered Data+Mar 05, 2024.json"), path)

	path, err = s.layout.Path(domain.UploadedKey(s.day))
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.layout.UploadedDir, "Uploaded+Mar 05, 2024.json"), path)

	_, err = s.layout.Path(domain.SiteKey(""))
	s.Error(err)
}

func (s *StoreTestSuite) TestRead_MissingFileIsEmpty() {
	records, err := s.store.Read(context.Background(), domain.FilteredKey(s.day))

	s.NoError(err)
	s.Empty(records)
}

func (s *StoreTestSuite) TestRead_CorruptFile() {
	path, _ := s.layout.Path(domain.FilteredKey(s.day))
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.store.Read(context.Background(), domain.FilteredKey(s.day))

	s.ErrorIs(err, ErrCorrupt)
}

func (s *StoreTestSuite) TestUpsert_ReplacesByLinkAndPrependsNew() {
	ctx := context.Background()
	key := domain.DailyKey(s.day)

	initial := []domain.Record{
		{Site: "a", Title: domain.Ptr("first"), VideoSourceURL: domain.Ptr("https://a/1")},
		{Site: "a", Title: domain.Ptr("no link")},
	}
	s.Require().NoError(s.store.Write(ctx, key, initial))

	incoming := []domain.Record{
		{Site: "a", Title: domain.Ptr("first renamed"), VideoSourceURL: domain.Ptr("https://a/1")},
		{Site: "a", Title: domain.Ptr("no link"), Tags: domain.Ptr("x")},
		{Site: "b", Title: domain.Ptr("brand new"), VideoSourceURL: domain.Ptr("https://b/1")},
	}
	s.Require().NoError(s.store.Upsert(ctx, key, incoming))

	got, err := s.store.Read(ctx, key)
	s.Require().NoError(err)

	want := []domain.Record{incoming[2], incoming[0], incoming[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		s.Failf("unexpected records", "(-want +got):\n%s", diff)
	}
}

func (s *StoreTestSuite) TestUpsert_LinkedRecordNotMatchedByTitle() {
	ctx := context.Background()
	key := domain.SiteKey("Site1")

	s.Require().NoError(s.store.Write(ctx, key, []domain.Record{
		{Site: "Site1", Title: domain.Ptr("same"), VideoSourceURL: domain.Ptr("https://x/1")},
	}))
	s.Require().NoError(s.store.Upsert(ctx, key, []domain.Record{
		{Site: "Site1", Title: domain.Ptr("same"), VideoSourceURL: domain.Ptr("https://x/2")},
	}))

	got, err := s.store.Read(ctx, key)
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *StoreTestSuite) TestWrite_FormatsLikeExistingFiles() {
	ctx := context.Background()
	key := domain.UploadedKey(s.day)

	s.Require().NoError(s.store.Write(ctx, key, []domain.Record{
		{Site: "a&b", Title: domain.Ptr("<t>"), UploadedTo: []string{"site1"}},
	}))

	path, _ := s.layout.Path(key)
	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), "\n    {\n        \"Site\": \"a&b\"")
	s.Contains(string(data), `"Title": "<t>"`)
	s.Contains(string(data), `"Date": null`)
	s.Contains(string(data), `"Link for promo": null`)
}
