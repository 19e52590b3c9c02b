package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"content_syncer/internal/config"
	"content_syncer/internal/domain"
	"content_syncer/internal/scheduler"
	"content_syncer/internal/wordpress"
)

type RecordStore interface {
	Read(ctx context.Context, key domain.StoreKey) ([]domain.Record, error)
	Upsert(ctx context.Context, key domain.StoreKey, records []domain.Record) error
}

type Filterer interface {
	Apply(ctx context.Context) (domain.FilterStats, error)
}

type SiteMethod interface {
	Scrape(ctx context.Context, name string, site config.SiteConfig, known []domain.Record) ([]domain.Record, error)
}

type JobStateReader interface {
	Load(ctx context.Context, id string) (*scheduler.JobRecord, error)
}

type WordPress interface {
	Destination() wordpress.Destination
	TagIDs(ctx context.Context, cache wordpress.TagCache, names []string) ([]int, error)
	UploadMedia(ctx context.Context, path, title string) (*wordpress.Media, error)
	CreatePost(ctx context.Context, post wordpress.NewPost) (*wordpress.Post, error)
	AttachMedia(ctx context.Context, mediaID, postID int) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.PostEvent) error
	Close() error
}

type Scraper interface {
	Scrape(ctx context.Context, jobID string) (*domain.ScrapeStats, error)
}

type Uploader interface {
	Upload(ctx context.Context) (*domain.UploadStats, error)
}
