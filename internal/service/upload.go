package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"content_syncer/internal/config"
	"content_syncer/internal/domain"
	"content_syncer/internal/wordpress"
)

var meter = otel.Meter("content_syncer/service")
var postsCounter, _ = meter.Int64Counter("upload.posts")

var ErrNoImage = errors.New("record has no downloaded image")

// UploadService publishes filtered records to every WordPress
// destination.
type UploadService struct {
	filters      Filterer
	records      RecordStore
	destinations []WordPress
	tags         wordpress.TagCache
	publisher    Publisher
	content      *config.Content
	now          func() time.Time
	logger       *slog.Logger
}

func NewUploadService(
	filters Filterer,
	records RecordStore,
	destinations []WordPress,
	tags wordpress.TagCache,
	publisher Publisher,
	content *config.Content,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		filters:      filters,
		records:      records,
		destinations: destinations,
		tags:         tags,
		publisher:    publisher,
		content:      content,
		now:          time.Now,
		logger:       logger.With("component", "upload"),
	}
}

func (s *UploadService) Upload(ctx context.Context) (*domain.UploadStats, error) {
	startTime := time.Now()
	stats := &domain.UploadStats{}

	if _, err := s.filters.Apply(ctx); err != nil {
		s.logger.Error("apply filters failed", "error", err)
	}

	today := s.now()
	filtered, err := s.records.Read(ctx, domain.FilteredKey(today))
	if err != nil {
		return nil, fmt.Errorf("read filtered store: %w", err)
	}
	if len(filtered) == 0 {
		s.logger.Info("no filtered data available")
		return stats, nil
	}

	uploaded, err := s.records.Read(ctx, domain.UploadedKey(today))
	if err != nil {
		return nil, fmt.Errorf("read uploaded store: %w", err)
	}
	byTitle := make(map[string]domain.Record, len(uploaded))
	for _, rec := range uploaded {
		byTitle[domain.Value(rec.Title)] = rec
	}

	var pending []domain.Record
	for _, rec := range filtered {
		prev, ok := byTitle[domain.Value(rec.Title)]
		if !ok || !s.uploadedEverywhere(prev) {
			pending = append(pending, rec)
		}
	}
	stats.Pending = len(pending)
	if len(pending) == 0 {
		s.logger.Info("no new records to upload")
		return stats, nil
	}
	s.logger.Info("records to be uploaded", "count", len(pending))

	var entries []domain.Record
	index := make(map[string]int)

	for _, wp := range s.destinations {
		dest := wp.Destination()
		s.logger.Info("started uploading to destination", "destination", dest.Name)

		for _, rec := range pending {
			if err := ctx.Err(); err != nil {
				return stats, err
			}

			title := domain.Value(rec.Title)
			prev, seen := byTitle[title]
			if seen && uploadedTo(prev, dest.Name) {
				stats.Skipped++
				continue
			}

			post, err := s.publish(ctx, wp, rec)
			if err != nil {
				stats.Errors++
				postsCounter.Add(ctx, 1, metric.WithAttributes(
					attribute.String("destination", dest.Name),
					attribute.String("result", "error"),
				))
				s.logger.Error("failed to upload post", "destination", dest.Name, "title", title, "error", err)
				continue
			}
			stats.Uploaded++
			postsCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("destination", dest.Name),
				attribute.String("result", "published"),
			))
			s.logger.Info("post uploaded", "destination", dest.Name, "title", title, "url", post.GUID.Rendered)

			i, ok := index[title]
			if !ok {
				entries = append(entries, domain.Record{
					Site:    rec.Site,
					Title:   rec.Title,
					Models:  rec.Models,
					PostURL: domain.Ptr(post.GUID.Rendered),
				})
				if seen {
					entries[len(entries)-1].UploadedTo = append([]string(nil), prev.UploadedTo...)
				}
				i = len(entries) - 1
				index[title] = i
			}
			entries[i].UploadedTo = append(entries[i].UploadedTo, dest.Name)

			s.announce(ctx, stats, dest, rec, post)
		}

		s.logger.Info("finished uploading to destination", "destination", dest.Name)
	}

	if len(entries) > 0 {
		if err := s.records.Upsert(ctx, domain.UploadedKey(today), entries); err != nil {
			return stats, fmt.Errorf("upsert uploaded store: %w", err)
		}
	}

	stats.Duration = time.Since(startTime)
	s.logger.Info("upload completed",
		"pending", stats.Pending,
		"uploaded", stats.Uploaded,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"announced", stats.Announced,
		"duration", stats.Duration,
	)
	return stats, nil
}

// uploadedTo reports whether rec went to destination. Entries written
// without a destination list count as uploaded everywhere.
func uploadedTo(rec domain.Record, destination string) bool {
	return len(rec.UploadedTo) == 0 || rec.IsUploadedTo(destination)
}

func (s *UploadService) uploadedEverywhere(rec domain.Record) bool {
	for _, wp := range s.destinations {
		if !uploadedTo(rec, wp.Destination().Name) {
			return false
		}
	}
	return true
}

func (s *UploadService) publish(ctx context.Context, wp WordPress, rec domain.Record) (*wordpress.Post, error) {
	dest := wp.Destination()
	title := domain.Value(rec.Title)

	tagIDs, err := wp.TagIDs(ctx, s.tags, append([]string{rec.Site}, rec.ModelNames()...))
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	category := s.content.Category(rec.Site, s.content.PostCategory)
	if category == 0 {
		category = dest.DefaultCategory
	}

	image := domain.Value(rec.ImageLocalPath)
	if image == "" {
		return nil, ErrNoImage
	}
	media, err := wp.UploadMedia(ctx, image, title)
	if err != nil {
		return nil, err
	}

	builder := wordpress.PostBuilder{
		ModelLinks: s.content.ModelLinks,
		HomeURL:    dest.BaseURL,
		VASTTag:    s.content.VASTTag,
	}
	newPost := wordpress.NewPost{
		Title:         title,
		Content:       builder.Build(rec),
		Tags:          tagIDs,
		Status:        "publish",
		FeaturedMedia: media.ID,
	}
	if category != 0 {
		newPost.Categories = []int{category}
	}

	post, err := wp.CreatePost(ctx, newPost)
	if err != nil {
		return nil, err
	}

	if err := wp.AttachMedia(ctx, media.ID, post.ID); err != nil {
		s.logger.Warn("failed to attach media to post", "destination", dest.Name, "post_id", post.ID, "error", err)
	}
	return post, nil
}

func (s *UploadService) announce(ctx context.Context, stats *domain.UploadStats, dest wordpress.Destination, rec domain.Record, post *wordpress.Post) {
	if s.publisher == nil {
		return
	}
	event := domain.PostEvent{
		Destination: dest.Name,
		Site:        rec.Site,
		Title:       domain.Value(rec.Title),
		Models:      rec.ModelNames(),
		PostID:      post.ID,
		PostURL:     post.GUID.Rendered,
		PublishedAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to announce post", "destination", dest.Name, "title", event.Title, "error", err)
		return
	}
	stats.Announced++
}
