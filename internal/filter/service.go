package filter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"content_syncer/internal/domain"
)

type RecordStore interface {
	Read(ctx context.Context, key domain.StoreKey) ([]domain.Record, error)
	Upsert(ctx context.Context, key domain.StoreKey, records []domain.Record) error
}

// Service filters the records scraped today into today's filtered store.
type Service struct {
	store    RecordStore
	pipeline *Pipeline
	logger   *slog.Logger
}

func NewService(store RecordStore, pipeline *Pipeline, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		pipeline: pipeline,
		logger:   logger.With("component", "filter_service"),
	}
}

// Apply runs the pipeline over the scraped records that are not in the
// filtered store yet. Nothing is written when no record is new or none
// survives.
func (s *Service) Apply(ctx context.Context) (domain.FilterStats, error) {
	start := time.Now()
	today := s.pipeline.now()

	daily, err := s.store.Read(ctx, domain.DailyKey(today))
	if err != nil {
		return domain.FilterStats{}, fmt.Errorf("read daily records: %w", err)
	}
	filtered, err := s.store.Read(ctx, domain.FilteredKey(today))
	if err != nil {
		return domain.FilterStats{}, fmt.Errorf("read filtered records: %w", err)
	}

	fresh := newRecords(daily, filtered)
	stats := domain.FilterStats{Scraped: len(daily), New: len(fresh)}

	if len(fresh) == 0 {
		s.logger.Info("no new records to filter", "scraped", len(daily))
		return stats, nil
	}

	accepted := s.dropKnownDuplicates(s.pipeline.Run(ctx, fresh), filtered)
	stats.Accepted = len(accepted)

	if len(accepted) > 0 {
		if err := s.store.Upsert(ctx, domain.FilteredKey(today), accepted); err != nil {
			return stats, fmt.Errorf("save filtered records: %w", err)
		}
	}

	stats.Duration = time.Since(start)
	s.logger.Info("filtering completed",
		"scraped", stats.Scraped,
		"new", stats.New,
		"accepted", stats.Accepted,
		"duration", stats.Duration,
	)
	return stats, nil
}

func newRecords(daily, filtered []domain.Record) []domain.Record {
	seen := make(map[string]struct{}, len(filtered))
	for _, r := range filtered {
		seen[r.IdentityKey()] = struct{}{}
	}

	var fresh []domain.Record
	for _, r := range daily {
		if _, ok := seen[r.IdentityKey()]; ok {
			continue
		}
		if r.VideoSourceURL == nil && r.Title != nil {
			if _, ok := seen["title:"+NormalizeTitle(*r.Title)]; ok {
				continue
			}
		}
		fresh = append(fresh, r)
	}
	return fresh
}

// dropKnownDuplicates removes accepted records that duplicate a title already
// stored under another identity, which happens when a record lost the
// duplicate check in an earlier run.
func (s *Service) dropKnownDuplicates(accepted, filtered []domain.Record) []domain.Record {
	if len(filtered) == 0 {
		return accepted
	}

	out := accepted[:0:0]
	for _, r := range accepted {
		title := domain.Value(r.Title)
		duplicate := false
		for _, f := range filtered {
			if s.pipeline.score(title, domain.Value(f.Title)) >= s.pipeline.config.DuplicateThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			s.logger.Info("record duplicates an already filtered one", "title", title, "site", r.Site)
			continue
		}
		out = append(out, r)
	}
	return out
}
