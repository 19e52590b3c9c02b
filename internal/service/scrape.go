package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"content_syncer/internal/config"
	"content_syncer/internal/domain"
	"content_syncer/internal/source/site"
)

var ErrUnknownMethod = errors.New("unknown scrape method")

// ScrapeService runs the planned sites of a job and stores what they
// return in the daily and per-site stores.
type ScrapeService struct {
	planner   *SitePlanner
	sites     map[string]config.SiteConfig
	methods   map[string]SiteMethod
	records   RecordStore
	txManager TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

func NewScrapeService(
	planner *SitePlanner,
	sites map[string]config.SiteConfig,
	methods map[string]SiteMethod,
	records RecordStore,
	txManager TransactionManager,
	logger *slog.Logger,
) *ScrapeService {
	return &ScrapeService{
		planner:   planner,
		sites:     sites,
		methods:   methods,
		records:   records,
		txManager: txManager,
		now:       time.Now,
		logger:    logger.With("component", "scrape"),
	}
}

func (s *ScrapeService) Scrape(ctx context.Context, jobID string) (*domain.ScrapeStats, error) {
	startTime := time.Now()

	names, err := s.planner.SitesToRun(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("plan sites: %w", err)
	}

	stats := &domain.ScrapeStats{JobID: jobID, Sites: len(names)}
	s.logger.Info("starting scrape", "job_id", jobID, "sites", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, err := s.scrapeSite(ctx, name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return stats, err
			}
			stats.Errors++
			s.logger.Error("site scrape failed", "site", name, "error", err)
			continue
		}
		stats.Records += n
	}

	stats.Duration = time.Since(startTime)
	s.logger.Info("scrape completed",
		"job_id", jobID,
		"sites", stats.Sites,
		"records", stats.Records,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (s *ScrapeService) scrapeSite(ctx context.Context, name string) (int, error) {
	cfg, ok := lookup(s.sites, name)
	if !ok {
		return 0, fmt.Errorf("no configuration for site %q", name)
	}
	method, ok := s.methods[cfg.Method]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, cfg.Method)
	}

	siteName := site.SiteName(cfg.URL)
	known, err := s.records.Read(ctx, domain.SiteKey(siteName))
	if err != nil {
		return 0, fmt.Errorf("read site store: %w", err)
	}

	records, err := method.Scrape(ctx, name, cfg, known)
	if err != nil {
		return 0, fmt.Errorf("scrape: %w", err)
	}
	if len(records) == 0 {
		s.logger.Info("no new records", "site", name)
		return 0, nil
	}

	today := s.now()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.records.Upsert(txCtx, domain.DailyKey(today), records); err != nil {
			return fmt.Errorf("upsert daily store: %w", err)
		}
		if err := s.records.Upsert(txCtx, domain.SiteKey(siteName), records); err != nil {
			return fmt.Errorf("upsert site store: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("records stored", "site", name, "count", len(records))
	return len(records), nil
}
