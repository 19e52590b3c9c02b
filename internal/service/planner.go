package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"content_syncer/internal/scheduler"
)

const dailyList = "daily"

// SitePlanner picks which sites a scrape job covers today.
type SitePlanner struct {
	schedules map[string]map[string][]string
	state     JobStateReader
	now       func() time.Time
	logger    *slog.Logger
}

func NewSitePlanner(schedules map[string]map[string][]string, state JobStateReader, logger *slog.Logger) *SitePlanner {
	return &SitePlanner{
		schedules: schedules,
		state:     state,
		now:       time.Now,
		logger:    logger.With("component", "planner"),
	}
}

func lookup[V any](m map[string]V, key string) (V, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// SitesToRun returns the daily list followed by the current weekday's
// list for jobID. A job with an at_time only gets sites once the time of
// day is past it and its persisted next run falls today.
func (p *SitePlanner) SitesToRun(ctx context.Context, jobID string) ([]string, error) {
	lists, ok := lookup(p.schedules, jobID)
	if !ok {
		p.logger.Warn("no site lists for job", "job_id", jobID)
		return nil, nil
	}

	rec, err := p.state.Load(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job state: %w", err)
	}

	now := p.now()
	if rec != nil && rec.AtTime != nil && *rec.AtTime != "" {
		at, err := time.ParseInLocation("15:04", *rec.AtTime, now.Location())
		if err != nil {
			p.logger.Error("invalid at_time", "job_id", jobID, "at_time", *rec.AtTime, "error", err)
		} else if !p.dueToday(now, at, rec) {
			p.logger.Info("job not due for sites yet", "job_id", jobID)
			return nil, nil
		}
	}

	var sites []string
	if daily, ok := lookup(lists, dailyList); ok {
		sites = append(sites, daily...)
	}
	if today, ok := lookup(lists, now.Weekday().String()); ok {
		sites = append(sites, today...)
	}
	return sites, nil
}

func (p *SitePlanner) dueToday(now, at time.Time, rec *scheduler.JobRecord) bool {
	if rec.NextRun == nil {
		return false
	}
	clock := time.Date(0, 1, 1, now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	next := rec.NextRun.In(now.Location())
	y, m, d := now.Date()
	ny, nm, nd := next.Date()
	return !clock.Before(at) && y == ny && m == nm && d == nd
}
