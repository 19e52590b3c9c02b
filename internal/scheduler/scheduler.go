// Package scheduler runs named actions periodically and keeps their state
// in a store shared between process runs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var ErrNoScheduler = errors.New("job is not associated with a scheduler")

var (
	meter          = otel.Meter("content_syncer/scheduler")
	runsCounter, _ = meter.Int64Counter("scheduler.job_runs")
)

// StateStore persists job records between runs.
type StateStore interface {
	Load(ctx context.Context, id string) (*JobRecord, error)
	LoadAll(ctx context.Context) ([]JobRecord, error)
	Save(ctx context.Context, records []JobRecord) error
}

type Scheduler struct {
	mu       sync.Mutex
	jobs     []*Job
	registry Registry
	state    StateStore
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(registry Registry, state StateStore, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: registry,
		state:    state,
		now:      time.Now,
		logger:   logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Every starts describing a job that repeats every interval units.
func (s *Scheduler) Every(interval int) Builder {
	return Builder{scheduler: s, interval: interval}
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Job(nil), s.jobs...)
}

func (s *Scheduler) add(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.id == job.id {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, job.id)
		}
	}
	s.jobs = append(s.jobs, job)
	s.logger.Info("job scheduled", "job_id", job.id, "unit", job.schedule.Unit, "next_run", job.nextRun)
	return nil
}

func (s *Scheduler) restore(ctx context.Context, id string) (*Job, error) {
	if s.state == nil {
		return nil, nil
	}

	rec, err := s.state.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore job %s: %w", id, err)
	}
	if rec == nil {
		return nil, nil
	}

	job, err := jobFromRecord(*rec, s.registry, s.now)
	if err != nil {
		s.logger.Warn("persisted job is unusable, using configured one", "job_id", id, "error", err)
		return nil, nil
	}

	s.logger.Info("job restored from state", "job_id", id, "next_run", job.nextRun)
	return job, nil
}

// RunPending runs every due job once, in registration order, saving the
// state after each run. A failing job does not stop the sweep.
func (s *Scheduler) RunPending(ctx context.Context) error {
	for _, job := range s.Jobs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !job.Due(s.now()) {
			continue
		}

		s.logger.Info("running job", "job_id", job.id, "scheduled_at", job.nextRun)

		status := "ok"
		if err := job.Run(ctx); err != nil {
			status = "error"
			s.logger.Error("job failed", "job_id", job.id, "error", err)
		}
		runsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job_id", job.id),
			attribute.String("status", status),
		))

		if err := s.save(ctx); err != nil {
			s.logger.Error("failed to save scheduler state", "job_id", job.id, "error", err)
		}
	}
	return nil
}

func (s *Scheduler) save(ctx context.Context) error {
	if s.state == nil {
		return nil
	}

	jobs := s.Jobs()
	records := make([]JobRecord, len(jobs))
	for i, j := range jobs {
		records[i] = j.Record()
	}
	return s.state.Save(ctx, records)
}

// Start polls for due jobs every poll interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, poll time.Duration) error {
	s.logger.Info("scheduler started", "poll", poll, "jobs", len(s.Jobs()))

	if err := s.save(ctx); err != nil {
		s.logger.Error("failed to save scheduler state", "error", err)
	}
	s.runPending(ctx)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPending(ctx)
		}
	}
}

func (s *Scheduler) runPending(ctx context.Context) {
	if err := s.RunPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("run pending failed", "error", err)
	}
}
