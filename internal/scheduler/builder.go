package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Builder describes a job step by step. Every method returns a new value,
// and nothing is validated until Do.
type Builder struct {
	scheduler *Scheduler
	interval  int
	unit      Unit
	singular  bool
	atTime    string
	weekday   string
	id        string
}

func (b Builder) unitOf(u Unit, singular bool) Builder {
	b.unit = u
	b.singular = singular
	return b
}

func (b Builder) Second() Builder  { return b.unitOf(Seconds, true) }
func (b Builder) Seconds() Builder { return b.unitOf(Seconds, false) }
func (b Builder) Minute() Builder  { return b.unitOf(Minutes, true) }
func (b Builder) Minutes() Builder { return b.unitOf(Minutes, false) }
func (b Builder) Hour() Builder    { return b.unitOf(Hours, true) }
func (b Builder) Hours() Builder   { return b.unitOf(Hours, false) }
func (b Builder) Day() Builder     { return b.unitOf(Days, true) }
func (b Builder) Days() Builder    { return b.unitOf(Days, false) }
func (b Builder) Week() Builder    { return b.unitOf(Weeks, true) }
func (b Builder) Weeks() Builder   { return b.unitOf(Weeks, false) }

// Unit sets the unit by name, as found in configuration files.
func (b Builder) Unit(u Unit) Builder { return b.unitOf(u, false) }

// At sets the HH:MM time of day of daily jobs.
func (b Builder) At(hhmm string) Builder {
	b.atTime = hhmm
	return b
}

// On sets the weekday of weekly jobs, by name or 0-based index from Monday.
func (b Builder) On(day string) Builder {
	b.weekday = day
	return b
}

func (b Builder) WithID(id string) Builder {
	b.id = id
	return b
}

func (b Builder) build(action Action) (*Job, error) {
	if b.singular && b.interval != 1 {
		return nil, fmt.Errorf("%w: use %s instead of %s", ErrInterval, b.unit, b.unit[:len(b.unit)-1])
	}

	sched := Schedule{Interval: b.interval, Unit: b.unit, AtTime: b.atTime}
	if b.weekday != "" {
		day, err := ParseWeekday(b.weekday)
		if err != nil {
			return nil, err
		}
		sched.DayOfWeek = &day
	}
	if err := sched.validate(); err != nil {
		return nil, err
	}

	fn, err := b.scheduler.registry.Resolve(action.Name)
	if err != nil {
		return nil, err
	}

	id := b.id
	if id == "" {
		id = uuid.NewString()
	}

	next, err := NextRun(sched, nil, b.scheduler.now())
	if err != nil {
		return nil, err
	}

	return &Job{
		id:       id,
		schedule: sched,
		action:   action,
		fn:       fn,
		nextRun:  &next,
		now:      b.scheduler.now,
	}, nil
}

// Do validates the job, binds the action and registers the job. When state
// for the same ID was persisted earlier, the persisted job is registered
// instead of the one described by the builder. A failure to read the state
// fails the registration so the persisted run times are not overwritten.
func (b Builder) Do(ctx context.Context, action Action) (*Job, error) {
	if b.scheduler == nil {
		return nil, ErrNoScheduler
	}

	job, err := b.build(action)
	if err != nil {
		return nil, fmt.Errorf("build job: %w", err)
	}

	restored, err := b.scheduler.restore(ctx, job.id)
	if err != nil {
		return nil, err
	}
	if restored != nil {
		job = restored
	}

	if err := b.scheduler.add(job); err != nil {
		return nil, err
	}
	return job, nil
}
