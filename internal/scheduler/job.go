package scheduler

import (
	"context"
	"fmt"
	"time"
)

// Schedule is the timing part of a job.
type Schedule struct {
	Interval  int
	Unit      Unit
	AtTime    string
	DayOfWeek *Weekday
}

func (s Schedule) validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInterval, s.Interval)
	}
	if s.AtTime != "" {
		if _, _, err := parseAtTime(s.AtTime); err != nil {
			return err
		}
	}

	switch s.Unit {
	case Days, Hours:
	case Weeks:
		if s.DayOfWeek == nil {
			return ErrMissingWeekday
		}
		if *s.DayOfWeek < Monday || *s.DayOfWeek > Sunday {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, *s.DayOfWeek)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedUnit, s.Unit)
	}
	return nil
}

// NextRun computes when a job with schedule s runs next.
//
// Days run today at AtTime, or at the current minute without one; a job that
// already ran moves on by Interval days once that instant is reached. Weeks
// run on the next DayOfWeek at the current time of day and move on by
// Interval weeks after a run. Hours run Interval hours after the last run, or
// after now for a job that never ran; a result that is not in the future is
// pushed back one day.
func NextRun(s Schedule, lastRun *time.Time, now time.Time) (time.Time, error) {
	now = now.Truncate(time.Second)

	switch s.Unit {
	case Days:
		hour, minute := now.Hour(), now.Minute()
		if s.AtTime != "" {
			var err error
			if hour, minute, err = parseAtTime(s.AtTime); err != nil {
				return time.Time{}, err
			}
		}
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if lastRun != nil && !next.After(now) {
			next = next.AddDate(0, 0, s.Interval)
		}
		return next, nil

	case Weeks:
		if s.DayOfWeek == nil {
			return time.Time{}, ErrMissingWeekday
		}
		offset := (int(*s.DayOfWeek) - int(weekdayOf(now)) + 7) % 7
		next := now.AddDate(0, 0, offset)
		if lastRun != nil && !next.After(now) {
			next = next.AddDate(0, 0, 7*s.Interval)
		}
		return next, nil

	case Hours:
		base := now
		if lastRun != nil {
			base = lastRun.Truncate(time.Second)
		}
		next := base.Add(time.Duration(s.Interval) * time.Hour)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedUnit, s.Unit)
	}
}

// Job is a scheduled action.
type Job struct {
	id       string
	schedule Schedule
	action   Action
	fn       ActionFunc
	lastRun  *time.Time
	nextRun  *time.Time
	now      func() time.Time
}

func (j *Job) ID() string              { return j.id }
func (j *Job) Schedule() Schedule      { return j.schedule }
func (j *Job) Action() Action          { return j.action }
func (j *Job) LastRun() *time.Time     { return j.lastRun }
func (j *Job) NextRunTime() *time.Time { return j.nextRun }

// Due reports whether the job should run at now.
func (j *Job) Due(now time.Time) bool {
	return j.nextRun != nil && !j.nextRun.After(now)
}

// Run executes the action and reschedules the job, whether or not the
// action failed. The action's error is returned to the caller.
func (j *Job) Run(ctx context.Context) error {
	err := j.fn(ctx, j.action)

	ran := j.now().Truncate(time.Second)
	j.lastRun = &ran

	next, nextErr := NextRun(j.schedule, j.lastRun, ran)
	if nextErr != nil {
		return fmt.Errorf("reschedule job %s: %w", j.id, nextErr)
	}
	j.nextRun = &next

	return err
}

// JobRecord is the persisted form of a job.
type JobRecord struct {
	ID         string            `json:"id"`
	Interval   int               `json:"interval"`
	Unit       Unit              `json:"unit"`
	AtTime     *string           `json:"at_time"`
	DayOfWeek  *Weekday          `json:"day_of_week"`
	LastRun    *Timestamp        `json:"last_run"`
	NextRun    *Timestamp        `json:"next_run"`
	ActionName string            `json:"action_name"`
	Args       []string          `json:"args"`
	Kwargs     map[string]string `json:"kwargs"`
}

func (j *Job) Record() JobRecord {
	rec := JobRecord{
		ID:         j.id,
		Interval:   j.schedule.Interval,
		Unit:       j.schedule.Unit,
		DayOfWeek:  j.schedule.DayOfWeek,
		ActionName: j.action.Name,
		Args:       j.action.Args,
		Kwargs:     j.action.Kwargs,
	}
	if rec.Args == nil {
		rec.Args = []string{}
	}
	if rec.Kwargs == nil {
		rec.Kwargs = map[string]string{}
	}
	if j.schedule.AtTime != "" {
		at := j.schedule.AtTime
		rec.AtTime = &at
	}
	if j.lastRun != nil {
		rec.LastRun = &Timestamp{*j.lastRun}
	}
	if j.nextRun != nil {
		rec.NextRun = &Timestamp{*j.nextRun}
	}
	return rec
}

func (r JobRecord) schedule() Schedule {
	s := Schedule{Interval: r.Interval, Unit: r.Unit, DayOfWeek: r.DayOfWeek}
	if r.AtTime != nil {
		s.AtTime = *r.AtTime
	}
	return s
}

func (r JobRecord) action() Action {
	return Action{Name: r.ActionName, Args: r.Args, Kwargs: r.Kwargs}
}

// jobFromRecord rebuilds a persisted job. A missing next run is computed
// from the persisted last run.
func jobFromRecord(rec JobRecord, registry Registry, now func() time.Time) (*Job, error) {
	fn, err := registry.Resolve(rec.ActionName)
	if err != nil {
		return nil, err
	}

	sched := rec.schedule()
	if err := sched.validate(); err != nil {
		return nil, err
	}

	job := &Job{
		id:       rec.ID,
		schedule: sched,
		action:   rec.action(),
		fn:       fn,
		now:      now,
	}
	if rec.LastRun != nil {
		t := rec.LastRun.Time
		job.lastRun = &t
	}
	if rec.NextRun != nil {
		t := rec.NextRun.Time
		job.nextRun = &t
	} else {
		next, err := NextRun(sched, job.lastRun, now())
		if err != nil {
			return nil, err
		}
		job.nextRun = &next
	}
	return job, nil
}
