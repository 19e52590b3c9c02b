package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInterval        = errors.New("invalid interval")
	ErrUnsupportedUnit = errors.New("unsupported unit")
	ErrInvalidAtTime   = errors.New("invalid at time")
	ErrMissingWeekday  = errors.New("day_of_week must be set for weekly scheduling")
	ErrInvalidWeekday  = errors.New("invalid day_of_week")
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateJob    = errors.New("job already registered")
)

type Unit string

const (
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
	Weeks   Unit = "weeks"
)

// Weekday counts from Monday = 0.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ParseWeekday accepts a day name in any case or an index 0..6.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		if s == name {
			return Weekday(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return Weekday(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

func weekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 || n > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, n)
		}
		*d = Weekday(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWeekday, data)
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// parseAtTime parses an HH:MM time of day.
func parseAtTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAtTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// Timestamp is a time persisted as ISO-8601. Values written without an
// offset are read as local time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q: unsupported format", s)
}
