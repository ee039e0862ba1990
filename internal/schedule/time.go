// Package schedule holds the pure time arithmetic behind mentorship
// availability: civil dates, wall-clock anchoring and slot generation.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the civil date format exchanged with clients.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format used for slot boundaries.
	ClockLayout = "15:04"

	// MaxDurationMinutes is the longest session any caller may ask for.
	MaxDurationMinutes = 24 * 60
)

var (
	ErrInvalidDate     = errors.New("schedule: invalid date")
	ErrInvalidClock    = errors.New("schedule: invalid wall-clock time")
	ErrInvalidDuration = errors.New("schedule: duration must be between 1 minute and 24 hours")
	ErrInvalidInterval = errors.New("schedule: interval start must precede end")
)

// Date is a civil calendar date with no time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DateOf(t), nil
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Format renders d with a time layout, e.g. "02 Jan 2006".
func (d Date) Format(layout string) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
}

// DayRange returns the instants bounding d in loc: local midnight and the
// following local midnight.
func DayRange(d Date, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Clock is a parsed HH:MM wall-clock value.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24h HH:MM string.
func ParseClock(raw string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(raw))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the wall-clock time onto d in loc.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// Anchor parses an HH:MM string and places it on d in loc.
func Anchor(d Date, clock string, loc *time.Location) (time.Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(d, loc), nil
}

// Location loads an IANA zone, falling back to UTC when tz is empty or unknown.
func Location(tz string) *time.Location {
	if strings.TrimSpace(tz) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Interval is a half-open [Start, End) range of instants.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval validates start < end.
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: %s >= %s", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports half-open intersection with [start, end).
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

// OverlapsAny reports whether [start, end) intersects any of busy.
func OverlapsAny(busy []Interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
