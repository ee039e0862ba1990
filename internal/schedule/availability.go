package schedule

import "time"

// LeadTime is the minimum notice required for a same-day slot.
const LeadTime = 30 * time.Minute

// Slot is a bookable range rendered as wall-clock times in the configured zone.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours bounds bookable time on any day.
type WorkingHours struct {
	Start    Clock
	End      Clock
	Location *time.Location
}

// NewWorkingHours parses HH:MM bounds for the given zone name.
func NewWorkingHours(start, end, tz string) (WorkingHours, error) {
	s, err := ParseClock(start)
	if err != nil {
		return WorkingHours{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return WorkingHours{}, err
	}
	return WorkingHours{Start: s, End: e, Location: Location(tz)}, nil
}

func (h WorkingHours) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// Window returns the working bounds anchored on d.
func (h WorkingHours) Window(d Date) (time.Time, time.Time) {
	loc := h.location()
	return h.Start.On(d, loc), h.End.On(d, loc)
}

// Fits reports whether a session of the given minutes fits inside the
// working window on d. Callers check this before converting minutes to a
// time.Duration.
func (h WorkingHours) Fits(d Date, minutes int64) bool {
	if minutes <= 0 {
		return false
	}
	start, end := h.Window(d)
	return minutes <= int64(end.Sub(start)/time.Minute)
}

// AvailabilityQuery carries the inputs to ComputeAvailableSlots. Now is
// injected so results are deterministic.
type AvailabilityQuery struct {
	Date     Date
	Duration time.Duration
	Now      time.Time
	Hours    WorkingHours
	Busy     []Interval
}

// ComputeAvailableSlots walks the working window in fixed steps of the
// requested duration and returns every candidate that does not overlap a
// busy interval. Same-day requests start no earlier than Now+LeadTime,
// truncated to the minute. The result is never nil.
func ComputeAvailableSlots(q AvailabilityQuery) ([]Slot, error) {
	if q.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	loc := q.Hours.location()
	workStart, workEnd := q.Hours.Window(q.Date)

	effectiveStart := workStart
	now := q.Now.In(loc)
	if DateOf(now) == q.Date {
		earliest := now.Add(LeadTime).Truncate(time.Minute)
		if earliest.After(effectiveStart) {
			effectiveStart = earliest
		}
	}

	slots := []Slot{}
	if !effectiveStart.Before(workEnd) {
		return slots, nil
	}

	for start := effectiveStart; !start.Add(q.Duration).After(workEnd); start = start.Add(q.Duration) {
		end := start.Add(q.Duration)
		if OverlapsAny(q.Busy, start, end) {
			continue
		}
		slots = append(slots, Slot{
			Start: start.In(loc).Format(ClockLayout),
			End:   end.In(loc).Format(ClockLayout),
		})
	}
	return slots, nil
}
