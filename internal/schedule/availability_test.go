package schedule

import (
	"reflect"
	"testing"
	"time"
)

func mustHours(t *testing.T, start, end, tz string) WorkingHours {
	t.Helper()
	h, err := NewWorkingHours(start, end, tz)
	if err != nil {
		t.Fatalf("working hours: %v", err)
	}
	return h
}

func at(t *testing.T, loc *time.Location, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, loc)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestComputeAvailableSlots_FullWindow(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "Asia/Kolkata")
	loc := hours.Location
	date := Date{Year: 2026, Month: time.March, Day: 10}

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     date,
		Duration: 60 * time.Minute,
		Now:      at(t, loc, "2026-03-01 08:00:00"),
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Slot{{Start: "10:00", End: "11:00"}, {Start: "11:00", End: "12:00"}}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
}

func TestComputeAvailableSlots_BusyDropsWholeCandidate(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "Asia/Kolkata")
	loc := hours.Location
	busy := []Interval{{
		Start: at(t, loc, "2026-03-10 11:00:00"),
		End:   at(t, loc, "2026-03-10 11:30:00"),
	}}

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     Date{Year: 2026, Month: time.March, Day: 10},
		Duration: time.Hour,
		Now:      at(t, loc, "2026-03-01 08:00:00"),
		Hours:    hours,
		Busy:     busy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Slot{{Start: "10:00", End: "11:00"}}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
}

func TestComputeAvailableSlots_BusyInOtherZone(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "Asia/Kolkata")
	// 05:30 UTC is 11:00 in Kolkata.
	busy := []Interval{{
		Start: time.Date(2026, time.March, 10, 5, 30, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 10, 5, 45, 0, 0, time.UTC),
	}}
	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     Date{Year: 2026, Month: time.March, Day: 10},
		Duration: time.Hour,
		Now:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Hours:    hours,
		Busy:     busy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Start != "10:00" {
		t.Fatalf("expected only 10:00 slot, got %v", slots)
	}
}

func TestComputeAvailableSlots_DurationLongerThanWindow(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "UTC")
	for _, minutes := range []int{121, 180, 24 * 60} {
		slots, err := ComputeAvailableSlots(AvailabilityQuery{
			Date:     Date{Year: 2026, Month: time.March, Day: 10},
			Duration: time.Duration(minutes) * time.Minute,
			Now:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			Hours:    hours,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slots == nil || len(slots) != 0 {
			t.Fatalf("duration %d: expected empty non-nil slots, got %#v", minutes, slots)
		}
	}
}

func TestComputeAvailableSlots_TodayLeadTimeFloor(t *testing.T) {
	hours := mustHours(t, "08:00", "12:00", "UTC")
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     DateOf(now),
		Duration: 30 * time.Minute,
		Now:      now,
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	if slots[0].Start != "09:30" {
		t.Fatalf("expected first slot at 09:30, got %s", slots[0].Start)
	}
	for _, s := range slots {
		if s.Start < "09:30" {
			t.Fatalf("slot %v starts before lead-time floor", s)
		}
	}
}

func TestComputeAvailableSlots_TodayFloorTruncatesSeconds(t *testing.T) {
	hours := mustHours(t, "08:00", "12:00", "UTC")
	now := time.Date(2026, time.March, 10, 9, 7, 42, 500, time.UTC)

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     DateOf(now),
		Duration: time.Hour,
		Now:      now,
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Slot{{Start: "09:37", End: "10:37"}, {Start: "10:37", End: "11:37"}}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %v, got %v", want, slots)
	}
}

func TestComputeAvailableSlots_TodayUsesConfiguredZone(t *testing.T) {
	hours := mustHours(t, "10:00", "23:00", "Asia/Kolkata")
	// 20:00 UTC on the 9th is 01:30 on the 10th in Kolkata, so the 10th is "today".
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     Date{Year: 2026, Month: time.March, Day: 10},
		Duration: time.Hour,
		Now:      now,
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 || slots[0].Start != "10:00" {
		t.Fatalf("lead-time floor is before work start, expected 10:00 first, got %v", slots)
	}
}

func TestComputeAvailableSlots_FutureDateIgnoresFloor(t *testing.T) {
	hours := mustHours(t, "10:00", "13:00", "UTC")
	now := time.Date(2026, time.March, 10, 12, 45, 0, 0, time.UTC)

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     Date{Year: 2026, Month: time.March, Day: 11},
		Duration: time.Hour,
		Now:      now,
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 3 || slots[0].Start != "10:00" {
		t.Fatalf("expected three slots from work start, got %v", slots)
	}
}

func TestComputeAvailableSlots_TodayAfterHours(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "UTC")
	now := time.Date(2026, time.March, 10, 11, 40, 0, 0, time.UTC)

	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     DateOf(now),
		Duration: 15 * time.Minute,
		Now:      now,
		Hours:    hours,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots after floor passes work end, got %v", slots)
	}
}

func TestComputeAvailableSlots_NoSlotOverlapsBusy(t *testing.T) {
	hours := mustHours(t, "10:00", "23:00", "UTC")
	date := Date{Year: 2026, Month: time.March, Day: 12}
	busy := []Interval{
		{Start: time.Date(2026, 3, 12, 10, 45, 0, 0, time.UTC), End: time.Date(2026, 3, 12, 11, 15, 0, 0, time.UTC)},
		{Start: time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 12, 16, 0, 0, 0, time.UTC)},
		{Start: time.Date(2026, 3, 12, 22, 59, 0, 0, time.UTC), End: time.Date(2026, 3, 13, 1, 0, 0, 0, time.UTC)},
	}
	for _, minutes := range []int{15, 30, 45, 60, 90} {
		d := time.Duration(minutes) * time.Minute
		slots, err := ComputeAvailableSlots(AvailabilityQuery{
			Date:     date,
			Duration: d,
			Now:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Hours:    hours,
			Busy:     busy,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		prev := ""
		for _, s := range slots {
			start, err := Anchor(date, s.Start, time.UTC)
			if err != nil {
				t.Fatalf("anchor: %v", err)
			}
			if OverlapsAny(busy, start, start.Add(d)) {
				t.Fatalf("duration %d: slot %v overlaps busy", minutes, s)
			}
			if s.Start <= prev {
				t.Fatalf("duration %d: slots out of order at %v", minutes, s)
			}
			prev = s.Start
		}
	}
}

func TestComputeAvailableSlots_AdjacentBusyIsNotOverlap(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "UTC")
	busy := []Interval{{
		Start: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}}
	slots, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:     Date{Year: 2026, Month: time.March, Day: 10},
		Duration: time.Hour,
		Now:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Hours:    hours,
		Busy:     busy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].End != "11:00" {
		t.Fatalf("expected 10:00-11:00 only, got %v", slots)
	}
}

func TestComputeAvailableSlots_RejectsNonPositiveDuration(t *testing.T) {
	_, err := ComputeAvailableSlots(AvailabilityQuery{
		Date:  Date{Year: 2026, Month: time.March, Day: 10},
		Hours: WorkingHours{Start: Clock{Hour: 10}, End: Clock{Hour: 12}},
	})
	if err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestWorkingHours_Fits(t *testing.T) {
	hours := mustHours(t, "10:00", "12:00", "UTC")
	day := Date{Year: 2026, Month: time.March, Day: 10}
	cases := map[int64]bool{
		1:                true,
		120:              true,
		121:              false,
		0:                false,
		-30:              false,
		9007199254741022: false,
	}
	for minutes, want := range cases {
		if got := hours.Fits(day, minutes); got != want {
			t.Fatalf("Fits(%d) = %v, want %v", minutes, got, want)
		}
	}
}
