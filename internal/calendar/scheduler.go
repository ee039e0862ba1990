package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/portfolio-api/internal/schedule"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

var calendarTracer = otel.Tracer("portfolio.internal.calendar")

// ErrSlotUnavailable matches any ConflictError.
var ErrSlotUnavailable = errors.New("calendar: slot unavailable")

// SlotBusyMessage is the user-facing reason for a re-check conflict.
const SlotBusyMessage = "Selected slot is already busy"

// ConflictError reports that the requested slot was busy at creation time.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrSlotUnavailable }

// Config identifies the calendar and the zone bookings are expressed in.
type Config struct {
	CalendarID string
	Timezone   string
}

// BusySource reads busy intervals for whole civil days. Lookup failures are
// logged and reported as an empty day.
type BusySource struct {
	api        API
	calendarID string
	tz         string
	loc        *time.Location
	logger     *logging.Logger
}

// NewBusySource wires a busy lookup for cfg.CalendarID.
func NewBusySource(api API, cfg Config, logger *logging.Logger) *BusySource {
	if logger == nil {
		logger = logging.Default()
	}
	return &BusySource{
		api:        api,
		calendarID: cfg.CalendarID,
		tz:         cfg.Timezone,
		loc:        schedule.Location(cfg.Timezone),
		logger:     logger,
	}
}

// FetchBusy returns busy intervals for date in the configured zone.
func (s *BusySource) FetchBusy(ctx context.Context, date schedule.Date) []schedule.Interval {
	if s == nil || s.api == nil {
		return nil
	}
	start, end := schedule.DayRange(date, s.loc)
	busy, err := s.api.FreeBusy(ctx, s.calendarID, start, end, s.tz)
	if err != nil {
		s.logger.Error("busy lookup failed; treating day as free",
			"error", err,
			"date", date.String(),
			"calendar_id", s.calendarID,
		)
		return nil
	}
	return busy
}

// EventRequest describes a session to place on the calendar.
type EventRequest struct {
	Date            schedule.Date
	StartTime       string
	DurationMinutes int
	Title           string
	Description     string
	Attendees       []string
}

// EventResult is the durable reference to a created event.
type EventResult struct {
	EventID      string
	CalendarLink string
	MeetLink     string
	Start        time.Time
	End          time.Time
}

// Scheduler creates events after re-checking the slot against live busy data.
type Scheduler struct {
	api        API
	busy       *BusySource
	calendarID string
	tz         string
	loc        *time.Location
	logger     *logging.Logger
}

// NewScheduler builds a scheduler sharing api with its busy source.
func NewScheduler(api API, cfg Config, logger *logging.Logger) *Scheduler {
	if api == nil {
		panic("calendar: api required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		api:        api,
		busy:       NewBusySource(api, cfg, logger),
		calendarID: cfg.CalendarID,
		tz:         cfg.Timezone,
		loc:        schedule.Location(cfg.Timezone),
		logger:     logger,
	}
}

// Busy exposes the scheduler's busy source for availability lookups.
func (s *Scheduler) Busy() *BusySource {
	return s.busy
}

// Schedule creates the event. A slot that has become busy returns a
// *ConflictError; anything else that fails is returned as a fault.
func (s *Scheduler) Schedule(ctx context.Context, req EventRequest) (*EventResult, error) {
	ctx, span := calendarTracer.Start(ctx, "calendar.schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("calendar.date", req.Date.String()),
		attribute.String("calendar.start_time", req.StartTime),
		attribute.Int("calendar.duration_minutes", req.DurationMinutes),
	)

	if req.DurationMinutes <= 0 || req.DurationMinutes > schedule.MaxDurationMinutes {
		return nil, schedule.ErrInvalidDuration
	}
	start, err := schedule.Anchor(req.Date, req.StartTime, s.loc)
	if err != nil {
		return nil, err
	}
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	busy := s.busy.FetchBusy(ctx, req.Date)
	if schedule.OverlapsAny(busy, start, end) {
		span.SetAttributes(attribute.Bool("calendar.conflict", true))
		s.logger.Warn("slot busy at re-check",
			"date", req.Date.String(),
			"start_time", req.StartTime,
			"duration_minutes", req.DurationMinutes,
		)
		return nil, &ConflictError{Message: SlotBusyMessage}
	}

	created, err := s.api.InsertEvent(ctx, s.calendarID, Event{
		Summary:     Sanitize(req.Title),
		Description: Sanitize(req.Description),
		Start:       start,
		End:         end,
		TimeZone:    s.tz,
		Attendees:   req.Attendees,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert event failed")
		return nil, fmt.Errorf("calendar: schedule %s %s: %w", req.Date, req.StartTime, err)
	}

	s.logger.Info("calendar event created",
		"event_id", created.ID,
		"start", created.Start.Format(time.RFC3339),
	)
	return &EventResult{
		EventID:      created.ID,
		CalendarLink: created.HTMLLink,
		MeetLink:     created.MeetLink,
		Start:        created.Start,
		End:          created.End,
	}, nil
}

var controlReplacer = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Sanitize replaces CR, LF and TAB with spaces.
func Sanitize(text string) string {
	return controlReplacer.Replace(text)
}
