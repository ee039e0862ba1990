// Package calendar talks to Google Calendar for free/busy lookups and
// mentorship event creation.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/portfolio-api/internal/schedule"
)

var ErrNotConfigured = errors.New("calendar: google client not configured")

// API is the subset of Google Calendar the scheduler depends on.
type API interface {
	FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time, timezone string) ([]schedule.Interval, error)
	InsertEvent(ctx context.Context, calendarID string, ev Event) (*CreatedEvent, error)
}

// Event is the payload submitted for creation.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// CreatedEvent is what Google returns for an inserted event.
type CreatedEvent struct {
	ID       string
	HTMLLink string
	MeetLink string
	Start    time.Time
	End      time.Time
}

// GoogleConfig selects credentials for the calendar service.
type GoogleConfig struct {
	ServiceAccountFile string
	ServiceAccountJSON string
	Endpoint           string
}

// GoogleClient builds its *gcal.Service on first use and reuses it for the
// life of the process. A failed build is not retried.
type GoogleClient struct {
	opts []option.ClientOption

	once    sync.Once
	svc     *gcal.Service
	initErr error
}

// NewGoogleClient returns a client using a service account from cfg.
func NewGoogleClient(cfg GoogleConfig) *GoogleClient {
	opts := []option.ClientOption{option.WithScopes(gcal.CalendarScope)}
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return NewGoogleClientWithOptions(opts...)
}

// NewGoogleClientWithOptions passes options straight to calendar.NewService.
func NewGoogleClientWithOptions(opts ...option.ClientOption) *GoogleClient {
	return &GoogleClient{opts: opts}
}

func (c *GoogleClient) service(ctx context.Context) (*gcal.Service, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	c.once.Do(func() {
		c.svc, c.initErr = gcal.NewService(context.WithoutCancel(ctx), c.opts...)
	})
	if c.initErr != nil {
		return nil, fmt.Errorf("calendar: build service: %w", c.initErr)
	}
	return c.svc, nil
}

// FreeBusy returns busy periods for calendarID between timeMin and timeMax.
func (c *GoogleClient) FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time, timezone string) ([]schedule.Interval, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin:  timeMin.Format(time.RFC3339),
		TimeMax:  timeMax.Format(time.RFC3339),
		TimeZone: timezone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: freebusy query: %w", err)
	}
	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar: freebusy response missing calendar %q", calendarID)
	}
	if len(cal.Errors) > 0 && cal.Errors[0] != nil {
		return nil, fmt.Errorf("calendar: freebusy %s: %s", calendarID, cal.Errors[0].Reason)
	}
	intervals := make([]schedule.Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		if period == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("calendar: parse busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("calendar: parse busy end %q: %w", period.End, err)
		}
		intervals = append(intervals, schedule.Interval{Start: start, End: end})
	}
	return intervals, nil
}

// InsertEvent creates ev on calendarID.
func (c *GoogleClient) InsertEvent(ctx context.Context, calendarID string, ev Event) (*CreatedEvent, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	body := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.TimeZone,
		},
		Reminders: &gcal.EventReminders{UseDefault: true},
	}
	for _, email := range ev.Attendees {
		body.Attendees = append(body.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(calendarID, body).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}
	out := &CreatedEvent{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: created.HangoutLink,
		Start:    ev.Start,
		End:      ev.End,
	}
	if created.Start != nil && created.Start.DateTime != "" {
		if ts, err := time.Parse(time.RFC3339, created.Start.DateTime); err == nil {
			out.Start = ts
		}
	}
	if created.End != nil && created.End.DateTime != "" {
		if ts, err := time.Parse(time.RFC3339, created.End.DateTime); err == nil {
			out.End = ts
		}
	}
	return out, nil
}

var _ API = (*GoogleClient)(nil)
