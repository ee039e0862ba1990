package mentorship

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/portfolio-api/internal/calendar"
	"github.com/wolfman30/portfolio-api/internal/notify"
	"github.com/wolfman30/portfolio-api/internal/observability/metrics"
	"github.com/wolfman30/portfolio-api/internal/payments"
	"github.com/wolfman30/portfolio-api/internal/schedule"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

var mentorshipTracer = otel.Tracer("portfolio.internal.mentorship")

const (
	// BookedMessage accompanies every successful booking.
	BookedMessage = "Mentorship booked successfully"

	defaultTopic      = "General Discussion"
	defaultEventTopic = "No topic specified"
	displayDateLayout = "02 Jan 2006"
)

// PaymentVerifier checks a gateway attestation.
type PaymentVerifier interface {
	Verify(ctx context.Context, att payments.Attestation) (payments.Verification, error)
}

// EventScheduler re-checks a slot and creates its calendar event.
type EventScheduler interface {
	Schedule(ctx context.Context, req calendar.EventRequest) (*calendar.EventResult, error)
}

// BusyFetcher returns busy intervals for a civil day. It never fails; an
// unreachable calendar reads as a free day.
type BusyFetcher interface {
	FetchBusy(ctx context.Context, date schedule.Date) []schedule.Interval
}

// Mailer delivers templated notifications.
type Mailer interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Config holds the booking window and branding.
type Config struct {
	Timezone      string
	WorkStart     string
	WorkEnd       string
	PlatformName  string
	OperatorEmail string
}

// Dependencies are the collaborators of the booking service. Verifier may
// be nil when no gateway is configured; gateway payments then fail.
type Dependencies struct {
	Verifier  PaymentVerifier
	Scheduler EventScheduler
	Busy      BusyFetcher
	Repo      Repository
	Mailer    Mailer
	Metrics   *metrics.BookingMetrics
	Now       func() time.Time
}

// BookingRequest is a validated request to book a session.
type BookingRequest struct {
	FullName          string
	Contact           string
	Email             string
	PlanName          string
	Price             float64
	DurationMinutes   int
	SelectedDate      schedule.Date
	SelectedStartTime string
	Topic             string
	Payment           PaymentMethod
}

// Confirmation is returned once a booking is durable.
type Confirmation struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EventLink string `json:"event_link"`
	Status    Status `json:"status"`
}

// Service computes availability and books mentorship sessions.
type Service struct {
	verifier  PaymentVerifier
	scheduler EventScheduler
	busy      BusyFetcher
	repo      Repository
	mailer    Mailer
	metrics   *metrics.BookingMetrics
	now       func() time.Time

	hours    schedule.WorkingHours
	timezone string
	platform string
	operator string
	logger   *logging.Logger
}

// NewService validates cfg and wires the booking flow.
func NewService(cfg Config, deps Dependencies, logger *logging.Logger) (*Service, error) {
	if deps.Scheduler == nil {
		panic("mentorship: scheduler required")
	}
	if deps.Repo == nil {
		panic("mentorship: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	hours, err := schedule.NewWorkingHours(cfg.WorkStart, cfg.WorkEnd, cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("mentorship: working hours: %w", err)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		verifier:  deps.Verifier,
		scheduler: deps.Scheduler,
		busy:      deps.Busy,
		repo:      deps.Repo,
		mailer:    deps.Mailer,
		metrics:   deps.Metrics,
		now:       deps.Now,
		hours:     hours,
		timezone:  hours.Location.String(),
		platform:  cfg.PlatformName,
		operator:  strings.TrimSpace(cfg.OperatorEmail),
		logger:    logger,
	}, nil
}

// Availability lists free slots of durationMinutes on date.
func (s *Service) Availability(ctx context.Context, date schedule.Date, durationMinutes int) ([]schedule.Slot, error) {
	ctx, span := mentorshipTracer.Start(ctx, "mentorship.availability")
	defer span.End()
	span.SetAttributes(
		attribute.String("mentorship.date", date.String()),
		attribute.Int("mentorship.duration_minutes", durationMinutes),
	)

	if durationMinutes <= 0 {
		return nil, schedule.ErrInvalidDuration
	}
	if !s.hours.Fits(date, int64(durationMinutes)) {
		s.metrics.ObserveSlots(0)
		return []schedule.Slot{}, nil
	}
	var busy []schedule.Interval
	if s.busy != nil {
		busy = s.busy.FetchBusy(ctx, date)
	}
	slots, err := schedule.ComputeAvailableSlots(schedule.AvailabilityQuery{
		Date:     date,
		Duration: time.Duration(durationMinutes) * time.Minute,
		Now:      s.now(),
		Hours:    s.hours,
		Busy:     busy,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSlots(len(slots))
	span.SetAttributes(attribute.Int("mentorship.slots", len(slots)))
	return slots, nil
}

// Book verifies payment, schedules the session, persists the booking and
// then notifies both parties. Rejections come back as *RejectionError.
// The caller's cancellation is not honored once the flow has started.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Confirmation, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := mentorshipTracer.Start(ctx, "mentorship.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("mentorship.date", req.SelectedDate.String()),
		attribute.String("mentorship.start_time", req.SelectedStartTime),
		attribute.Int("mentorship.duration_minutes", req.DurationMinutes),
	)

	if req.Payment == nil {
		return nil, fmt.Errorf("%w: payment method required", ErrInvalidRequest)
	}
	span.SetAttributes(attribute.String("mentorship.payment_method", req.Payment.Name()))

	payment, err := s.checkPayment(ctx, req)
	if err != nil {
		outcome := "verification_failed"
		if errors.Is(err, ErrPaymentRejected) {
			outcome = "payment_rejected"
		}
		s.fail(span, outcome, err)
		return nil, err
	}

	stepStart := time.Now()
	event, err := s.scheduler.Schedule(ctx, calendar.EventRequest{
		Date:            req.SelectedDate,
		StartTime:       req.SelectedStartTime,
		DurationMinutes: req.DurationMinutes,
		Title:           "Mentorship: " + req.PlanName,
		Description:     orDefault(req.Topic, defaultEventTopic),
	})
	s.metrics.ObserveStep("schedule", time.Since(stepStart))
	if err != nil {
		var conflict *calendar.ConflictError
		if errors.As(err, &conflict) {
			err = &RejectionError{Reason: conflict.Message, Err: err}
			s.fail(span, "slot_unavailable", err)
			return nil, err
		}
		err = fmt.Errorf("%w: %w", ErrSchedulingFailed, err)
		s.fail(span, "scheduling_failed", err)
		return nil, err
	}

	now := s.now().UTC()
	booking := &Booking{
		FullName:          req.FullName,
		Contact:           req.Contact,
		Email:             req.Email,
		PlanName:          req.PlanName,
		Price:             req.Price,
		DurationMinutes:   req.DurationMinutes,
		SelectedDate:      req.SelectedDate.String(),
		SelectedStartTime: req.SelectedStartTime,
		Topic:             req.Topic,
		Timezone:          s.timezone,
		PaymentMethod:     req.Payment.Name(),
		Payment:           payment,
		CalendarEvent: &CalendarEvent{
			EventID:      event.EventID,
			CalendarLink: event.CalendarLink,
			MeetLink:     event.MeetLink,
			Start:        event.Start,
			End:          event.End,
			CreatedAt:    now,
		},
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stepStart = time.Now()
	saved, err := s.repo.Insert(ctx, booking)
	s.metrics.ObserveStep("persist", time.Since(stepStart))
	if err != nil {
		s.logger.Error("booking insert failed after event creation",
			"error", err,
			"event_id", event.EventID,
			"email", req.Email,
		)
		err = fmt.Errorf("%w: %w", ErrPersistFailed, err)
		s.fail(span, "persist_failed", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("mentorship.booking_id", saved.ID))
	s.logger.Info("mentorship booked",
		"booking_id", saved.ID,
		"event_id", event.EventID,
		"date", saved.SelectedDate,
		"start_time", saved.SelectedStartTime,
		"payment_method", saved.PaymentMethod,
		"payment_verified", payment.Verified,
	)

	stepStart = time.Now()
	s.notify(ctx, saved)
	s.metrics.ObserveStep("notify", time.Since(stepStart))

	s.metrics.ObserveBooking(string(StatusConfirmed))
	return &Confirmation{
		Success:   true,
		Message:   BookedMessage,
		EventLink: event.CalendarLink,
		Status:    StatusConfirmed,
	}, nil
}

func (s *Service) checkPayment(ctx context.Context, req BookingRequest) (*Payment, error) {
	switch method := req.Payment.(type) {
	case GatewayPayment:
		if s.verifier == nil {
			return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, payments.ErrGatewayNotConfigured)
		}
		stepStart := time.Now()
		result, err := s.verifier.Verify(ctx, method.Attestation)
		s.metrics.ObserveStep("verify", time.Since(stepStart))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
		}
		if !result.Verified {
			return nil, paymentRejection(result.Reason)
		}
		paidAt := s.now().UTC()
		return &Payment{
			Method:    MethodRazorpay,
			Amount:    req.Price,
			Currency:  payments.DefaultCurrency,
			Verified:  true,
			OrderID:   method.Attestation.OrderID,
			PaymentID: method.Attestation.PaymentID,
			Signature: method.Attestation.Signature,
			PaidAt:    &paidAt,
		}, nil
	case ManualPayment:
		return &Payment{
			Method:   method.Method,
			Amount:   req.Price,
			Currency: payments.DefaultCurrency,
			Verified: false,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported payment method %T", ErrInvalidRequest, method)
	}
}

func (s *Service) notify(ctx context.Context, b *Booking) {
	if s.mailer == nil {
		return
	}
	date, _ := schedule.ParseDate(b.SelectedDate)
	sessionDate := date.Format(displayDateLayout)
	topic := orDefault(b.Topic, defaultTopic)
	var link string
	if b.CalendarEvent != nil {
		link = b.CalendarEvent.CalendarLink
	}

	s.send(ctx, notify.Notification{
		To:       b.Email,
		ToName:   b.FullName,
		Subject:  "Mentorship Session Confirmed",
		Template: notify.TemplateMentorshipUser,
		Data: map[string]any{
			"full_name":        b.FullName,
			"plan_name":        b.PlanName,
			"session_date":     sessionDate,
			"session_time":     b.SelectedStartTime,
			"timezone":         b.Timezone,
			"duration_minutes": b.DurationMinutes,
			"topic":            topic,
			"event_link":       link,
			"platform_name":    s.platform,
		},
	})

	if s.operator == "" {
		s.logger.Warn("operator email not configured; skipping admin notification", "booking_id", b.ID)
		return
	}
	s.send(ctx, notify.Notification{
		To:       s.operator,
		Subject:  "New Mentorship Session Booked",
		Template: notify.TemplateMentorshipAdmin,
		Data: map[string]any{
			"user_name":        b.FullName,
			"user_email":       b.Email,
			"contact":          b.Contact,
			"plan_name":        b.PlanName,
			"price":            fmt.Sprintf("%.2f", b.Price),
			"session_date":     sessionDate,
			"session_time":     b.SelectedStartTime,
			"timezone":         b.Timezone,
			"duration_minutes": b.DurationMinutes,
			"topic":            topic,
			"payment_method":   b.PaymentMethod,
			"payment_verified": b.Payment != nil && b.Payment.Verified,
			"event_link":       link,
			"platform_name":    s.platform,
		},
	})
}

func (s *Service) send(ctx context.Context, n notify.Notification) {
	err := s.mailer.Send(ctx, n)
	s.metrics.ObserveNotification(n.Template, err)
	if err != nil {
		s.logger.Error("mentorship notification failed", "error", err, "template", n.Template, "to", n.To)
	}
}

// List returns the admin projection of bookings, newest first.
func (s *Service) List(ctx context.Context, skip, limit int) ([]BookingView, error) {
	bookings, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewBookingView(b))
	}
	return views, nil
}

func (s *Service) fail(span trace.Span, outcome string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	s.metrics.ObserveBooking(outcome)
	s.logger.Warn("mentorship booking aborted", "outcome", outcome, "error", err)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
