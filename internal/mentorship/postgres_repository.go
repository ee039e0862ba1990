package mentorship

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/portfolio-api/internal/schedule"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores bookings in the mentorships table.
type PostgresRepository struct {
	db  DB
	now func() time.Time
}

func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("mentorship: db required")
	}
	return &PostgresRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const insertBookingSQL = `
	INSERT INTO mentorships (
		id, full_name, contact, email, plan_name, price, duration_minutes,
		selected_date, selected_start_time, topic, timezone, payment_method,
		payment_amount, payment_currency, payment_verified,
		razorpay_order_id, razorpay_payment_id, razorpay_signature, paid_at,
		event_id, calendar_link, meet_link, event_start, event_end,
		status, notes, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
	)`

func (r *PostgresRepository) Insert(ctx context.Context, b *Booking) (*Booking, error) {
	stored := prepareInsert(b, r.now())
	date, err := schedule.ParseDate(stored.SelectedDate)
	if err != nil {
		return nil, fmt.Errorf("mentorship: insert: %w", err)
	}
	pay := stored.Payment
	if pay == nil {
		pay = &Payment{Method: stored.PaymentMethod}
	}
	event := stored.CalendarEvent
	if event == nil {
		event = &CalendarEvent{}
	}

	_, err = r.db.Exec(ctx, insertBookingSQL,
		stored.ID, stored.FullName, stored.Contact, stored.Email, stored.PlanName,
		stored.Price, stored.DurationMinutes,
		time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC),
		stored.SelectedStartTime, stored.Topic, stored.Timezone, stored.PaymentMethod,
		pay.Amount, pay.Currency, pay.Verified,
		pay.OrderID, pay.PaymentID, pay.Signature, pay.PaidAt,
		event.EventID, event.CalendarLink, event.MeetLink, nullableTime(event.Start), nullableTime(event.End),
		string(stored.Status), stored.Notes, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("mentorship: insert: %w", err)
	}
	return stored, nil
}

const listBookingsSQL = `
	SELECT id, full_name, contact, email, plan_name, price, duration_minutes,
		selected_date, selected_start_time, topic, timezone, payment_method,
		payment_amount, payment_currency, payment_verified,
		razorpay_order_id, razorpay_payment_id, razorpay_signature, paid_at,
		event_id, calendar_link, meet_link, event_start, event_end,
		status, notes, created_at, updated_at
	FROM mentorships
	ORDER BY created_at DESC, id DESC
	LIMIT $1 OFFSET $2`

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*Booking, error) {
	rows, err := r.db.Query(ctx, listBookingsSQL, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("mentorship: list: %w", err)
	}
	defer rows.Close()

	out := []*Booking{}
	for rows.Next() {
		var (
			b          Booking
			pay        Payment
			event      CalendarEvent
			date       time.Time
			status     string
			eventStart *time.Time
			eventEnd   *time.Time
		)
		if err := rows.Scan(
			&b.ID, &b.FullName, &b.Contact, &b.Email, &b.PlanName, &b.Price, &b.DurationMinutes,
			&date, &b.SelectedStartTime, &b.Topic, &b.Timezone, &b.PaymentMethod,
			&pay.Amount, &pay.Currency, &pay.Verified,
			&pay.OrderID, &pay.PaymentID, &pay.Signature, &pay.PaidAt,
			&event.EventID, &event.CalendarLink, &event.MeetLink, &eventStart, &eventEnd,
			&status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("mentorship: scan: %w", err)
		}
		b.SelectedDate = schedule.DateOf(date.UTC()).String()
		b.Status = Status(status)
		pay.Method = b.PaymentMethod
		b.Payment = &pay
		if event.EventID != "" {
			if eventStart != nil {
				event.Start = *eventStart
			}
			if eventEnd != nil {
				event.End = *eventEnd
			}
			event.CreatedAt = b.CreatedAt
			b.CalendarEvent = &event
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mentorship: list rows: %w", err)
	}
	return out, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

var _ Repository = (*PostgresRepository)(nil)
