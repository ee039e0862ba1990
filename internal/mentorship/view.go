package mentorship

import "time"

// BookingView is the admin projection of a booking. It is built field by
// field so gateway references and signatures cannot leak into it.
type BookingView struct {
	ID                string             `json:"id"`
	FullName          string             `json:"full_name"`
	Email             string             `json:"email"`
	Contact           string             `json:"contact"`
	PlanName          string             `json:"plan_name"`
	Price             float64            `json:"price"`
	DurationMinutes   int                `json:"duration_minutes"`
	SelectedDate      string             `json:"selected_date"`
	SelectedStartTime string             `json:"selected_start_time"`
	Timezone          string             `json:"timezone"`
	Topic             string             `json:"topic"`
	Status            Status             `json:"status"`
	Payment           *PaymentView       `json:"payment"`
	CalendarEvent     *CalendarEventView `json:"calendar_event"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// PaymentView exposes only how much was paid, how, and whether it verified.
type PaymentView struct {
	Method   string  `json:"method"`
	Amount   float64 `json:"amount"`
	Verified bool    `json:"verified"`
}

type CalendarEventView struct {
	MeetLink      string    `json:"meet_link"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
}

func NewBookingView(b *Booking) BookingView {
	v := BookingView{
		ID:                b.ID,
		FullName:          b.FullName,
		Email:             b.Email,
		Contact:           b.Contact,
		PlanName:          b.PlanName,
		Price:             b.Price,
		DurationMinutes:   b.DurationMinutes,
		SelectedDate:      b.SelectedDate,
		SelectedStartTime: b.SelectedStartTime,
		Timezone:          b.Timezone,
		Topic:             b.Topic,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.Payment != nil {
		v.Payment = &PaymentView{
			Method:   b.Payment.Method,
			Amount:   b.Payment.Amount,
			Verified: b.Payment.Verified,
		}
	}
	if b.CalendarEvent != nil {
		v.CalendarEvent = &CalendarEventView{
			MeetLink:      b.CalendarEvent.MeetLink,
			StartDatetime: b.CalendarEvent.Start,
			EndDatetime:   b.CalendarEvent.End,
		}
	}
	return v
}
