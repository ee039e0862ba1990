package mentorship

import (
	"strings"
	"time"

	"github.com/wolfman30/portfolio-api/internal/payments"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusError     Status = "error"
)

// MethodRazorpay is the only gateway-verified payment method.
const MethodRazorpay = "razorpay"

// Payment records how a booking was paid. Gateway references are kept for
// reconciliation and never leave the service through the admin view.
type Payment struct {
	Method    string     `json:"method" bson:"method"`
	Amount    float64    `json:"amount" bson:"amount"`
	Currency  string     `json:"currency" bson:"currency"`
	Verified  bool       `json:"verified" bson:"verified"`
	OrderID   string     `json:"razorpay_order_id,omitempty" bson:"razorpay_order_id,omitempty"`
	PaymentID string     `json:"razorpay_payment_id,omitempty" bson:"razorpay_payment_id,omitempty"`
	Signature string     `json:"razorpay_signature,omitempty" bson:"razorpay_signature,omitempty"`
	PaidAt    *time.Time `json:"payment_timestamp,omitempty" bson:"payment_timestamp,omitempty"`
}

// CalendarEvent is the durable reference to the scheduled session.
type CalendarEvent struct {
	EventID      string    `json:"event_id" bson:"event_id"`
	CalendarLink string    `json:"calendar_link" bson:"calendar_link"`
	MeetLink     string    `json:"meet_link,omitempty" bson:"meet_link,omitempty"`
	Start        time.Time `json:"start_datetime" bson:"start_datetime"`
	End          time.Time `json:"end_datetime" bson:"end_datetime"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Booking is a persisted mentorship session.
type Booking struct {
	ID                string         `json:"id" bson:"_id"`
	FullName          string         `json:"full_name" bson:"full_name"`
	Contact           string         `json:"contact" bson:"contact"`
	Email             string         `json:"email" bson:"email"`
	PlanName          string         `json:"plan_name" bson:"plan_name"`
	Price             float64        `json:"price" bson:"price"`
	DurationMinutes   int            `json:"duration_minutes" bson:"duration_minutes"`
	SelectedDate      string         `json:"selected_date" bson:"selected_date"`
	SelectedStartTime string         `json:"selected_start_time" bson:"selected_start_time"`
	Topic             string         `json:"topic,omitempty" bson:"topic,omitempty"`
	Timezone          string         `json:"timezone" bson:"timezone"`
	PaymentMethod     string         `json:"payment_method" bson:"payment_method"`
	Payment           *Payment       `json:"payment,omitempty" bson:"payment,omitempty"`
	CalendarEvent     *CalendarEvent `json:"calendar_event,omitempty" bson:"calendar_event,omitempty"`
	Status            Status         `json:"status" bson:"status"`
	Notes             string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" bson:"updated_at"`
}

// PaymentMethod is either a GatewayPayment or a ManualPayment.
type PaymentMethod interface {
	Name() string
	isPaymentMethod()
}

// GatewayPayment carries the checkout proof that must verify before a
// session is scheduled.
type GatewayPayment struct {
	Attestation payments.Attestation
}

func (GatewayPayment) Name() string     { return MethodRazorpay }
func (GatewayPayment) isPaymentMethod() {}

// ManualPayment is settled offline. Bookings paid this way are recorded
// as unverified.
type ManualPayment struct {
	Method string
}

func (m ManualPayment) Name() string   { return m.Method }
func (ManualPayment) isPaymentMethod() {}

// ParsePaymentMethod maps the wire method name and attestation onto the
// tagged variant. Method names compare case-insensitively.
func ParsePaymentMethod(method string, att payments.Attestation) PaymentMethod {
	method = strings.TrimSpace(method)
	if strings.EqualFold(method, MethodRazorpay) {
		return GatewayPayment{Attestation: att}
	}
	return ManualPayment{Method: method}
}
