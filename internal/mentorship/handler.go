package mentorship

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/portfolio-api/internal/calendar"
	"github.com/wolfman30/portfolio-api/internal/http/middleware"
	"github.com/wolfman30/portfolio-api/internal/http/render"
	"github.com/wolfman30/portfolio-api/internal/payments"
	"github.com/wolfman30/portfolio-api/internal/schedule"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	// maxDurationMinutes caps session length for availability and booking.
	maxDurationMinutes = 480
)

// Handler serves the mentorship endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("mentorship: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts under /mentorship. admin guards the listing.
func (h *Handler) Routes(admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/availability", h.Availability)
	r.Post("/book", h.Book)
	r.With(admin).Get("/", h.List)
	return r
}

type availabilityResponse struct {
	Success bool            `json:"success"`
	Slots   []schedule.Slot `json:"slots"`
}

// Availability handles GET /mentorship/availability.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := map[string]string{}
	date, err := schedule.ParseDate(q.Get("meeting_date"))
	if err != nil {
		fields["meeting_date"] = "must be YYYY-MM-DD"
	}
	duration, err := strconv.Atoi(q.Get("duration_minutes"))
	if err != nil || duration <= 0 || duration > maxDurationMinutes {
		fields["duration_minutes"] = "must be between 1 and " + strconv.Itoa(maxDurationMinutes)
	}
	if len(fields) > 0 {
		render.BadRequest(w, &render.ValidationError{Fields: fields})
		return
	}

	slots, err := h.svc.Availability(r.Context(), date, duration)
	if err != nil {
		h.logger.Error("availability failed", "error", err, "date", date.String())
		render.Error(w, http.StatusInternalServerError, "failed to compute availability")
		return
	}
	render.JSON(w, http.StatusOK, availabilityResponse{Success: true, Slots: slots})
}

type bookRequest struct {
	FullName          string  `json:"full_name" validate:"required,min=2,max=100"`
	Contact           string  `json:"contact" validate:"required,min=8,max=20"`
	Email             string  `json:"email" validate:"required,email"`
	PlanName          string  `json:"plan_name" validate:"required,max=100"`
	Price             float64 `json:"price" validate:"gte=0"`
	DurationMinutes   int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	SelectedDate      string  `json:"selected_date" validate:"required,civildate"`
	SelectedStartTime string  `json:"selected_start_time" validate:"required,hhmm"`
	Topic             string  `json:"topic" validate:"max=500"`
	PaymentMethod     string  `json:"payment_method" validate:"required"`
	RazorpayOrderID   string  `json:"razorpay_order_id"`
	RazorpayPaymentID string  `json:"razorpay_payment_id"`
	RazorpaySignature string  `json:"razorpay_signature"`
}

func (req bookRequest) toBookingRequest() BookingRequest {
	date, _ := schedule.ParseDate(req.SelectedDate)
	return BookingRequest{
		FullName:          req.FullName,
		Contact:           req.Contact,
		Email:             req.Email,
		PlanName:          req.PlanName,
		Price:             req.Price,
		DurationMinutes:   req.DurationMinutes,
		SelectedDate:      date,
		SelectedStartTime: req.SelectedStartTime,
		Topic:             req.Topic,
		Payment: ParsePaymentMethod(req.PaymentMethod, payments.Attestation{
			OrderID:   req.RazorpayOrderID,
			PaymentID: req.RazorpayPaymentID,
			Signature: req.RazorpaySignature,
		}),
	}
}

// Book handles POST /mentorship/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := render.DecodeJSON(r, &req); err != nil {
		render.BadRequest(w, err)
		return
	}

	confirmation, err := h.svc.Book(r.Context(), req.toBookingRequest())
	if err != nil {
		h.writeBookError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, confirmation)
}

func (h *Handler) writeBookError(w http.ResponseWriter, err error) {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection) && errors.Is(err, calendar.ErrSlotUnavailable):
		render.ErrorCode(w, http.StatusConflict, "SLOT_UNAVAILABLE", rejection.Reason)
	case errors.As(err, &rejection):
		render.ErrorCode(w, http.StatusBadRequest, "PAYMENT_REJECTED", rejection.Reason)
	case errors.Is(err, ErrInvalidRequest):
		render.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrVerificationFailed):
		render.ErrorCode(w, http.StatusBadGateway, "PAYMENT_VERIFICATION_FAILED", "Payment verification is unavailable. Please try again later.")
	case errors.Is(err, ErrSchedulingFailed):
		render.ErrorCode(w, http.StatusInternalServerError, "SCHEDULING_FAILED", "Failed to schedule mentorship session")
	case errors.Is(err, ErrPersistFailed):
		render.ErrorCode(w, http.StatusInternalServerError, "BOOKING_NOT_SAVED", "Failed to save mentorship booking")
	default:
		h.logger.Error("unexpected booking error", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

type listResponse struct {
	Success bool          `json:"success"`
	Limit   int           `json:"limit"`
	Skip    int           `json:"skip"`
	Count   int           `json:"count"`
	Data    []BookingView `json:"data"`
}

// List handles GET /mentorship for admins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := render.ParsePage(r, defaultListLimit, maxListLimit)
	if err != nil {
		render.BadRequest(w, err)
		return
	}
	views, err := h.svc.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.logger.Error("list mentorships failed", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to list mentorships")
		return
	}
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		h.logger.Info("mentorships listed", "admin", claims.Subject, "count", len(views))
	}
	render.JSON(w, http.StatusOK, listResponse{
		Success: true,
		Limit:   page.Limit,
		Skip:    page.Skip,
		Count:   len(views),
		Data:    views,
	})
}
