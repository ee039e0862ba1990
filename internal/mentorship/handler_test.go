package mentorship

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/portfolio-api/internal/calendar"
	"github.com/wolfman30/portfolio-api/internal/payments"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

func passThrough(next http.Handler) http.Handler { return next }

func bookBody(overrides map[string]any) *bytes.Reader {
	body := map[string]any{
		"full_name":           "Anuj Kumar",
		"contact":             "+919876543210",
		"email":               "anuj@example.com",
		"plan_name":           "Premium Mentorship",
		"price":               1999.0,
		"duration_minutes":    60,
		"selected_date":       "2026-01-25",
		"selected_start_time": "14:00",
		"topic":               "Career Guidance",
		"payment_method":      "Razorpay",
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "sig_1",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, _ := json.Marshal(body)
	return bytes.NewReader(raw)
}

func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Routes(passThrough).ServeHTTP(w, req)
	return w
}

func TestHandler_BookSuccess(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, logging.Discard())

	w := serve(h, httptest.NewRequest(http.MethodPost, "/book", bookBody(nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp Confirmation
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Status != StatusConfirmed || resp.EventLink == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if f.verifier.calls != 1 {
		t.Fatal("mixed-case razorpay should still be verified")
	}
}

func TestHandler_BookErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		body     map[string]any
		wantCode int
		wantText string
	}{
		{
			name:     "validation",
			body:     map[string]any{"email": "nope", "selected_start_time": "2pm"},
			wantCode: http.StatusUnprocessableEntity,
			wantText: "selected_start_time",
		},
		{
			name: "invalid signature",
			setup: func(f *fixture) {
				f.verifier.result = payments.Verification{Reason: payments.InvalidSignatureReason}
			},
			wantCode: http.StatusBadRequest,
			wantText: "Invalid payment signature",
		},
		{
			name: "slot busy",
			setup: func(f *fixture) {
				f.scheduler.err = &calendar.ConflictError{Message: calendar.SlotBusyMessage}
			},
			wantCode: http.StatusConflict,
			wantText: calendar.SlotBusyMessage,
		},
		{
			name:     "gateway fault",
			setup:    func(f *fixture) { f.verifier.err = errors.New("timeout") },
			wantCode: http.StatusBadGateway,
			wantText: "PAYMENT_VERIFICATION_FAILED",
		},
		{
			name:     "calendar fault",
			setup:    func(f *fixture) { f.scheduler.err = errors.New("boom") },
			wantCode: http.StatusInternalServerError,
			wantText: "Failed to schedule mentorship session",
		},
		{
			name:     "persist fault",
			setup:    func(f *fixture) { f.svc.repo = failingRepo{err: errors.New("down")} },
			wantCode: http.StatusInternalServerError,
			wantText: "BOOKING_NOT_SAVED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			h := NewHandler(f.svc, logging.Discard())
			w := serve(h, httptest.NewRequest(http.MethodPost, "/book", bookBody(tt.body)))
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantText) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantText, w.Body.String())
			}
		})
	}
}

func TestHandler_Availability(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, logging.Discard())

	w := serve(h, httptest.NewRequest(http.MethodGet, "/availability?meeting_date=2026-01-25&duration_minutes=60", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp availabilityResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Slots) != 13 || resp.Slots[0].Start != "10:00" {
		t.Fatalf("unexpected slots %+v", resp.Slots)
	}

	w = serve(h, httptest.NewRequest(http.MethodGet, "/availability?meeting_date=tomorrow&duration_minutes=0", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "meeting_date") || !strings.Contains(w.Body.String(), "duration_minutes") {
		t.Fatalf("expected both fields reported, got %s", w.Body.String())
	}
}

func TestHandler_AvailabilityBoundsDuration(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, logging.Discard())

	for _, raw := range []string{"481", "9007199254741022", "-9007199254741022"} {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/availability?meeting_date=2026-01-25&duration_minutes="+raw, nil))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("duration %s: expected 422, got %d: %s", raw, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "duration_minutes") {
			t.Fatalf("duration %s: expected duration_minutes reported, got %s", raw, w.Body.String())
		}
	}

	w := serve(h, httptest.NewRequest(http.MethodGet, "/availability?meeting_date=2026-01-25&duration_minutes=480", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 at the ceiling, got %d", w.Code)
	}
}

func TestHandler_ListHidesPaymentReferences(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Book(context.Background(), gatewayRequest()); err != nil {
		t.Fatalf("book: %v", err)
	}
	h := NewHandler(f.svc, logging.Discard())

	w := serve(h, httptest.NewRequest(http.MethodGet, "/?skip=0&limit=10", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, secret := range []string{"order_1", "pay_1", "sig_1", "razorpay_signature", "event_id"} {
		if strings.Contains(body, secret) {
			t.Fatalf("list response leaked %q: %s", secret, body)
		}
	}
	var resp listResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 1 || resp.Limit != 10 || resp.Data[0].Payment.Amount != 1999 {
		t.Fatalf("unexpected list response %+v", resp)
	}
}

func TestHandler_ListValidatesPaging(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, logging.Discard())

	w := serve(h, httptest.NewRequest(http.MethodGet, "/?limit=500", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	w = serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	var resp listResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Limit != defaultListLimit || resp.Data == nil {
		t.Fatalf("unexpected defaults %+v", resp)
	}
}

func TestHandler_ListRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc, logging.Discard())
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	w := httptest.NewRecorder()
	h.Routes(deny).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
