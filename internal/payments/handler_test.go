package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

type stubGateway struct {
	err   error
	calls int
}

func (s *stubGateway) VerifySignature(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

type stubOrders struct {
	order *Order
	err   error
	req   OrderRequest
}

func (s *stubOrders) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	s.req = req
	return s.order, s.err
}

func TestVerifierOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		gatewayErr   error
		wantVerified bool
		wantReason   string
		wantErr      bool
	}{
		{"valid", nil, true, "", false},
		{"invalid signature", ErrSignatureMismatch, false, InvalidSignatureReason, false},
		{"gateway fault", errors.New("connection reset"), false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(&stubGateway{err: tt.gatewayErr})
			got, err := v.Verify(context.Background(), Attestation{OrderID: "o", PaymentID: "p", Signature: "s"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got.Verified != tt.wantVerified || got.Reason != tt.wantReason {
				t.Fatalf("unexpected verification %+v", got)
			}
		})
	}
}

func TestHandlerVerifyPayment(t *testing.T) {
	gw := &stubGateway{err: ErrSignatureMismatch}
	h := NewHandler(&stubOrders{}, NewVerifier(gw), logging.Discard())

	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"bad"}`
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp verifyPaymentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Message != InvalidSignatureReason {
		t.Fatalf("unexpected response %+v", resp)
	}

	gw.err = nil
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(body)))
	resp = verifyPaymentResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.OrderID != "order_1" || resp.PaymentID != "pay_1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandlerVerifyPaymentFault(t *testing.T) {
	h := NewHandler(&stubOrders{}, NewVerifier(&stubGateway{err: errors.New("boom")}), logging.Discard())
	body := `{"razorpay_order_id":"o","razorpay_payment_id":"p","razorpay_signature":"s"}`
	rec := httptest.NewRecorder()
	h.VerifyPayment(rec, httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(body)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandlerCreateOrder(t *testing.T) {
	orders := &stubOrders{order: &Order{ID: "order_9", Amount: 50000}}
	h := NewHandler(orders, NewVerifier(&stubGateway{}), logging.Discard())

	rec := httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"amount":500}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createOrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OrderID != "order_9" || resp.Amount != 50000 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if orders.req.Amount != 500 {
		t.Fatalf("unexpected forwarded amount %v", orders.req.Amount)
	}
}

func TestHandlerCreateOrderUpstreamFailure(t *testing.T) {
	h := NewHandler(&stubOrders{err: errors.New("down")}, NewVerifier(&stubGateway{}), logging.Discard())
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"amount":10}`)))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "RAZORPAY_ORDER_CREATION_FAILED") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestHandlerCreateOrderValidation(t *testing.T) {
	h := NewHandler(&stubOrders{}, NewVerifier(&stubGateway{}), logging.Discard())
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(`{"amount":0}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
