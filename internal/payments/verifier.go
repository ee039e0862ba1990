// Package payments verifies Razorpay checkouts and creates gateway orders.
package payments

import (
	"context"
	"errors"
	"fmt"
)

const DefaultCurrency = "INR"

var (
	// ErrSignatureMismatch is the gateway's "invalid signature" result.
	ErrSignatureMismatch    = errors.New("payments: signature mismatch")
	ErrGatewayNotConfigured = errors.New("payments: gateway not configured")
	ErrInvalidAmount        = errors.New("payments: amount must be positive")
)

// InvalidSignatureReason is reported to callers when a signature does not match.
const InvalidSignatureReason = "Invalid payment signature"

// Gateway checks a checkout signature. It returns nil when valid,
// ErrSignatureMismatch when invalid, and any other error on failure.
type Gateway interface {
	VerifySignature(ctx context.Context, orderID, paymentID, signature string) error
}

// Attestation is the proof a checkout returns to the client.
type Attestation struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// Verification is the outcome of a signature check. Verified=false is a
// normal result; faults come back as errors instead.
type Verification struct {
	Verified bool
	Reason   string
}

// Verifier adapts a Gateway to the verified/reason contract.
type Verifier struct {
	gateway Gateway
}

func NewVerifier(gateway Gateway) *Verifier {
	if gateway == nil {
		panic("payments: gateway required")
	}
	return &Verifier{gateway: gateway}
}

// Verify checks att against the gateway.
func (v *Verifier) Verify(ctx context.Context, att Attestation) (Verification, error) {
	err := v.gateway.VerifySignature(ctx, att.OrderID, att.PaymentID, att.Signature)
	switch {
	case err == nil:
		return Verification{Verified: true}, nil
	case errors.Is(err, ErrSignatureMismatch):
		return Verification{Verified: false, Reason: InvalidSignatureReason}, nil
	default:
		return Verification{}, fmt.Errorf("payments: verify %s: %w", att.OrderID, err)
	}
}
