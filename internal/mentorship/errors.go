package mentorship

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentRejected marks a signature that did not verify.
	ErrPaymentRejected = errors.New("mentorship: payment rejected")
	// ErrVerificationFailed marks a gateway fault during verification.
	ErrVerificationFailed = errors.New("mentorship: payment verification failed")
	// ErrSchedulingFailed marks a calendar fault other than a conflict.
	ErrSchedulingFailed = errors.New("mentorship: scheduling failed")
	// ErrPersistFailed marks a failed insert after the event was created.
	ErrPersistFailed = errors.New("mentorship: persist failed")
	// ErrInvalidRequest marks a booking request the service cannot act on.
	ErrInvalidRequest = errors.New("mentorship: invalid request")
)

// RejectionError is a client-facing refusal: the request was well formed
// but cannot be honored. Reason is safe to show to the caller.
type RejectionError struct {
	Reason string
	Err    error
}

func (e *RejectionError) Error() string { return e.Reason }

func (e *RejectionError) Unwrap() error { return e.Err }

func paymentRejection(reason string) *RejectionError {
	return &RejectionError{
		Reason: fmt.Sprintf("Payment verification failed: %s", reason),
		Err:    ErrPaymentRejected,
	}
}
