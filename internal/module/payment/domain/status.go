package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPaymentStatus is returned when parsing an unknown payment status.
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// PaymentStatus is the normalized payment lifecycle state. Gateway
// vocabularies (Stripe, PayPal) are mapped into this set by the
// adapters below.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusRequiresAction    PaymentStatus = "requires_action"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusSucceeded         PaymentStatus = "succeeded"
)

// ParsePaymentStatus parses a payment status string. Matching is exact.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
	return status, nil
}

// TryParsePaymentStatus parses a payment status string, reporting
// success instead of failing on unknown values.
func TryParsePaymentStatus(s string) (PaymentStatus, bool) {
	status := PaymentStatus(s)
	return status, status.IsValid()
}

// IsValid checks if the status is part of the normalized set.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusRequiresAction,
		PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded, PaymentStatusSucceeded:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsSuccessful checks if the payment has completed successfully.
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentStatusCompleted
}

// IsFinal checks if the status is terminal.
func (s PaymentStatus) IsFinal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanBeCancelled checks if the payment can still be cancelled.
func (s PaymentStatus) CanBeCancelled() bool {
	return s == PaymentStatusPending || s == PaymentStatusRequiresAction
}

// CanBeRefunded checks if the payment can be (further) refunded.
func (s PaymentStatus) CanBeRefunded() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPartiallyRefunded
}

// RequiresUserAction checks if the donor must act to continue the payment.
func (s PaymentStatus) RequiresUserAction() bool {
	return s == PaymentStatusRequiresAction
}

// PaymentStatusFromStripe normalizes a Stripe payment intent status.
// Matching is exact: case variants and padded input fall through to
// failed, the default for anything unrecognized.
func PaymentStatusFromStripe(status string) PaymentStatus {
	switch status {
	case "requires_payment_method", "requires_confirmation":
		return PaymentStatusPending
	case "requires_action":
		return PaymentStatusRequiresAction
	case "processing", "requires_capture":
		return PaymentStatusProcessing
	case "succeeded":
		return PaymentStatusCompleted
	case "canceled":
		return PaymentStatusCancelled
	default:
		return PaymentStatusFailed
	}
}

// PaymentStatusFromPayPal normalizes a PayPal order status. Matching is
// case-insensitive; anything unrecognized maps to failed.
func PaymentStatusFromPayPal(status string) PaymentStatus {
	switch strings.ToUpper(status) {
	case "CREATED", "SAVED":
		return PaymentStatusPending
	case "APPROVED":
		return PaymentStatusRequiresAction
	case "COMPLETED":
		return PaymentStatusCompleted
	case "CANCELLED", "VOIDED":
		return PaymentStatusCancelled
	case "FAILED", "DENIED":
		return PaymentStatusFailed
	default:
		return PaymentStatusFailed
	}
}
