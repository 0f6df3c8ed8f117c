package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_Predicates(t *testing.T) {
	tests := []struct {
		status        PaymentStatus
		successful    bool
		final         bool
		cancellable   bool
		refundable    bool
		requiresInput bool
	}{
		{PaymentStatusPending, false, false, true, false, false},
		{PaymentStatusProcessing, false, false, false, false, false},
		{PaymentStatusRequiresAction, false, false, true, false, true},
		{PaymentStatusCompleted, true, true, false, true, false},
		{PaymentStatusFailed, false, true, false, false, false},
		{PaymentStatusCancelled, false, true, false, false, false},
		{PaymentStatusRefunded, false, true, false, false, false},
		{PaymentStatusPartiallyRefunded, false, false, false, true, false},
		{PaymentStatusSucceeded, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.successful, tt.status.IsSuccessful())
			assert.Equal(t, tt.final, tt.status.IsFinal())
			assert.Equal(t, tt.cancellable, tt.status.CanBeCancelled())
			assert.Equal(t, tt.refundable, tt.status.CanBeRefunded())
			assert.Equal(t, tt.requiresInput, tt.status.RequiresUserAction())
		})
	}
}

func TestPaymentStatusFromStripe(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentStatus
	}{
		{"requires_payment_method", PaymentStatusPending},
		{"requires_confirmation", PaymentStatusPending},
		{"requires_action", PaymentStatusRequiresAction},
		{"processing", PaymentStatusProcessing},
		{"requires_capture", PaymentStatusProcessing},
		{"succeeded", PaymentStatusCompleted},
		{"canceled", PaymentStatusCancelled},
		// Matching is exact: unknown, cased and padded input all fail.
		{"unknown", PaymentStatusFailed},
		{"SUCCEEDED", PaymentStatusFailed},
		{" succeeded ", PaymentStatusFailed},
		{"", PaymentStatusFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentStatusFromStripe(tt.input), "input %q", tt.input)
	}
}

func TestPaymentStatusFromPayPal(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentStatus
	}{
		{"CREATED", PaymentStatusPending},
		{"SAVED", PaymentStatusPending},
		{"APPROVED", PaymentStatusRequiresAction},
		{"COMPLETED", PaymentStatusCompleted},
		{"completed", PaymentStatusCompleted}, // case-insensitive
		{"Cancelled", PaymentStatusCancelled},
		{"VOIDED", PaymentStatusCancelled},
		{"FAILED", PaymentStatusFailed},
		{"DENIED", PaymentStatusFailed},
		{"REVERSED", PaymentStatusFailed},
		{"", PaymentStatusFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentStatusFromPayPal(tt.input), "input %q", tt.input)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := ParsePaymentStatus("partially_refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPartiallyRefunded, status)

	_, err = ParsePaymentStatus("unknown")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	_, err = ParsePaymentStatus("Completed")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	_, ok := TryParsePaymentStatus("completed")
	assert.True(t, ok)

	_, ok = TryParsePaymentStatus("paid")
	assert.False(t, ok)
}
