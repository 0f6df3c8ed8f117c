package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowUTC
	nowUTC = func() time.Time { return at }
	t.Cleanup(func() { nowUTC = prev })
}

func TestSuccessResult(t *testing.T) {
	r, err := SuccessResult(map[string]any{
		"transaction_id": "ch_123",
		"intent_id":      "pi_456",
		"client_secret":  "pi_456_secret",
		"status":         "completed",
		"amount":         25.00,
		"currency":       "EUR",
		"gateway_data":   map[string]any{"balance_txn": "txn_789"},
	})
	require.NoError(t, err)

	assert.True(t, r.IsSuccessful())
	assert.False(t, r.HasFailed())
	assert.False(t, r.IsPending())
	assert.False(t, r.RequiresAction())
	assert.Equal(t, "ch_123", *r.TransactionID())
	assert.Equal(t, "pi_456", *r.IntentID())
	assert.Equal(t, PaymentStatusCompleted, *r.Status())
	assert.InDelta(t, 25.00, *r.Amount(), 0.0001)
	assert.Equal(t, "txn_789", r.GatewayData()["balance_txn"])
}

func TestSuccessResult_EmptyData(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	withFixedClock(t, fixed)

	r, err := SuccessResult(nil)
	require.NoError(t, err)

	assert.True(t, r.IsSuccessful())
	assert.Nil(t, r.Status())
	assert.Nil(t, r.TransactionID())
	assert.Nil(t, r.ErrorMessage())
	assert.Equal(t, fixed, r.ProcessedAt())
}

func TestSuccessResult_InvalidStatus(t *testing.T) {
	_, err := SuccessResult(map[string]any{"status": "paid_in_full"})
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestFailureResult(t *testing.T) {
	code := "card_declined"
	r := FailureResult("Your card was declined", &code, map[string]any{"decline_code": "insufficient_funds"})

	assert.False(t, r.IsSuccessful())
	assert.True(t, r.HasFailed())
	assert.Equal(t, PaymentStatusFailed, *r.Status())
	assert.Equal(t, "Your card was declined", *r.ErrorMessage())
	assert.Equal(t, "card_declined", *r.ErrorCode())
	assert.Equal(t, "insufficient_funds", r.GatewayData()["decline_code"])
}

func TestFailureResult_EmptyMessagePreserved(t *testing.T) {
	r := FailureResult("", nil, nil)

	require.NotNil(t, r.ErrorMessage())
	assert.Equal(t, "", *r.ErrorMessage())
	assert.Nil(t, r.ErrorCode())
	assert.True(t, r.HasFailed())
}

func TestPendingResult(t *testing.T) {
	r, err := PendingResult(map[string]any{
		"intent_id":     "pi_123",
		"client_secret": "pi_123_secret",
	})
	require.NoError(t, err)

	assert.False(t, r.IsSuccessful())
	assert.True(t, r.IsPending())
	assert.False(t, r.HasFailed())
	assert.Equal(t, PaymentStatusPending, *r.Status())
	assert.Equal(t, "pi_123_secret", *r.ClientSecret())
}

func TestPendingResult_StatusAlwaysPending(t *testing.T) {
	// A status in the data is overridden by the factory.
	r, err := PendingResult(map[string]any{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPending, *r.Status())
}

func TestPaymentResult_RequiresAction(t *testing.T) {
	r, err := SuccessResult(map[string]any{"status": "requires_action"})
	require.NoError(t, err)
	assert.True(t, r.RequiresAction())
}

func TestPaymentResult_ProcessedAtFromData(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r, err := SuccessResult(map[string]any{"processed_at": at})
	require.NoError(t, err)
	assert.Equal(t, at, r.ProcessedAt())
}

func TestPaymentResult_ToMap(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)
	withFixedClock(t, fixed)

	r, err := SuccessResult(map[string]any{
		"transaction_id": "ch_123",
		"status":         "completed",
		"amount":         50.0,
		"currency":       "USD",
	})
	require.NoError(t, err)

	m := r.ToMap()
	assert.Equal(t, true, m["successful"])
	assert.Equal(t, "ch_123", m["transaction_id"])
	assert.Equal(t, "completed", m["status"])
	assert.Equal(t, 50.0, m["amount"])
	assert.Equal(t, "USD", m["currency"])
	assert.Nil(t, m["error_message"])
	assert.Equal(t, "2026-03-15T12:30:45Z", m["processed_at"])
}

func TestPaymentResult_GatewayDataIsCopied(t *testing.T) {
	data := map[string]any{"gateway_data": map[string]any{"k": "v"}}
	r, err := SuccessResult(data)
	require.NoError(t, err)

	got := r.GatewayData()
	got["k"] = "mutated"
	assert.Equal(t, "v", r.GatewayData()["k"])
}
