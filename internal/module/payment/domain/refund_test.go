package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefundRequest_Validation(t *testing.T) {
	_, err := NewRefundRequest("", 10, "EUR", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTransactionID)

	_, err = NewRefundRequest("txn_1", 0, "EUR", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRefundAmount)

	_, err = NewRefundRequest("txn_1", -5, "EUR", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRefundAmount)

	r, err := NewRefundRequest("txn_1", 25.50, "EUR", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "txn_1", r.TransactionID())
	assert.InDelta(t, 25.50, r.Amount(), 0.0001)
	assert.Equal(t, "EUR", r.Currency())
}

func TestRefundRequest_AmountInCents_Truncates(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{10.999, 1099}, // truncated, not rounded to 1100
		{10.995, 1099},
		{10.50, 1050},
		{0.019, 1},
		{100, 10000},
	}

	for _, tt := range tests {
		r, err := NewRefundRequest("txn_1", tt.amount, "EUR", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r.AmountInCents(), "amount %v", tt.amount)
	}
}

func TestRefundRequest_FormattedReason(t *testing.T) {
	r, err := NewRefundRequest("txn_1", 10, "EUR", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Donation refund requested", r.FormattedReason())

	reason := "duplicate charge"
	r, err = NewRefundRequest("txn_1", 10, "EUR", &reason, nil)
	require.NoError(t, err)
	assert.Equal(t, "duplicate charge", r.FormattedReason())

	// An explicitly empty reason is preserved, not replaced.
	empty := ""
	r, err = NewRefundRequest("txn_1", 10, "EUR", &empty, nil)
	require.NoError(t, err)
	assert.Equal(t, "", r.FormattedReason())
}

func TestRefundRequest_EnrichedMetadata(t *testing.T) {
	fixed := time.Date(2026, 3, 15, 12, 30, 45, 123000000, time.UTC)
	withFixedClock(t, fixed)

	reason := "donor request"
	r, err := NewRefundRequest("txn_1", 10.999, "EUR", &reason, map[string]any{
		"campaign_id":   "42",
		"refund_reason": "should be overridden",
	})
	require.NoError(t, err)

	enriched := r.EnrichedMetadata()
	assert.Equal(t, "10.999", enriched["refund_amount"])
	assert.Equal(t, "EUR", enriched["refund_currency"])
	assert.Equal(t, "donor request", enriched["refund_reason"])
	assert.Equal(t, "2026-03-15T12:30:45.123Z", enriched["refund_timestamp"])
	assert.Equal(t, "42", enriched["campaign_id"])
}

func TestRefundRequest_EnrichedMetadata_ReasonFallback(t *testing.T) {
	r, err := NewRefundRequest("txn_1", 10, "EUR", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "requested", r.EnrichedMetadata()["refund_reason"])

	// Unlike FormattedReason, an empty reason is kept empty here too.
	empty := ""
	r, err = NewRefundRequest("txn_1", 10, "EUR", &empty, nil)
	require.NoError(t, err)
	assert.Equal(t, "", r.EnrichedMetadata()["refund_reason"])
}

func TestRefundRequest_MetadataIsCopied(t *testing.T) {
	meta := map[string]any{"k": "v"}
	r, err := NewRefundRequest("txn_1", 10, "EUR", nil, meta)
	require.NoError(t, err)

	meta["k"] = "mutated"
	assert.Equal(t, "v", r.Metadata()["k"])
}
