package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// RefundRequest errors.
var (
	ErrEmptyTransactionID  = errors.New("transaction id must not be empty")
	ErrInvalidRefundAmount = errors.New("refund amount must be positive")
)

// defaultRefundReason is used when no reason was supplied at all. An
// explicitly empty reason is preserved as empty.
const defaultRefundReason = "Donation refund requested"

// RefundRequest is an immutable, validated instruction to reverse a
// prior gateway transaction.
//
// AmountInCents truncates toward zero while Amount.ToCents rounds to
// nearest. Both behaviors are inherited from the reference system as-is
// pending product review, so do not unify them.
type RefundRequest struct {
	transactionID string
	amount        decimal.Decimal
	currency      string
	reason        *string
	metadata      map[string]any
}

// NewRefundRequest builds a refund instruction for a prior transaction.
func NewRefundRequest(transactionID string, amount float64, currency string, reason *string, metadata map[string]any) (RefundRequest, error) {
	if transactionID == "" {
		return RefundRequest{}, ErrEmptyTransactionID
	}
	value := decimal.NewFromFloat(amount)
	if !value.IsPositive() {
		return RefundRequest{}, fmt.Errorf("%w: %v", ErrInvalidRefundAmount, amount)
	}
	return RefundRequest{
		transactionID: transactionID,
		amount:        value,
		currency:      currency,
		reason:        reason,
		metadata:      copyMap(metadata),
	}, nil
}

// TransactionID returns the gateway transaction being reversed.
func (r RefundRequest) TransactionID() string {
	return r.transactionID
}

// Amount returns the refund amount.
func (r RefundRequest) Amount() float64 {
	return r.amount.InexactFloat64()
}

// Currency returns the refund currency.
func (r RefundRequest) Currency() string {
	return r.currency
}

// Reason returns the caller-supplied reason, or nil when absent.
func (r RefundRequest) Reason() *string {
	return r.reason
}

// Metadata returns a copy of the caller-supplied metadata.
func (r RefundRequest) Metadata() map[string]any {
	return copyMap(r.metadata)
}

// AmountInCents returns the refund amount in integer cents, truncated
// toward zero rather than rounded.
func (r RefundRequest) AmountInCents() int64 {
	return r.amount.Mul(decimal.NewFromInt(100)).Truncate(0).IntPart()
}

// FormattedReason returns the reason verbatim when one was supplied,
// including an explicitly empty one, and a fixed fallback otherwise.
func (r RefundRequest) FormattedReason() string {
	if r.reason != nil {
		return *r.reason
	}
	return defaultRefundReason
}

// EnrichedMetadata merges the caller metadata with computed refund
// keys. Computed keys win on collision.
func (r RefundRequest) EnrichedMetadata() map[string]any {
	enriched := copyMap(r.metadata)
	reason := "requested"
	if r.reason != nil {
		reason = *r.reason
	}
	enriched["refund_amount"] = r.amount.String()
	enriched["refund_currency"] = r.currency
	enriched["refund_reason"] = reason
	enriched["refund_timestamp"] = nowUTC().Format("2006-01-02T15:04:05.000Z")
	return enriched
}
