package provider

import (
	"context"

	"github.com/brightgive/server/internal/module/payment/domain"
)

// ChargeRequest describes a payment to collect from a gateway.
type ChargeRequest struct {
	DonationID  string
	AmountCents int64
	Currency    string
	Method      domain.PaymentMethod
	Description string
	ReturnURL   string
	Metadata    map[string]string
}

// Provider is a payment gateway adapter. Implementations normalize
// gateway responses into PaymentResult values.
type Provider interface {
	Name() string
	CreateCharge(ctx context.Context, req *ChargeRequest) (domain.PaymentResult, error)
	GetCharge(ctx context.Context, transactionID string) (domain.PaymentResult, error)
	Refund(ctx context.Context, req domain.RefundRequest) (domain.PaymentResult, error)
	VerifyWebhookSignature(payload []byte, signature string) error
}
