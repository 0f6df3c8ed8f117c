package payment

import "errors"

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrGatewayNotConfigured = errors.New("gateway not configured")
	ErrManualMethod         = errors.New("payment method is settled manually and has no gateway")
	ErrNotRefundable        = errors.New("payment cannot be refunded in its current state")
	ErrRefundExceedsCharge  = errors.New("refund amount exceeds the remaining charged amount")
	ErrInvalidWebhook       = errors.New("webhook payload could not be verified")
	ErrDuplicateWebhook     = errors.New("webhook event already processed")
)
