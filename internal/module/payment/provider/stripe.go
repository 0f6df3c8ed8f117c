package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/brightgive/server/internal/module/payment/domain"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
}

// StripeProvider implements the Provider interface for Stripe. It
// covers card, iDEAL, Bancontact and SOFORT payments.
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider creates a new Stripe provider.
func NewStripeProvider(config *StripeConfig) *StripeProvider {
	stripe.Key = config.APIKey
	return &StripeProvider{
		webhookSecret: config.WebhookSecret,
	}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateCharge creates a PaymentIntent for the donation.
func (p *StripeProvider) CreateCharge(ctx context.Context, req *ChargeRequest) (domain.PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx

	if types := stripeMethodTypes(req.Method); len(types) > 0 {
		params.PaymentMethodTypes = stripe.StringSlice(types)
	} else {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		}
	}

	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata)+1)
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	} else {
		params.Metadata = make(map[string]string, 1)
	}
	params.Metadata["donation_id"] = req.DonationID

	pi, err := paymentintent.New(params)
	if err != nil {
		return stripeFailure("create payment intent", err)
	}

	return resultFromIntent(pi)
}

// GetCharge fetches the current state of a PaymentIntent.
func (p *StripeProvider) GetCharge(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(transactionID, params)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("get payment intent: %w", err)
	}
	return resultFromIntent(pi)
}

// Refund issues a refund against a PaymentIntent.
func (p *StripeProvider) Refund(ctx context.Context, req domain.RefundRequest) (domain.PaymentResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.TransactionID()),
		Amount:        stripe.Int64(req.AmountInCents()),
	}
	params.Context = ctx

	metadata := req.EnrichedMetadata()
	params.Metadata = make(map[string]string, len(metadata))
	for k, v := range metadata {
		if s, ok := v.(string); ok {
			params.Metadata[k] = s
		}
	}

	r, err := refund.New(params)
	if err != nil {
		return stripeFailure("create refund", err)
	}

	status := "completed"
	if r.Status == stripe.RefundStatusPending {
		status = "processing"
	}

	return domain.SuccessResult(map[string]any{
		"transaction_id": r.ID,
		"status":         status,
		"amount":         float64(r.Amount) / 100,
		"currency":       string(r.Currency),
		"gateway_data": map[string]any{
			"refund_status": string(r.Status),
		},
	})
}

// VerifyWebhookSignature checks the Stripe-Signature header against the
// endpoint secret.
func (p *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	_, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	return err
}

// stripeMethodTypes maps a payment method to the Stripe payment method
// types to request. An empty slice means let Stripe decide.
func stripeMethodTypes(method domain.PaymentMethod) []string {
	switch method {
	case domain.MethodCard, domain.MethodCreditCard:
		return []string{"card"}
	case domain.MethodIDEAL:
		return []string{"ideal"}
	case domain.MethodBancontact:
		return []string{"bancontact"}
	case domain.MethodSofort:
		return []string{"sofort"}
	default:
		return nil
	}
}

func resultFromIntent(pi *stripe.PaymentIntent) (domain.PaymentResult, error) {
	status := domain.PaymentStatusFromStripe(string(pi.Status))

	data := map[string]any{
		"transaction_id": pi.ID,
		"intent_id":      pi.ID,
		"client_secret":  pi.ClientSecret,
		"status":         string(status),
		"amount":         float64(pi.Amount) / 100,
		"currency":       string(pi.Currency),
	}

	if status == domain.PaymentStatusFailed {
		var code *string
		msg := "payment failed"
		if pi.LastPaymentError != nil {
			msg = pi.LastPaymentError.Msg
			c := string(pi.LastPaymentError.Code)
			code = &c
		}
		return domain.FailureResult(msg, code, data), nil
	}

	// The gateway call itself succeeded; the status carries how far the
	// payment has progressed (pending, requires_action, completed, ...).
	return domain.SuccessResult(data)
}

// stripeFailure turns a Stripe API rejection into a failed result.
// Anything that is not a stripe.Error is a transport problem and is
// returned as an error so the circuit breaker sees it.
func stripeFailure(op string, err error) (domain.PaymentResult, error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code := string(stripeErr.Code)
		return domain.FailureResult(stripeErr.Msg, &code, map[string]any{
			"request_id": stripeErr.RequestID,
		}), nil
	}
	return domain.PaymentResult{}, fmt.Errorf("%s: %w", op, err)
}
