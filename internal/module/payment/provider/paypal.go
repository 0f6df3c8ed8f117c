package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-pay/gopay"
	"github.com/go-pay/gopay/paypal"
	"github.com/shopspring/decimal"

	"github.com/brightgive/server/internal/module/payment/domain"
)

// PayPalConfig holds PayPal configuration.
type PayPalConfig struct {
	ClientID      string
	Secret        string
	WebhookSecret string
	IsProd        bool
}

// PayPalProvider implements the Provider interface for PayPal orders.
type PayPalProvider struct {
	client        *paypal.Client
	webhookSecret string
}

// NewPayPalProvider creates a new PayPal provider.
func NewPayPalProvider(config *PayPalConfig) (*PayPalProvider, error) {
	client, err := paypal.NewClient(config.ClientID, config.Secret, config.IsProd)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	return &PayPalProvider{
		client:        client,
		webhookSecret: config.WebhookSecret,
	}, nil
}

// Name returns the provider name.
func (p *PayPalProvider) Name() string {
	return "paypal"
}

// CreateCharge creates a PayPal order for the donation.
func (p *PayPalProvider) CreateCharge(ctx context.Context, req *ChargeRequest) (domain.PaymentResult, error) {
	value := decimal.New(req.AmountCents, -2).StringFixed(2)

	bm := make(gopay.BodyMap)
	bm.Set("intent", "CAPTURE").
		Set("purchase_units", []map[string]any{
			{
				"reference_id": req.DonationID,
				"description":  req.Description,
				"amount": map[string]any{
					"currency_code": req.Currency,
					"value":         value,
				},
			},
		})
	if req.ReturnURL != "" {
		bm.Set("application_context", map[string]any{
			"return_url": req.ReturnURL,
		})
	}

	rsp, err := p.client.CreateOrder(ctx, bm)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("create paypal order: %w", err)
	}
	if rsp.Code != http.StatusCreated && rsp.Code != http.StatusOK {
		return paypalFailure(rsp.Code, rsp.Error), nil
	}

	status := domain.PaymentStatusFromPayPal(rsp.Response.Status)
	data := map[string]any{
		"transaction_id": rsp.Response.Id,
		"intent_id":      rsp.Response.Id,
		"status":         string(status),
		"currency":       req.Currency,
		"amount":         float64(req.AmountCents) / 100,
	}
	if approve := approvalLink(rsp.Response.Links); approve != "" {
		data["gateway_data"] = map[string]any{"approval_url": approve}
	}

	return domain.SuccessResult(data)
}

// GetCharge fetches the current state of a PayPal order.
func (p *PayPalProvider) GetCharge(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	rsp, err := p.client.OrderDetail(ctx, transactionID, nil)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("get paypal order: %w", err)
	}
	if rsp.Code != http.StatusOK {
		return domain.PaymentResult{}, fmt.Errorf("get paypal order: %s", rsp.Error)
	}

	status := domain.PaymentStatusFromPayPal(rsp.Response.Status)
	return domain.SuccessResult(map[string]any{
		"transaction_id": rsp.Response.Id,
		"intent_id":      rsp.Response.Id,
		"status":         string(status),
	})
}

// CaptureOrder captures an approved PayPal order.
func (p *PayPalProvider) CaptureOrder(ctx context.Context, orderID string) (domain.PaymentResult, error) {
	rsp, err := p.client.OrderCapture(ctx, orderID, nil)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("capture paypal order: %w", err)
	}
	if rsp.Code != http.StatusCreated && rsp.Code != http.StatusOK {
		return paypalFailure(rsp.Code, rsp.Error), nil
	}

	status := domain.PaymentStatusFromPayPal(rsp.Response.Status)
	return domain.SuccessResult(map[string]any{
		"transaction_id": rsp.Response.Id,
		"intent_id":      orderID,
		"status":         string(status),
	})
}

// Refund refunds a captured PayPal payment.
func (p *PayPalProvider) Refund(ctx context.Context, req domain.RefundRequest) (domain.PaymentResult, error) {
	value := decimal.New(req.AmountInCents(), -2).StringFixed(2)

	bm := make(gopay.BodyMap)
	bm.Set("amount", map[string]any{
		"currency_code": req.Currency(),
		"value":         value,
	}).Set("note_to_payer", req.FormattedReason())

	rsp, err := p.client.PaymentCaptureRefund(ctx, req.TransactionID(), bm)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("refund paypal capture: %w", err)
	}
	if rsp.Code != http.StatusCreated && rsp.Code != http.StatusOK {
		return paypalFailure(rsp.Code, rsp.Error), nil
	}

	return domain.SuccessResult(map[string]any{
		"transaction_id": rsp.Response.Id,
		"status":         string(domain.PaymentStatusRefunded),
		"gateway_data": map[string]any{
			"refund_status": rsp.Response.Status,
		},
	})
}

// VerifyWebhookSignature checks the transmission signature against the
// shared webhook secret.
func (p *PayPalProvider) VerifyWebhookSignature(payload []byte, signature string) error {
	if p.webhookSecret == "" {
		return errors.New("paypal webhook secret not configured")
	}
	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("invalid paypal webhook signature")
	}
	return nil
}

func approvalLink(links []*paypal.Link) string {
	for _, l := range links {
		if l != nil && l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

func paypalFailure(code int, message string) domain.PaymentResult {
	c := fmt.Sprintf("paypal_%d", code)
	return domain.FailureResult(message, &c, nil)
}
