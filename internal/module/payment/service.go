package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/module/payment/provider"
	"github.com/brightgive/server/internal/shared/metrics"
)

// StatusListener is notified whenever a payment reaches a new status.
// The donation service implements it to keep donations in sync.
type StatusListener interface {
	OnPaymentStatusChanged(ctx context.Context, payment *Payment, result domain.PaymentResult) error
}

// ChargeParams describes a charge to collect for a donation.
type ChargeParams struct {
	DonationID  uuid.UUID
	Amount      domain.Amount
	Method      domain.PaymentMethod
	Description string
	ReturnURL   string
	Metadata    map[string]string
}

// Service implements payment operations.
type Service struct {
	repo      Repository
	registry  *ProviderRegistry
	metrics   *metrics.Metrics
	logger    *zap.Logger
	listeners []StatusListener
}

// NewService creates a new payment service.
func NewService(repo Repository, registry *ProviderRegistry, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// RegisterListener subscribes a listener to payment status changes.
// Must be called during wiring, before the service handles requests.
func (s *Service) RegisterListener(l StatusListener) {
	s.listeners = append(s.listeners, l)
}

// Charge collects a payment for a donation. Manual methods create a
// pending payment without touching any gateway; gateway methods route
// through the provider registry.
func (s *Service) Charge(ctx context.Context, params *ChargeParams) (*Payment, domain.PaymentResult, error) {
	gateway := params.Method.Gateway()

	payment := &Payment{
		DonationID: params.DonationID,
		Gateway:    gateway,
		Method:     params.Method,
		Status:     domain.PaymentStatusPending,
		Amount:     decimal.RequireFromString(params.Amount.ToDecimalString()),
		Currency:   string(params.Amount.Currency()),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, domain.PaymentResult{}, fmt.Errorf("create payment: %w", err)
	}

	if params.Method.IsManual() {
		result, err := domain.PendingResult(map[string]any{
			"transaction_id": payment.ID.String(),
			"amount":         params.Amount.Value(),
			"currency":       string(params.Amount.Currency()),
		})
		if err != nil {
			return nil, domain.PaymentResult{}, err
		}
		s.notify(ctx, payment, result)
		return payment, result, nil
	}

	p, err := s.registry.Get(gateway)
	if err != nil {
		return nil, domain.PaymentResult{}, err
	}

	req := &provider.ChargeRequest{
		DonationID:  params.DonationID.String(),
		AmountCents: params.Amount.ToCents(),
		Currency:    string(params.Amount.Currency()),
		Method:      params.Method,
		Description: params.Description,
		ReturnURL:   params.ReturnURL,
		Metadata:    params.Metadata,
	}

	start := time.Now()
	result, err := p.CreateCharge(ctx, req)
	s.metrics.RecordGatewayRequest(gateway, "charge", gatewayOutcome(result, err), time.Since(start))
	if err != nil {
		s.logger.Error("gateway charge failed",
			zap.String("gateway", gateway),
			zap.String("donation_id", params.DonationID.String()),
			zap.Error(err))
		return nil, domain.PaymentResult{}, fmt.Errorf("gateway charge: %w", err)
	}

	payment.ApplyResult(result)
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, domain.PaymentResult{}, fmt.Errorf("update payment: %w", err)
	}

	s.notify(ctx, payment, result)
	return payment, result, nil
}

// Get returns a payment by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

// ListByDonation returns all payments for a donation, newest first.
func (s *Service) ListByDonation(ctx context.Context, donationID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListByDonation(ctx, donationID)
}

// Sync re-fetches the gateway state of a payment and applies it.
func (s *Service) Sync(ctx context.Context, id uuid.UUID) (*Payment, error) {
	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.TransactionID == nil || payment.Method.IsManual() {
		return payment, nil
	}

	p, err := s.registry.Get(payment.Gateway)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := p.GetCharge(ctx, *payment.TransactionID)
	s.metrics.RecordGatewayRequest(payment.Gateway, "sync", gatewayOutcome(result, err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("sync payment: %w", err)
	}

	return payment, s.applyAndNotify(ctx, payment, result)
}

// Refund reverses part or all of a completed payment.
func (s *Service) Refund(ctx context.Context, id uuid.UUID, amount float64, reason *string, metadata map[string]any) (*Payment, error) {
	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanBeRefunded() {
		return nil, ErrNotRefundable
	}
	if payment.TransactionID == nil {
		return nil, ErrNotRefundable
	}

	req, err := domain.NewRefundRequest(*payment.TransactionID, amount, payment.Currency, reason, metadata)
	if err != nil {
		return nil, err
	}
	if req.AmountInCents() > payment.RemainingCents() {
		return nil, ErrRefundExceedsCharge
	}

	p, err := s.registry.Get(payment.Gateway)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := p.Refund(ctx, req)
	s.metrics.RecordGatewayRequest(payment.Gateway, "refund", gatewayOutcome(result, err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("gateway refund: %w", err)
	}
	if result.HasFailed() {
		s.logger.Warn("gateway declined refund",
			zap.String("payment_id", payment.ID.String()),
			zap.Stringp("error_code", result.ErrorCode()))
		return nil, fmt.Errorf("%w: %s", ErrNotRefundable, derefOr(result.ErrorMessage(), "gateway declined"))
	}

	payment.RefundedCents += req.AmountInCents()
	if payment.RemainingCents() <= 0 {
		payment.Status = domain.PaymentStatusRefunded
	} else {
		payment.Status = domain.PaymentStatusPartiallyRefunded
	}
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	s.notify(ctx, payment, result)
	return payment, nil
}

// ProcessGatewayUpdate locates a payment by its gateway transaction or
// intent ID and applies the normalized result. Unknown transactions are
// logged and ignored so gateways do not retry forever.
func (s *Service) ProcessGatewayUpdate(ctx context.Context, gateway, transactionID string, result domain.PaymentResult) error {
	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if errors.Is(err, ErrPaymentNotFound) {
		payment, err = s.repo.GetByIntentID(ctx, transactionID)
	}
	if errors.Is(err, ErrPaymentNotFound) {
		s.logger.Warn("gateway update for unknown payment",
			zap.String("gateway", gateway),
			zap.String("transaction_id", transactionID))
		return nil
	}
	if err != nil {
		return err
	}
	if payment.Gateway != gateway {
		s.logger.Warn("gateway mismatch on update",
			zap.String("expected", payment.Gateway),
			zap.String("got", gateway))
		return nil
	}
	return s.applyAndNotify(ctx, payment, result)
}

// VerifyWebhookSignature verifies a webhook payload for a gateway.
func (s *Service) VerifyWebhookSignature(gateway string, payload []byte, signature string) error {
	p, err := s.registry.Get(gateway)
	if err != nil {
		return err
	}
	if err := p.VerifyWebhookSignature(payload, signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	return nil
}

// EnsureNewWebhookEvent returns ErrDuplicateWebhook when the gateway
// event was already handled.
func (s *Service) EnsureNewWebhookEvent(ctx context.Context, gateway, eventID string) error {
	exists, err := s.repo.WebhookEventExists(ctx, gateway, eventID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateWebhook
	}
	return nil
}

// RecordWebhookEvent stores a handled gateway event for idempotency.
func (s *Service) RecordWebhookEvent(ctx context.Context, gateway, eventID, eventType, payload string) error {
	return s.repo.RecordWebhookEvent(ctx, &WebhookEvent{
		Gateway:     gateway,
		EventID:     eventID,
		EventType:   eventType,
		Payload:     payload,
		ProcessedAt: time.Now().UTC(),
	})
}

// applyAndNotify applies a gateway result, persists the payment and
// informs listeners when the status changed.
func (s *Service) applyAndNotify(ctx context.Context, payment *Payment, result domain.PaymentResult) error {
	previous := payment.Status
	payment.ApplyResult(result)
	if payment.Status == previous {
		return nil
	}
	if err := s.repo.Update(ctx, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	s.notify(ctx, payment, result)
	return nil
}

func (s *Service) notify(ctx context.Context, payment *Payment, result domain.PaymentResult) {
	for _, l := range s.listeners {
		if err := l.OnPaymentStatusChanged(ctx, payment, result); err != nil {
			s.logger.Error("payment status listener failed",
				zap.String("payment_id", payment.ID.String()),
				zap.String("status", string(payment.Status)),
				zap.Error(err))
		}
	}
}

func gatewayOutcome(result domain.PaymentResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case result.HasFailed():
		return "declined"
	default:
		return "ok"
	}
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
