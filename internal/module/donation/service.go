package donation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/campaign"
	"github.com/brightgive/server/internal/module/donation/domain"
	"github.com/brightgive/server/internal/module/payment"
	paydomain "github.com/brightgive/server/internal/module/payment/domain"
	"github.com/brightgive/server/internal/shared/config"
	"github.com/brightgive/server/internal/shared/metrics"
)

// ReceiptIssuer generates a tax receipt for a completed donation and
// returns the storage key it was written under.
type ReceiptIssuer interface {
	IssueTaxReceipt(ctx context.Context, d *Donation) (string, error)
}

// CampaignDirectory exposes the campaign operations donations need.
// The campaign service satisfies it.
type CampaignDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	InvalidateTotals(ctx context.Context, id uuid.UUID)
}

// PaymentCollector collects and reverses payments for donations. The
// payment service satisfies it.
type PaymentCollector interface {
	Charge(ctx context.Context, params *payment.ChargeParams) (*payment.Payment, paydomain.PaymentResult, error)
	Refund(ctx context.Context, id uuid.UUID, amount float64, reason *string, metadata map[string]any) (*payment.Payment, error)
}

// Service implements donation operations. It also listens for payment
// status changes and advances the donation state machine accordingly.
type Service struct {
	repo      Repository
	campaigns CampaignDirectory
	payments  PaymentCollector
	receipts  ReceiptIssuer
	cfg       *config.DonationConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a new donation service.
func NewService(
	repo Repository,
	campaigns CampaignDirectory,
	payments PaymentCollector,
	receipts ReceiptIssuer,
	cfg *config.DonationConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		campaigns: campaigns,
		payments:  payments,
		receipts:  receipts,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
	}
}

// Create validates and records a donation, then collects its payment.
func (s *Service) Create(ctx context.Context, donorID uuid.UUID, req *CreateDonationRequest) (*DonationResponse, error) {
	cmp, err := s.campaigns.Get(ctx, req.CampaignID)
	if err != nil {
		return nil, ErrCampaignNotFound
	}
	if !cmp.IsActive() {
		return nil, ErrCampaignNotActive
	}

	amount, err := paydomain.AmountFromString(req.Amount, paydomain.Currency(cmp.Currency))
	if err != nil {
		return nil, err
	}
	if !amount.IsValidDonationAmount() {
		return nil, ErrAmountOutOfRange
	}

	method, err := paydomain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !method.SupportsCurrency(cmp.Currency) {
		return nil, ErrUnsupportedCurrency
	}
	if amount.Value() < method.MinimumAmount(cmp.Currency) {
		return nil, ErrBelowMethodMinimum
	}

	d := &Donation{
		DonorID:       donorID,
		CampaignID:    cmp.ID,
		Amount:        decimal.RequireFromString(amount.ToDecimalString()),
		Currency:      cmp.Currency,
		Status:        domain.StatusPending,
		PaymentMethod: method,
		Message:       req.Message,
		Anonymous:     req.Anonymous,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	pay, result, err := s.payments.Charge(ctx, &payment.ChargeParams{
		DonationID:  d.ID,
		Amount:      amount,
		Method:      method,
		Description: fmt.Sprintf("Donation to %s", cmp.Title),
		ReturnURL:   req.ReturnURL,
		Metadata:    map[string]string{"campaign_id": cmp.ID.String()},
	})
	if err != nil {
		return nil, err
	}

	// Listener callbacks during Charge may already have advanced the
	// row; re-read before attaching the payment so the transition is
	// not overwritten by this stale struct.
	d, err = s.repo.Get(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.PaymentID = &pay.ID
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("link payment: %w", err)
	}

	impact, err := s.estimateImpact(amount, cmp)
	if err != nil {
		s.logger.Warn("impact estimation failed",
			zap.String("donation_id", d.ID.String()),
			zap.Error(err))
	}

	return &DonationResponse{
		Donation:     d,
		Payment:      pay,
		ClientSecret: result.ClientSecret(),
		NextAction:   nextAction(result),
		Impact:       impact,
	}, nil
}

// Get returns a donation by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	return s.repo.Get(ctx, id)
}

// List returns donations matching the filter.
func (s *Service) List(ctx context.Context, filter *DonationFilter, pagination *Pagination) ([]*Donation, int64, error) {
	return s.repo.List(ctx, filter, pagination)
}

// UpdateMessage changes the donor message while the donation is still
// mutable: up to an hour while pending, ten minutes while processing.
func (s *Service) UpdateMessage(ctx context.Context, donorID, id uuid.UUID, message *string) (*Donation, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.DonorID != donorID {
		return nil, ErrNotDonationOwner
	}
	if !d.Status.CanChangeWithinTime(d.AgeMinutes()) {
		return nil, ErrDonationImmutable
	}

	d.Message = message
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update donation: %w", err)
	}
	return d, nil
}

// Cancel cancels a donation that has not completed yet.
func (s *Service) Cancel(ctx context.Context, donorID, id uuid.UUID) (*Donation, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.DonorID != donorID {
		return nil, ErrNotDonationOwner
	}
	if !d.Status.CanBeCancelled() {
		return nil, transitionError(d.Status, domain.StatusCancelled)
	}
	return d, s.transition(ctx, d, domain.StatusCancelled)
}

// Refund reverses a completed donation through its payment.
func (s *Service) Refund(ctx context.Context, id uuid.UUID, reason *string) (*Donation, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == domain.StatusRefunded {
		return nil, ErrAlreadyRefunded
	}
	if !d.Status.CanBeRefunded() {
		return nil, ErrRefundNotAllowed
	}
	if d.PaymentID == nil {
		return nil, ErrMissingPaymentRecord
	}

	if _, err := s.payments.Refund(ctx, *d.PaymentID, d.Amount.InexactFloat64(), reason, map[string]any{
		"donation_id": d.ID.String(),
		"campaign_id": d.CampaignID.String(),
	}); err != nil {
		return nil, err
	}

	// The payment listener marks the donation refunded; re-read so the
	// caller sees the final row.
	return s.repo.Get(ctx, id)
}

// OnPaymentStatusChanged advances the donation attached to a payment.
// It implements payment.StatusListener.
func (s *Service) OnPaymentStatusChanged(ctx context.Context, pay *payment.Payment, result paydomain.PaymentResult) error {
	d, err := s.repo.Get(ctx, pay.DonationID)
	if err != nil {
		return err
	}

	target, ok := donationStatusFor(pay.Status)
	if !ok || d.Status == target {
		return nil
	}

	// Instant methods report completion while the donation is still
	// pending; walk it through processing first.
	if target == domain.StatusCompleted && d.Status == domain.StatusPending {
		if err := s.transition(ctx, d, domain.StatusProcessing); err != nil {
			return err
		}
	}

	if !d.Status.ValidateTransition(target) {
		s.logger.Warn("skipping payment-driven transition",
			zap.String("donation_id", d.ID.String()),
			zap.String("from", string(d.Status)),
			zap.String("to", string(target)))
		return nil
	}
	return s.transition(ctx, d, target)
}

// transition moves a donation to the target status and runs the side
// effects tied to it.
func (s *Service) transition(ctx context.Context, d *Donation, target domain.DonationStatus) error {
	if !d.Status.ValidateTransition(target) {
		return transitionError(d.Status, target)
	}

	previous := d.Status
	d.Status = target
	now := time.Now().UTC()

	switch target {
	case domain.StatusCompleted:
		d.CompletedAt = &now
	case domain.StatusRefunded:
		d.RefundedAt = &now
	}

	if err := s.repo.Update(ctx, d); err != nil {
		d.Status = previous
		return fmt.Errorf("update donation: %w", err)
	}

	cents := d.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	s.metrics.RecordDonation(string(target), d.Currency, cents)

	if target.AffectsCampaignTotal() || previous.AffectsCampaignTotal() {
		s.campaigns.InvalidateTotals(ctx, d.CampaignID)
	}

	if target == domain.StatusCompleted {
		s.issueReceipt(ctx, d)
	}

	s.logger.Info("donation transitioned",
		zap.String("donation_id", d.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))
	return nil
}

// issueReceipt generates a tax receipt when the amount qualifies.
func (s *Service) issueReceipt(ctx context.Context, d *Donation) {
	amount, err := d.DonationAmount()
	if err != nil || !amount.QualifiesForTaxReceipt() {
		return
	}

	key, err := s.receipts.IssueTaxReceipt(ctx, d)
	if err != nil {
		s.logger.Error("tax receipt generation failed",
			zap.String("donation_id", d.ID.String()),
			zap.Error(err))
		return
	}

	d.ReceiptKey = &key
	if err := s.repo.Update(ctx, d); err != nil {
		s.logger.Error("failed to store receipt key",
			zap.String("donation_id", d.ID.String()),
			zap.Error(err))
	}
}

// estimateImpact computes the fee, matching and net figures shown to
// the donor after giving.
func (s *Service) estimateImpact(amount paydomain.Amount, cmp *campaign.Campaign) (*Impact, error) {
	fee, err := amount.Percentage(s.cfg.ProcessingFeePercentage)
	if err != nil {
		return nil, err
	}
	net, err := amount.Subtract(fee)
	if err != nil {
		return nil, err
	}

	impact := &Impact{
		Gross:      amount.Format(),
		Fee:        fee.Format(),
		Net:        net.Format(),
		TaxReceipt: amount.QualifiesForTaxReceipt(),
	}

	if cmp.MatchingEnabled {
		match, err := net.Percentage(s.cfg.MatchingPercentage)
		if err != nil {
			return nil, err
		}
		total, err := net.Add(match)
		if err != nil {
			return nil, err
		}
		impact.Match = match.Format()
		impact.Total = total.Format()
	} else {
		impact.Total = net.Format()
	}
	return impact, nil
}

// donationStatusFor maps a payment status to the donation status it
// implies, if any.
func donationStatusFor(status paydomain.PaymentStatus) (domain.DonationStatus, bool) {
	switch status {
	case paydomain.PaymentStatusPending,
		paydomain.PaymentStatusProcessing,
		paydomain.PaymentStatusRequiresAction:
		return domain.StatusProcessing, true
	case paydomain.PaymentStatusCompleted, paydomain.PaymentStatusSucceeded:
		return domain.StatusCompleted, true
	case paydomain.PaymentStatusFailed:
		return domain.StatusFailed, true
	case paydomain.PaymentStatusCancelled:
		return domain.StatusCancelled, true
	case paydomain.PaymentStatusRefunded, paydomain.PaymentStatusPartiallyRefunded:
		return domain.StatusRefunded, true
	default:
		return "", false
	}
}

func transitionError(from, to domain.DonationStatus) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, from.TransitionErrorMessage(to))
}

// nextAction tells the client what to do after creating a donation.
func nextAction(result paydomain.PaymentResult) string {
	switch {
	case result.RequiresAction():
		return "authenticate"
	case result.IsPending():
		return "await_transfer"
	case result.HasFailed():
		return "retry"
	default:
		return "none"
	}
}
