package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/donation"
)

const downloadURLExpiry = 15 * time.Minute

// Document is the serialized content of a tax receipt.
type Document struct {
	ReceiptNumber string    `json:"receipt_number"`
	DonationID    uuid.UUID `json:"donation_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	DonorID       uuid.UUID `json:"donor_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Formatted     string    `json:"formatted"`
	IssuedAt      time.Time `json:"issued_at"`
	TaxYear       int       `json:"tax_year"`
}

// Service generates and serves tax receipts for completed donations.
type Service struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewService creates a new receipt service.
func NewService(store ObjectStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// IssueTaxReceipt renders a receipt document for a completed donation
// and stores it. It implements donation.ReceiptIssuer. Issuing is
// idempotent: an existing receipt is left untouched.
func (s *Service) IssueTaxReceipt(ctx context.Context, d *donation.Donation) (string, error) {
	issuedAt := time.Now().UTC()
	if d.CompletedAt != nil {
		issuedAt = d.CompletedAt.UTC()
	}
	key := receiptKey(issuedAt.Year(), d.ID)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return key, nil
	}

	amount, err := d.DonationAmount()
	if err != nil {
		return "", fmt.Errorf("receipt amount: %w", err)
	}

	doc := Document{
		ReceiptNumber: fmt.Sprintf("BG-%d-%s", issuedAt.Year(), d.ID),
		DonationID:    d.ID,
		CampaignID:    d.CampaignID,
		DonorID:       d.DonorID,
		Amount:        amount.ToDecimalString(),
		Currency:      string(amount.Currency()),
		Formatted:     amount.Format(),
		IssuedAt:      issuedAt,
		TaxYear:       issuedAt.Year(),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}

	if err := s.store.Put(ctx, key, payload, "application/json"); err != nil {
		return "", err
	}

	s.logger.Info("tax receipt issued",
		zap.String("donation_id", d.ID.String()),
		zap.String("key", key))
	return key, nil
}

// DownloadURL returns a short-lived presigned URL for a receipt.
func (s *Service) DownloadURL(ctx context.Context, d *donation.Donation) (string, error) {
	if d.ReceiptKey == nil {
		return "", ErrReceiptNotFound
	}
	exists, err := s.store.Exists(ctx, *d.ReceiptKey)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrReceiptNotFound
	}
	return s.store.PresignDownload(ctx, *d.ReceiptKey, downloadURLExpiry)
}

func receiptKey(year int, donationID uuid.UUID) string {
	return fmt.Sprintf("receipts/%d/%s.json", year, donationID)
}
