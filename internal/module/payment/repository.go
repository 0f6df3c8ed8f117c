package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for payment data access.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*Payment, error)
	ListByDonation(ctx context.Context, donationID uuid.UUID) ([]*Payment, error)
	Update(ctx context.Context, payment *Payment) error

	RecordWebhookEvent(ctx context.Context, event *WebhookEvent) error
	WebhookEventExists(ctx context.Context, gateway, eventID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new payment repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).First(&p, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).First(&p, "intent_id = ?", intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByDonation(ctx context.Context, donationID uuid.UUID) ([]*Payment, error) {
	var payments []*Payment
	err := r.db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) Update(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) RecordWebhookEvent(ctx context.Context, event *WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) WebhookEventExists(ctx context.Context, gateway, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&WebhookEvent{}).
		Where("gateway = ? AND event_id = ?", gateway, eventID).
		Count(&count).Error
	return count > 0, err
}
