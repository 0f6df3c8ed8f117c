package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightgive/server/internal/module/payment/domain"
)

// Payment represents a single charge attempt against a gateway.
type Payment struct {
	ID            uuid.UUID            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DonationID    uuid.UUID            `json:"donation_id" gorm:"type:uuid;not null;index"`
	Gateway       string               `json:"gateway" gorm:"not null"`
	Method        domain.PaymentMethod `json:"method" gorm:"not null"`
	Status        domain.PaymentStatus `json:"status" gorm:"not null;default:pending;index"`
	Amount        decimal.Decimal      `json:"amount" gorm:"type:numeric(12,2);not null"`
	Currency      string               `json:"currency" gorm:"type:varchar(3);not null"`
	TransactionID *string              `json:"transaction_id,omitempty" gorm:"index"`
	IntentID      *string              `json:"-" gorm:"index"`
	ClientSecret  *string              `json:"-"`
	ErrorCode     *string              `json:"error_code,omitempty"`
	ErrorMessage  *string              `json:"error_message,omitempty"`
	RefundedCents int64                `json:"refunded_cents"`
	ProcessedAt   *time.Time           `json:"processed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// TableName returns the database table name.
func (Payment) TableName() string {
	return "payments"
}

// ApplyResult copies a gateway result onto the payment record.
func (p *Payment) ApplyResult(result domain.PaymentResult) {
	if result.Status() != nil {
		p.Status = *result.Status()
	}
	if result.TransactionID() != nil {
		p.TransactionID = result.TransactionID()
	}
	if result.IntentID() != nil {
		p.IntentID = result.IntentID()
	}
	if result.ClientSecret() != nil {
		p.ClientSecret = result.ClientSecret()
	}
	p.ErrorCode = result.ErrorCode()
	p.ErrorMessage = result.ErrorMessage()
	at := result.ProcessedAt()
	p.ProcessedAt = &at
}

// RemainingCents returns how much of the charge is still refundable.
func (p *Payment) RemainingCents() int64 {
	total := p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return total - p.RefundedCents
}

// WebhookEvent records a processed gateway notification for idempotency.
type WebhookEvent struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Gateway     string    `json:"gateway" gorm:"uniqueIndex:idx_gateway_event;not null"`
	EventID     string    `json:"event_id" gorm:"uniqueIndex:idx_gateway_event;not null"`
	EventType   string    `json:"event_type" gorm:"not null"`
	Payload     string    `json:"-" gorm:"type:jsonb"`
	ProcessedAt time.Time `json:"processed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
