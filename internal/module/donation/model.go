package donation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightgive/server/internal/module/donation/domain"
	paydomain "github.com/brightgive/server/internal/module/payment/domain"
)

// Donation represents a single contribution to a campaign.
type Donation struct {
	ID            uuid.UUID               `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DonorID       uuid.UUID               `json:"donor_id" gorm:"type:uuid;not null;index"`
	CampaignID    uuid.UUID               `json:"campaign_id" gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal         `json:"amount" gorm:"type:numeric(12,2);not null"`
	Currency      string                  `json:"currency" gorm:"type:varchar(3);not null"`
	Status        domain.DonationStatus   `json:"status" gorm:"not null;default:pending;index"`
	PaymentMethod paydomain.PaymentMethod `json:"payment_method" gorm:"not null"`
	PaymentID     *uuid.UUID              `json:"payment_id,omitempty" gorm:"type:uuid;index"`
	Message       *string                 `json:"message,omitempty"`
	Anonymous     bool                    `json:"anonymous" gorm:"default:false"`
	ReceiptKey    *string                 `json:"receipt_key,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	RefundedAt    *time.Time              `json:"refunded_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// TableName returns the database table name.
func (Donation) TableName() string {
	return "donations"
}

// DonationAmount returns the donation amount as a money value.
func (d *Donation) DonationAmount() (paydomain.Amount, error) {
	return paydomain.AmountFromString(d.Amount.String(), paydomain.Currency(d.Currency))
}

// IsFinal returns true if the donation is in a terminal state.
func (d *Donation) IsFinal() bool {
	return d.Status.IsFinal()
}

// AgeMinutes returns how many minutes ago the donation was created.
func (d *Donation) AgeMinutes() int {
	return int(time.Since(d.CreatedAt).Minutes())
}

// DonationFilter restricts donation listings.
type DonationFilter struct {
	Status     *domain.DonationStatus
	CampaignID *uuid.UUID
	DonorID    *uuid.UUID
}

// Pagination controls result paging.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p *Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
