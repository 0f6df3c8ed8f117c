package donation

import (
	"github.com/google/uuid"

	"github.com/brightgive/server/internal/module/payment"
)

// CreateDonationRequest is the payload for creating a donation.
// The amount is a decimal string to avoid float round-trips.
type CreateDonationRequest struct {
	CampaignID    uuid.UUID `json:"campaign_id" binding:"required"`
	Amount        string    `json:"amount" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Message       *string   `json:"message,omitempty" binding:"omitempty,max=500"`
	Anonymous     bool      `json:"anonymous"`
	ReturnURL     string    `json:"return_url,omitempty" binding:"omitempty,url"`
}

// UpdateMessageRequest is the payload for changing the donor message.
type UpdateMessageRequest struct {
	Message *string `json:"message" binding:"omitempty,max=500"`
}

// RefundDonationRequest is the payload for refunding a donation.
type RefundDonationRequest struct {
	Reason *string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// Impact summarizes where a donation goes after fees and matching.
type Impact struct {
	Gross      string `json:"gross"`
	Fee        string `json:"fee"`
	Net        string `json:"net"`
	Match      string `json:"match,omitempty"`
	Total      string `json:"total"`
	TaxReceipt bool   `json:"tax_receipt"`
}

// DonationResponse is returned after creating a donation.
type DonationResponse struct {
	Donation     *Donation        `json:"donation"`
	Payment      *payment.Payment `json:"payment"`
	ClientSecret *string          `json:"client_secret,omitempty"`
	NextAction   string           `json:"next_action"`
	Impact       *Impact          `json:"impact,omitempty"`
}

// StatusInfo is the API representation of a donation status.
type StatusInfo struct {
	Status      string   `json:"status"`
	Label       string   `json:"label"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Progress    int      `json:"progress"`
	Final       bool     `json:"final"`
	Transitions []string `json:"transitions"`
}
