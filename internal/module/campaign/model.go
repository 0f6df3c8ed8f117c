package campaign

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusArchived  CampaignStatus = "archived"
)

// Campaign represents a fundraising campaign.
type Campaign struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description"`
	Status          CampaignStatus  `json:"status" gorm:"not null;default:draft;index"`
	Currency        string          `json:"currency" gorm:"type:varchar(3);not null"`
	GoalAmount      decimal.Decimal `json:"goal_amount" gorm:"type:numeric(12,2)"`
	MatchingEnabled bool            `json:"matching_enabled" gorm:"default:false"`
	OwnerID         uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	StartsAt        *time.Time      `json:"starts_at,omitempty"`
	EndsAt          *time.Time      `json:"ends_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName returns the database table name.
func (Campaign) TableName() string {
	return "campaigns"
}

// IsActive returns true if the campaign currently accepts donations.
func (c *Campaign) IsActive() bool {
	if c.Status != CampaignStatusActive {
		return false
	}
	now := time.Now()
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	return true
}

// CampaignTotals holds aggregated donation figures for a campaign.
type CampaignTotals struct {
	CampaignID    uuid.UUID `json:"campaign_id"`
	RaisedCents   int64     `json:"raised_cents"`
	DonationCount int64     `json:"donation_count"`
	Currency      string    `json:"currency"`
}
