package campaign

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCampaignRequest is the payload for creating a campaign.
type CreateCampaignRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Description     string          `json:"description" binding:"max=5000"`
	Currency        string          `json:"currency" binding:"required,oneof=EUR USD GBP"`
	GoalAmount      decimal.Decimal `json:"goal_amount" binding:"required"`
	MatchingEnabled bool            `json:"matching_enabled"`
	StartsAt        *time.Time      `json:"starts_at,omitempty"`
	EndsAt          *time.Time      `json:"ends_at,omitempty"`
}
