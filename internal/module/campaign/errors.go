package campaign

import "errors"

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotCampaignOwner = errors.New("campaign belongs to another user")
	ErrInvalidGoal      = errors.New("campaign goal must be positive")
)
