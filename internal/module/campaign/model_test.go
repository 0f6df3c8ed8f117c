package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCampaign_IsActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		campaign Campaign
		want     bool
	}{
		{"active without window", Campaign{Status: CampaignStatusActive}, true},
		{"active inside window", Campaign{Status: CampaignStatusActive, StartsAt: &past, EndsAt: &future}, true},
		{"draft", Campaign{Status: CampaignStatusDraft}, false},
		{"paused", Campaign{Status: CampaignStatusPaused}, false},
		{"not started yet", Campaign{Status: CampaignStatusActive, StartsAt: &future}, false},
		{"already ended", Campaign{Status: CampaignStatusActive, EndsAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.campaign.IsActive())
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	assert.Equal(t, 0, (&Pagination{Page: 1, PageSize: 20}).Offset())
	assert.Equal(t, 40, (&Pagination{Page: 3, PageSize: 20}).Offset())
	assert.Equal(t, 0, (&Pagination{Page: 0, PageSize: 20}).Offset())
}
