package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightgive/server/internal/module/donation/domain"
	"github.com/brightgive/server/internal/shared/metrics"
)

const totalsCacheTTL = 5 * time.Minute

// TotalsSource provides donation aggregates for a campaign.
// The donation repository satisfies this interface.
type TotalsSource interface {
	SumCompletedByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error)
	CountByCampaign(ctx context.Context, campaignID uuid.UUID, statuses []domain.DonationStatus) (int64, error)
}

// Service implements campaign operations.
type Service struct {
	repo    Repository
	totals  TotalsSource
	cache   redis.UniversalClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new campaign service.
func NewService(repo Repository, totals TotalsSource, cache redis.UniversalClient, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		totals:  totals,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Create creates a new campaign in draft state.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateCampaignRequest) (*Campaign, error) {
	if !req.GoalAmount.IsPositive() {
		return nil, ErrInvalidGoal
	}

	campaign := &Campaign{
		Title:           req.Title,
		Description:     req.Description,
		Status:          CampaignStatusDraft,
		Currency:        req.Currency,
		GoalAmount:      req.GoalAmount,
		MatchingEnabled: req.MatchingEnabled,
		OwnerID:         ownerID,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// Get returns a campaign by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	return s.repo.Get(ctx, id)
}

// List returns campaigns, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *CampaignStatus, pagination *Pagination) ([]*Campaign, int64, error) {
	return s.repo.List(ctx, status, pagination)
}

// Activate moves a campaign into the active state.
func (s *Service) Activate(ctx context.Context, ownerID, id uuid.UUID) (*Campaign, error) {
	campaign, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.OwnerID != ownerID {
		return nil, ErrNotCampaignOwner
	}
	campaign.Status = CampaignStatusActive
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("activate campaign: %w", err)
	}
	return campaign, nil
}

// Totals returns the aggregated donation figures for a campaign.
// Results are cached in Redis; only completed donations count.
func (s *Service) Totals(ctx context.Context, id uuid.UUID) (*CampaignTotals, error) {
	key := totalsCacheKey(id)

	cached, err := s.cache.Get(ctx, key).Result()
	if err == nil {
		var totals CampaignTotals
		if err := json.Unmarshal([]byte(cached), &totals); err == nil {
			s.metrics.CacheHitsTotal.WithLabelValues("campaign_totals").Inc()
			return &totals, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("campaign totals cache read failed",
			zap.String("campaign_id", id.String()),
			zap.Error(err))
	}
	s.metrics.CacheMissesTotal.WithLabelValues("campaign_totals").Inc()

	campaign, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	raised, err := s.totals.SumCompletedByCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sum campaign donations: %w", err)
	}
	count, err := s.totals.CountByCampaign(ctx, id, []domain.DonationStatus{domain.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("count campaign donations: %w", err)
	}

	totals := &CampaignTotals{
		CampaignID:    id,
		RaisedCents:   raised,
		DonationCount: count,
		Currency:      campaign.Currency,
	}

	if payload, err := json.Marshal(totals); err == nil {
		if err := s.cache.Set(ctx, key, payload, totalsCacheTTL).Err(); err != nil {
			s.logger.Warn("campaign totals cache write failed",
				zap.String("campaign_id", id.String()),
				zap.Error(err))
		}
	}

	return totals, nil
}

// InvalidateTotals drops the cached totals for a campaign. Called when a
// donation reaches or leaves the completed state.
func (s *Service) InvalidateTotals(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Del(ctx, totalsCacheKey(id)).Err(); err != nil {
		s.logger.Warn("campaign totals cache invalidation failed",
			zap.String("campaign_id", id.String()),
			zap.Error(err))
	}
}

func totalsCacheKey(id uuid.UUID) string {
	return "campaign:totals:" + id.String()
}
