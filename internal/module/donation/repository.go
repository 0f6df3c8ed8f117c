package donation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightgive/server/internal/module/donation/domain"
)

// Repository defines the interface for donation data access.
type Repository interface {
	Create(ctx context.Context, donation *Donation) error
	Get(ctx context.Context, id uuid.UUID) (*Donation, error)
	List(ctx context.Context, filter *DonationFilter, pagination *Pagination) ([]*Donation, int64, error)
	Update(ctx context.Context, donation *Donation) error
	SumCompletedByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error)
	CountByCampaign(ctx context.Context, campaignID uuid.UUID, statuses []domain.DonationStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new donation repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, donation *Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	var d Donation
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context, filter *DonationFilter, pagination *Pagination) ([]*Donation, int64, error) {
	var donations []*Donation
	var total int64

	query := r.db.WithContext(ctx).Model(&Donation{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.CampaignID != nil {
			query = query.Where("campaign_id = ?", *filter.CampaignID)
		}
		if filter.DonorID != nil {
			query = query.Where("donor_id = ?", *filter.DonorID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

func (r *repository) Update(ctx context.Context, donation *Donation) error {
	return r.db.WithContext(ctx).Save(donation).Error
}

// SumCompletedByCampaign returns the sum of completed donations in cents.
// Only completed donations count towards campaign totals.
func (r *repository) SumCompletedByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var cents int64
	err := r.db.WithContext(ctx).
		Model(&Donation{}).
		Select("COALESCE(SUM(ROUND(amount * 100)), 0)").
		Where("campaign_id = ? AND status = ?", campaignID, domain.StatusCompleted).
		Scan(&cents).Error
	return cents, err
}

func (r *repository) CountByCampaign(ctx context.Context, campaignID uuid.UUID, statuses []domain.DonationStatus) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&Donation{}).
		Where("campaign_id = ?", campaignID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Count(&count).Error
	return count, err
}
