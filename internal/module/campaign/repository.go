package campaign

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for campaign data access.
type Repository interface {
	Create(ctx context.Context, campaign *Campaign) error
	Get(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context, status *CampaignStatus, pagination *Pagination) ([]*Campaign, int64, error)
	Update(ctx context.Context, campaign *Campaign) error
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

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new campaign repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, campaign *Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	var c Campaign
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, status *CampaignStatus, pagination *Pagination) ([]*Campaign, int64, error) {
	var campaigns []*Campaign
	var total int64

	query := r.db.WithContext(ctx).Model(&Campaign{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination != nil {
		query = query.Offset(pagination.Offset()).Limit(pagination.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *repository) Update(ctx context.Context, campaign *Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}
