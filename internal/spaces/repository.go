package spaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reservio/internal/shared/apperrors"
)

// Repository interface for space and blackout persistence
type Repository interface {
	CreateSpace(ctx context.Context, space *Space) error
	GetSpaceByID(ctx context.Context, id uuid.UUID) (*Space, error)
	GetSpaceByName(ctx context.Context, name string) (*Space, error)
	ListSpaces(ctx context.Context, activeOnly bool) ([]Space, error)
	UpdateSpace(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteSpace(ctx context.Context, id uuid.UUID) error

	CreateBlackout(ctx context.Context, blackout *BlackoutPeriod) error
	GetBlackoutByID(ctx context.Context, id uuid.UUID) (*BlackoutPeriod, error)
	ListBlackoutsBySpace(ctx context.Context, spaceID uuid.UUID) ([]BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new space repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSpace(ctx context.Context, space *Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *repository) GetSpaceByID(ctx context.Context, id uuid.UUID) (*Space, error) {
	var space Space
	err := r.db.WithContext(ctx).First(&space, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("space %s", id)
		}
		return nil, err
	}
	return &space, nil
}

func (r *repository) GetSpaceByName(ctx context.Context, name string) (*Space, error) {
	var space Space
	err := r.db.WithContext(ctx).First(&space, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("space named %q", name)
		}
		return nil, err
	}
	return &space, nil
}

func (r *repository) ListSpaces(ctx context.Context, activeOnly bool) ([]Space, error) {
	var result []Space
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&result).Error
	return result, err
}

func (r *repository) UpdateSpace(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Space{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("space %s", id)
	}
	return nil
}

func (r *repository) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Space{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("space %s", id)
	}
	return nil
}

func (r *repository) CreateBlackout(ctx context.Context, blackout *BlackoutPeriod) error {
	return r.db.WithContext(ctx).Create(blackout).Error
}

func (r *repository) GetBlackoutByID(ctx context.Context, id uuid.UUID) (*BlackoutPeriod, error) {
	var blackout BlackoutPeriod
	err := r.db.WithContext(ctx).First(&blackout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("blackout period %s", id)
		}
		return nil, err
	}
	return &blackout, nil
}

func (r *repository) ListBlackoutsBySpace(ctx context.Context, spaceID uuid.UUID) ([]BlackoutPeriod, error) {
	var result []BlackoutPeriod
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("date_start ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) DeleteBlackout(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&BlackoutPeriod{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("blackout period %s", id)
	}
	return nil
}
