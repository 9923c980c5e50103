package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reservio/internal/shared/apperrors"
)

type Repository interface {
	Create(ctx context.Context, entry *WaitlistEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error)

	// FindActiveEntry enforces the one-active-entry rule per
	// (client, space, desired date).
	FindActiveEntry(ctx context.Context, clientID, spaceID uuid.UUID, desiredDate time.Time) (*WaitlistEntry, error)

	// NextCandidate returns the highest-ranked active entry for a
	// space/date, or nil when the list is empty.
	NextCandidate(ctx context.Context, spaceID uuid.UUID, date time.Time) (*WaitlistEntry, error)

	List(ctx context.Context, spaceID uuid.UUID, status Status) ([]WaitlistEntry, error)

	// TransitionFrom performs a status-guarded update and reports whether
	// a row changed. Two racing promoters cannot both win.
	TransitionFrom(ctx context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (bool, error)

	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	// ActiveSpaceDates lists distinct (space, date) pairs that still have
	// active entries, feeding the promotion sweep.
	ActiveSpaceDates(ctx context.Context) ([]SpaceDate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("waitlist entry %s", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindActiveEntry(ctx context.Context, clientID, spaceID uuid.UUID, desiredDate time.Time) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND space_id = ? AND date_desejada = ? AND status = ?",
			clientID, spaceID, desiredDate, StatusActive).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) NextCandidate(ctx context.Context, spaceID uuid.UUID, date time.Time) (*WaitlistEntry, error) {
	var entry WaitlistEntry
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND date_desejada = ? AND status = ?", spaceID, date, StatusActive).
		Order("priority DESC, score DESC, created_at ASC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) List(ctx context.Context, spaceID uuid.UUID, status Status) ([]WaitlistEntry, error) {
	query := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("priority DESC, score DESC, created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rows []WaitlistEntry
	err := query.Find(&rows).Error
	return rows, err
}

func (r *repository) TransitionFrom(ctx context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&WaitlistEntry{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&WaitlistEntry{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("waitlist entry %s", id)
	}
	return nil
}

func (r *repository) ActiveSpaceDates(ctx context.Context) ([]SpaceDate, error) {
	var pairs []SpaceDate
	err := r.db.WithContext(ctx).
		Model(&WaitlistEntry{}).
		Distinct("space_id", "date_desejada").
		Where("status = ?", StatusActive).
		Find(&pairs).Error
	return pairs, err
}
