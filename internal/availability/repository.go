package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository counts conflicting rows for a window. It deliberately reads
// the reservation and blackout tables by name instead of importing their
// owning packages, so that those packages can depend on this one.
type Repository interface {
	CountReservationConflicts(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeID *uuid.UUID) (int64, error)
	CountBlackoutConflicts(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Only reservations still holding the window block it. Expired temporary
// holds are flipped to 'expirada' by the sweep before they stop counting.
const activeReservationStatus = "ativa"

func (r *repository) CountReservationConflicts(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("reservations").
		Where("space_id = ?", spaceID).
		Where("status = ?", activeReservationStatus).
		// Inclusive overlap test: existing.start <= window.end AND existing.end >= window.start
		Where("date_start <= ? AND date_end >= ?", dateEnd, dateStart)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *repository) CountBlackoutConflicts(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("blackout_periods").
		Where("space_id = ?", spaceID).
		Where("date_start <= ? AND date_end >= ?", dateEnd, dateStart).
		Count(&count).Error
	return count, err
}
