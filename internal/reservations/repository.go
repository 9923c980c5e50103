package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reservio/internal/audit"
	"reservio/internal/shared/apperrors"
)

type Repository interface {
	// CreateWithConflictCheck inserts a reservation only if its window is
	// still free, re-running the overlap test inside a transaction that
	// locks the space row. Closes the check-then-act race between two
	// concurrent creates for the same window.
	CreateWithConflictCheck(ctx context.Context, reservation *Reservation) error

	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	List(ctx context.Context, query ListQuery) ([]Reservation, int64, error)

	// TransitionIfActive performs a status-guarded update and reports
	// whether a row actually changed. Racing transitions lose cleanly.
	TransitionIfActive(ctx context.Context, id uuid.UUID, to Status) (bool, error)

	// ExpireDue flips every overdue active temporary hold to 'expirada'
	// and returns the ids it touched. Idempotent.
	ExpireDue(ctx context.Context, now time.Time) ([]Reservation, error)

	// Convert atomically closes a temporary hold, creates its confirmed
	// counterpart and appends the conversion record.
	Convert(ctx context.Context, tempID uuid.UUID, confirmed *Reservation, record *audit.ConversionRecord) error
}

// ListQuery filters reservation listings.
type ListQuery struct {
	SpaceID  string
	ClientID string
	Status   string
	Kind     string
	Page     int
	Limit    int
}

type repository struct {
	db        *gorm.DB
	auditRepo audit.Repository
}

func NewRepository(db *gorm.DB, auditRepo audit.Repository) Repository {
	return &repository{db: db, auditRepo: auditRepo}
}

func (r *repository) CreateWithConflictCheck(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the space row so concurrent creates for the same space
		// serialize on the conflict re-check.
		var space struct {
			ID     uuid.UUID `gorm:"column:id"`
			Active bool      `gorm:"column:active"`
		}
		err := tx.Table("spaces").
			Select("id, active").
			Where("id = ?", reservation.SpaceID).
			Set("gorm:query_option", "FOR UPDATE").
			First(&space).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("space %s", reservation.SpaceID)
			}
			return fmt.Errorf("failed to lock space: %w", err)
		}
		if !space.Active {
			return apperrors.InvalidStatef("space %s is not active", reservation.SpaceID)
		}

		var reservationConflicts int64
		err = tx.Model(&Reservation{}).
			Where("space_id = ?", reservation.SpaceID).
			Where("status = ?", StatusActive).
			Where("date_start <= ? AND date_end >= ?", reservation.DateEnd, reservation.DateStart).
			Count(&reservationConflicts).Error
		if err != nil {
			return fmt.Errorf("conflict re-check failed: %v: %w", err, apperrors.ErrAvailabilityCheckFailed)
		}

		var blackoutConflicts int64
		err = tx.Table("blackout_periods").
			Where("space_id = ?", reservation.SpaceID).
			Where("date_start <= ? AND date_end >= ?", reservation.DateEnd, reservation.DateStart).
			Count(&blackoutConflicts).Error
		if err != nil {
			return fmt.Errorf("blackout re-check failed: %v: %w", err, apperrors.ErrAvailabilityCheckFailed)
		}

		if reservationConflicts > 0 || blackoutConflicts > 0 {
			return &apperrors.ConflictError{
				Reservations: int(reservationConflicts),
				Blackouts:    int(blackoutConflicts),
			}
		}

		return tx.Create(reservation).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("reservation %s", id)
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Reservation, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&Reservation{})
	if query.SpaceID != "" {
		if spaceID, err := uuid.Parse(query.SpaceID); err == nil {
			base = base.Where("space_id = ?", spaceID)
		}
	}
	if query.ClientID != "" {
		if clientID, err := uuid.Parse(query.ClientID); err == nil {
			base = base.Where("client_id = ?", clientID)
		}
	}
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}
	if query.Kind != "" {
		base = base.Where("tipo = ?", query.Kind)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Reservation
	err := base.
		Order("date_start ASC, created_at ASC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) TransitionIfActive(ctx context.Context, id uuid.UUID, to Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ? AND status = ?", id, StatusActive).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ExpireDue(ctx context.Context, now time.Time) ([]Reservation, error) {
	var expired []Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Collect first so callers can promote the freed windows.
		err := tx.
			Where("tipo = ? AND status = ? AND expires_at <= ?", KindTemporary, StatusActive, now).
			Find(&expired).Error
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(expired))
		for _, reservation := range expired {
			ids = append(ids, reservation.ID)
		}

		// Status guard keeps the sweep idempotent under concurrent runs.
		return tx.Model(&Reservation{}).
			Where("id IN ? AND status = ?", ids, StatusActive).
			Updates(map[string]interface{}{
				"status":     StatusExpired,
				"updated_at": now.UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	// Reflect the committed transition on the returned copies.
	for i := range expired {
		expired[i].Status = StatusExpired
		expired[i].UpdatedAt = now.UTC()
	}
	return expired, nil
}

func (r *repository) Convert(ctx context.Context, tempID uuid.UUID, confirmed *Reservation, record *audit.ConversionRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Reservation{}).
			Where("id = ? AND status = ?", tempID, StatusActive).
			Updates(map[string]interface{}{
				"status":     StatusConverted,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidStatef("temporary reservation %s is no longer active", tempID)
		}

		if err := tx.Create(confirmed).Error; err != nil {
			return fmt.Errorf("failed to create confirmed reservation: %w", err)
		}

		record.DestinationID = &confirmed.ID
		return r.auditRepo.AppendTx(tx, record)
	})
}
