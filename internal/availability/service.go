package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reservio/internal/shared/apperrors"
)

// Checker reports whether a space window is free. Implementations must
// fail closed: a storage failure is an error, never "available".
type Checker interface {
	Check(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeReservationID *uuid.UUID) (*Result, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Checker {
	return &service{repo: repo}
}

func (s *service) Check(ctx context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeReservationID *uuid.UUID) (*Result, error) {
	if dateEnd.Before(dateStart) {
		return nil, apperrors.InvalidArgumentf("window end %s precedes start %s",
			dateEnd.Format("2006-01-02"), dateStart.Format("2006-01-02"))
	}

	reservations, err := s.repo.CountReservationConflicts(ctx, spaceID, dateStart, dateEnd, excludeReservationID)
	if err != nil {
		return nil, fmt.Errorf("counting reservation conflicts: %v: %w", err, apperrors.ErrAvailabilityCheckFailed)
	}

	// Blackouts are never excludable, not even when re-checking an edit.
	blackouts, err := s.repo.CountBlackoutConflicts(ctx, spaceID, dateStart, dateEnd)
	if err != nil {
		return nil, fmt.Errorf("counting blackout conflicts: %v: %w", err, apperrors.ErrAvailabilityCheckFailed)
	}

	return &Result{
		Available: reservations == 0 && blackouts == 0,
		Conflicts: Conflicts{
			Reservations: int(reservations),
			Blackouts:    int(blackouts),
		},
	}, nil
}
