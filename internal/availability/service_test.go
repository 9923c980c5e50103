package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservio/internal/shared/apperrors"
)

type fakeRepo struct {
	reservations    int64
	blackouts       int64
	reservationsErr error
	blackoutsErr    error

	lastExclude *uuid.UUID
}

func (f *fakeRepo) CountReservationConflicts(_ context.Context, _ uuid.UUID, _, _ time.Time, excludeID *uuid.UUID) (int64, error) {
	f.lastExclude = excludeID
	return f.reservations, f.reservationsErr
}

func (f *fakeRepo) CountBlackoutConflicts(_ context.Context, _ uuid.UUID, _, _ time.Time) (int64, error) {
	return f.blackouts, f.blackoutsErr
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckEmptyCalendarIsAvailable(t *testing.T) {
	svc := NewService(&fakeRepo{})

	result, err := svc.Check(context.Background(), uuid.New(), day("2026-09-10"), day("2026-09-12"), nil)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Equal(t, 0, result.Conflicts.Reservations)
	assert.Equal(t, 0, result.Conflicts.Blackouts)
}

func TestCheckReportsConflictCounts(t *testing.T) {
	tests := []struct {
		name         string
		reservations int64
		blackouts    int64
		available    bool
	}{
		{"reservation conflicts only", 2, 0, false},
		{"blackout conflicts only", 0, 1, false},
		{"both kinds", 2, 1, false},
		{"none", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{reservations: tt.reservations, blackouts: tt.blackouts})

			result, err := svc.Check(context.Background(), uuid.New(), day("2026-09-10"), day("2026-09-10"), nil)
			require.NoError(t, err)

			assert.Equal(t, tt.available, result.Available)
			assert.Equal(t, int(tt.reservations), result.Conflicts.Reservations)
			assert.Equal(t, int(tt.blackouts), result.Conflicts.Blackouts)
		})
	}
}

func TestCheckPassesExclusionToRepo(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	exclude := uuid.New()

	_, err := svc.Check(context.Background(), uuid.New(), day("2026-09-10"), day("2026-09-10"), &exclude)
	require.NoError(t, err)
	require.NotNil(t, repo.lastExclude)
	assert.Equal(t, exclude, *repo.lastExclude)
}

func TestCheckFailsClosedOnStorageError(t *testing.T) {
	t.Run("reservation query fails", func(t *testing.T) {
		svc := NewService(&fakeRepo{reservationsErr: errors.New("connection refused")})

		result, err := svc.Check(context.Background(), uuid.New(), day("2026-09-10"), day("2026-09-10"), nil)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrAvailabilityCheckFailed)
	})

	t.Run("blackout query fails", func(t *testing.T) {
		svc := NewService(&fakeRepo{blackoutsErr: errors.New("timeout")})

		result, err := svc.Check(context.Background(), uuid.New(), day("2026-09-10"), day("2026-09-10"), nil)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrAvailabilityCheckFailed)
	})
}

func TestCheckRejectsInvertedWindow(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Check(context.Background(), uuid.New(), day("2026-09-12"), day("2026-09-10"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
