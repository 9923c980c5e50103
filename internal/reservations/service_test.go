package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservio/internal/audit"
	"reservio/internal/availability"
	"reservio/internal/shared/apperrors"
)

// fakeRepo mirrors the conditional-write behavior of the real repository
// against an in-memory slice.
type fakeRepo struct {
	reservations map[uuid.UUID]*Reservation
	records      []*audit.ConversionRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reservations: make(map[uuid.UUID]*Reservation)}
}

func (f *fakeRepo) overlaps(spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeID *uuid.UUID) int {
	count := 0
	for _, r := range f.reservations {
		if r.SpaceID != spaceID || r.Status != StatusActive {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if !r.DateStart.After(dateEnd) && !r.DateEnd.Before(dateStart) {
			count++
		}
	}
	return count
}

func (f *fakeRepo) CreateWithConflictCheck(_ context.Context, reservation *Reservation) error {
	if n := f.overlaps(reservation.SpaceID, reservation.DateStart, reservation.DateEnd, nil); n > 0 {
		return &apperrors.ConflictError{Reservations: n}
	}
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	copied := *reservation
	f.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, apperrors.NotFoundf("reservation %s", id)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, query ListQuery) ([]Reservation, int64, error) {
	var rows []Reservation
	for _, r := range f.reservations {
		if query.Status != "" && string(r.Status) != query.Status {
			continue
		}
		if query.Kind != "" && string(r.Kind) != query.Kind {
			continue
		}
		rows = append(rows, *r)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeRepo) TransitionIfActive(_ context.Context, id uuid.UUID, to Status) (bool, error) {
	r, ok := f.reservations[id]
	if !ok || r.Status != StatusActive {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (f *fakeRepo) ExpireDue(_ context.Context, now time.Time) ([]Reservation, error) {
	var expired []Reservation
	for _, r := range f.reservations {
		if r.Kind == KindTemporary && r.Status == StatusActive && r.IsExpiredAt(now) {
			r.Status = StatusExpired
			expired = append(expired, *r)
		}
	}
	return expired, nil
}

func (f *fakeRepo) Convert(_ context.Context, tempID uuid.UUID, confirmed *Reservation, record *audit.ConversionRecord) error {
	temp, ok := f.reservations[tempID]
	if !ok || temp.Status != StatusActive {
		return apperrors.InvalidStatef("reservation %s is not active", tempID)
	}
	temp.Status = StatusConverted

	confirmed.ID = uuid.New()
	copied := *confirmed
	f.reservations[confirmed.ID] = &copied

	record.DestinationID = &confirmed.ID
	f.records = append(f.records, record)
	return nil
}

// checkerOverFake runs the availability test against the fake repo so the
// service's first-pass check and the repo's in-transaction check agree.
type checkerOverFake struct {
	repo *fakeRepo
	err  error
}

func (c *checkerOverFake) Check(_ context.Context, spaceID uuid.UUID, dateStart, dateEnd time.Time, excludeID *uuid.UUID) (*availability.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	n := c.repo.overlaps(spaceID, dateStart, dateEnd, excludeID)
	return &availability.Result{
		Available: n == 0,
		Conflicts: availability.Conflicts{Reservations: n},
	}, nil
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *service {
	svc := NewService(repo, &checkerOverFake{repo: repo}, DefaultHoldTTL).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func createReq(spaceID uuid.UUID) CreateReservationRequest {
	return CreateReservationRequest{
		SpaceID:   spaceID.String(),
		DateStart: "2026-04-01",
		DateEnd:   "2026-04-01",
	}
}

func TestCreateTemporarySetsHoldWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	reservation, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)

	assert.Equal(t, KindTemporary, reservation.Kind)
	assert.Equal(t, StatusActive, reservation.Status)
	assert.Equal(t, "ana@reservio", reservation.RequestedBy)
	require.NotNil(t, reservation.ExpiresAt)
	assert.Equal(t, testNow.Add(48*time.Hour), *reservation.ExpiresAt)
}

func TestCreateTemporaryRejectsSecondHoldForSameWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	spaceID := uuid.New()

	_, err := svc.CreateTemporary(context.Background(), createReq(spaceID), "ana@reservio")
	require.NoError(t, err)

	_, err = svc.CreateTemporary(context.Background(), createReq(spaceID), "carlos@reservio")
	require.Error(t, err)

	conflict, ok := apperrors.IsConflict(err)
	require.True(t, ok)
	assert.Equal(t, 1, conflict.Reservations)
	assert.Equal(t, 0, conflict.Blackouts)
}

func TestCreateTemporaryDifferentSpacesDoNotConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)
	_, err = svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)
}

func TestCreateTemporaryInvertedWindowRejected(t *testing.T) {
	svc := newTestService(newFakeRepo())

	req := createReq(uuid.New())
	req.DateStart = "2026-04-02"
	req.DateEnd = "2026-04-01"

	_, err := svc.CreateTemporary(context.Background(), req, "ana@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestReleaseActiveHold(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	reservation, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)

	require.NoError(t, svc.Release(context.Background(), reservation.ID.String()))

	got, err := svc.Get(context.Background(), reservation.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, got.Status)

	// Releasing again or releasing an unknown id both report not found.
	err = svc.Release(context.Background(), reservation.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	err = svc.Release(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConvertCopiesWindowAndLinksOrigin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	spaceID := uuid.New()
	clientID := uuid.New()

	req := createReq(spaceID)
	req.ClientID = clientID.String()
	req.TimeStart = "14:00"
	req.TimeEnd = "18:00"
	temp, err := svc.CreateTemporary(context.Background(), req, "ana@reservio")
	require.NoError(t, err)

	confirmed, err := svc.Convert(context.Background(), temp.ID.String(), "carlos@reservio")
	require.NoError(t, err)

	assert.Equal(t, KindConfirmed, confirmed.Kind)
	assert.Equal(t, temp.SpaceID, confirmed.SpaceID)
	assert.Equal(t, temp.DateStart, confirmed.DateStart)
	assert.Equal(t, temp.DateEnd, confirmed.DateEnd)
	assert.Equal(t, temp.TimeStart, confirmed.TimeStart)
	assert.Equal(t, temp.TimeEnd, confirmed.TimeEnd)
	require.NotNil(t, confirmed.ClientID)
	assert.Equal(t, clientID, *confirmed.ClientID)
	require.NotNil(t, confirmed.OriginID)
	assert.Equal(t, temp.ID, *confirmed.OriginID)

	origin, err := svc.Get(context.Background(), temp.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, origin.Status)

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, audit.EntityTemporaryReservation, record.OriginType)
	assert.Equal(t, temp.ID, record.OriginID)
	assert.Equal(t, audit.EntityConfirmedReservation, record.DestinationType)
	require.NotNil(t, record.DestinationID)
	assert.Equal(t, confirmed.ID, *record.DestinationID)
	assert.Equal(t, "carlos@reservio", record.Actor)
}

func TestConvertRejectsNonActiveHold(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	temp, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)
	require.NoError(t, svc.Release(context.Background(), temp.ID.String()))

	_, err = svc.Convert(context.Background(), temp.ID.String(), "carlos@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestConvertRejectsConfirmedReservation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	temp, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)
	confirmed, err := svc.Convert(context.Background(), temp.ID.String(), "ana@reservio")
	require.NoError(t, err)

	_, err = svc.Convert(context.Background(), confirmed.ID.String(), "ana@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestExpireDueAfterHoldWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	temp, err := svc.CreateTemporary(context.Background(), createReq(uuid.New()), "ana@reservio")
	require.NoError(t, err)

	// 47h in: still guaranteed.
	expired, err := svc.ExpireDue(context.Background(), testNow.Add(47*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expired)

	// 49h in: the hold lapses and conversion is no longer possible.
	expired, err = svc.ExpireDue(context.Background(), testNow.Add(49*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, temp.ID, expired[0].ID)
	assert.Equal(t, StatusExpired, expired[0].Status)

	_, err = svc.Convert(context.Background(), temp.ID.String(), "ana@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// Re-running the sweep at the same instant touches nothing.
	expired, err = svc.ExpireDue(context.Background(), testNow.Add(49*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestExpiredWindowBecomesAvailableAgain(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	spaceID := uuid.New()

	_, err := svc.CreateTemporary(context.Background(), createReq(spaceID), "ana@reservio")
	require.NoError(t, err)

	_, err = svc.ExpireDue(context.Background(), testNow.Add(49*time.Hour))
	require.NoError(t, err)

	// The expired hold no longer blocks the window.
	_, err = svc.CreateTemporary(context.Background(), createReq(spaceID), "carlos@reservio")
	require.NoError(t, err)
}
