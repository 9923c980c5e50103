package promotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservio/internal/audit"
	"reservio/internal/availability"
	"reservio/internal/reservations"
	"reservio/internal/shared/apperrors"
	"reservio/internal/waitlist"
)

type fakeChecker struct {
	available bool
	err       error
}

func (f *fakeChecker) Check(_ context.Context, _ uuid.UUID, _, _ time.Time, _ *uuid.UUID) (*availability.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &availability.Result{Available: f.available}, nil
}

type fakeWaitlist struct {
	waitlist.Service

	candidate  *waitlist.WaitlistEntry
	nextErr    error
	notifyErr  error
	notified   []string
	profile    *waitlist.ClientProfile
	spaceDates []waitlist.SpaceDate
}

func (f *fakeWaitlist) NextCandidate(_ context.Context, _ uuid.UUID, _ time.Time) (*waitlist.WaitlistEntry, error) {
	return f.candidate, f.nextErr
}

func (f *fakeWaitlist) Notify(_ context.Context, id string, channel string) (*waitlist.WaitlistEntry, error) {
	if f.notifyErr != nil {
		return nil, f.notifyErr
	}
	f.notified = append(f.notified, id)
	entry := *f.candidate
	entry.Status = waitlist.StatusNotified
	entry.NotifyChannel = channel
	return &entry, nil
}

func (f *fakeWaitlist) ClientProfileFor(_ context.Context, _ uuid.UUID) (*waitlist.ClientProfile, error) {
	if f.profile == nil {
		return nil, apperrors.NotFoundf("client")
	}
	return f.profile, nil
}

func (f *fakeWaitlist) ActiveSpaceDates(_ context.Context) ([]waitlist.SpaceDate, error) {
	return f.spaceDates, nil
}

type fakeReservations struct {
	reservations.Service

	expired []reservations.Reservation
	err     error
}

func (f *fakeReservations) ExpireDue(_ context.Context, _ time.Time) ([]reservations.Reservation, error) {
	return f.expired, f.err
}

type fakeEnqueuer struct {
	calls []string
	err   error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, template, recipient string, _ map[string]interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, template+":"+recipient)
	return uuid.NewString(), nil
}

type fakeAudit struct {
	audit.Repository

	records []*audit.ConversionRecord
	err     error
}

func (f *fakeAudit) Append(_ context.Context, record *audit.ConversionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type allowAll struct{}

func (allowAll) Allow() bool { return true }

type denyAll struct{}

func (denyAll) Allow() bool { return false }

func activeEntry() *waitlist.WaitlistEntry {
	return &waitlist.WaitlistEntry{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		SpaceID:  uuid.New(),
		Status:   waitlist.StatusActive,
	}
}

func newTestService(wl *fakeWaitlist, rs *fakeReservations, checker *fakeChecker, enq *fakeEnqueuer, auditRepo *fakeAudit, limiter RateLimiter) *service {
	svc := NewService(wl, rs, checker, enq, auditRepo, limiter).(*service)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestOnSlotFreedEmptyWaitlistNoWrites(t *testing.T) {
	wl := &fakeWaitlist{candidate: nil}
	enq := &fakeEnqueuer{}
	auditRepo := &fakeAudit{}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, enq, auditRepo, allowAll{})

	outcome, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.False(t, outcome.Notified)
	assert.Equal(t, "waitlist empty", outcome.Skipped)
	assert.Empty(t, wl.notified)
	assert.Empty(t, enq.calls)
	assert.Empty(t, auditRepo.records)
}

func TestOnSlotFreedWindowTaken(t *testing.T) {
	wl := &fakeWaitlist{candidate: activeEntry()}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: false}, &fakeEnqueuer{}, &fakeAudit{}, allowAll{})

	outcome, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.False(t, outcome.Notified)
	assert.Equal(t, "window no longer available", outcome.Skipped)
	assert.Empty(t, wl.notified)
}

func TestOnSlotFreedFailsClosedOnCheckerError(t *testing.T) {
	wl := &fakeWaitlist{candidate: activeEntry()}
	checker := &fakeChecker{err: apperrors.ErrAvailabilityCheckFailed}
	auditRepo := &fakeAudit{}
	svc := newTestService(wl, &fakeReservations{}, checker, &fakeEnqueuer{}, auditRepo, allowAll{})

	_, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAvailabilityCheckFailed)
	assert.Empty(t, wl.notified)
	assert.Empty(t, auditRepo.records)
}

func TestOnSlotFreedPromotes(t *testing.T) {
	entry := activeEntry()
	wl := &fakeWaitlist{
		candidate: entry,
		profile:   &waitlist.ClientProfile{Name: "Maria Santos", Email: "maria@example.com"},
	}
	enq := &fakeEnqueuer{}
	auditRepo := &fakeAudit{}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, enq, auditRepo, allowAll{})

	spaceID := uuid.New()
	outcome, err := svc.OnSlotFreed(context.Background(), spaceID, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, outcome.Notified)
	assert.True(t, outcome.Dispatched)
	require.Len(t, wl.notified, 1)
	assert.Equal(t, entry.ID.String(), wl.notified[0])
	require.Len(t, enq.calls, 1)
	assert.Equal(t, "waitlist_slot_available:maria@example.com", enq.calls[0])

	require.Len(t, auditRepo.records, 1)
	record := auditRepo.records[0]
	assert.Equal(t, audit.EntityWaitlistEntry, record.OriginType)
	assert.Equal(t, entry.ID, record.OriginID)
	assert.Equal(t, audit.EntitySpaceWindow, record.DestinationType)
	require.NotNil(t, record.DestinationID)
	assert.Equal(t, spaceID, *record.DestinationID)
	assert.Equal(t, "sistema", record.Actor)
}

func TestOnSlotFreedThrottledKeepsNotified(t *testing.T) {
	wl := &fakeWaitlist{
		candidate: activeEntry(),
		profile:   &waitlist.ClientProfile{Email: "maria@example.com"},
	}
	enq := &fakeEnqueuer{}
	auditRepo := &fakeAudit{}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, enq, auditRepo, denyAll{})

	outcome, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	// Throttled dispatch is partial success: notificado sticks.
	assert.True(t, outcome.Notified)
	assert.False(t, outcome.Dispatched)
	assert.Len(t, wl.notified, 1)
	assert.Empty(t, enq.calls)
	assert.Len(t, auditRepo.records, 1)
}

func TestOnSlotFreedEnqueueFailureIsPartialSuccess(t *testing.T) {
	wl := &fakeWaitlist{
		candidate: activeEntry(),
		profile:   &waitlist.ClientProfile{Email: "maria@example.com"},
	}
	enq := &fakeEnqueuer{err: errors.New("broker down")}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, enq, &fakeAudit{}, allowAll{})

	outcome, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.True(t, outcome.Notified)
	assert.False(t, outcome.Dispatched)
}

func TestOnSlotFreedLostRaceSkips(t *testing.T) {
	wl := &fakeWaitlist{
		candidate: activeEntry(),
		notifyErr: apperrors.InvalidStatef("already claimed"),
	}
	enq := &fakeEnqueuer{}
	auditRepo := &fakeAudit{}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, enq, auditRepo, allowAll{})

	outcome, err := svc.OnSlotFreed(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)

	assert.False(t, outcome.Notified)
	assert.Equal(t, "entry already claimed", outcome.Skipped)
	assert.Empty(t, enq.calls)
	assert.Empty(t, auditRepo.records)
}

func TestRunPromotionSweepWalksActiveWindows(t *testing.T) {
	entry := activeEntry()
	wl := &fakeWaitlist{
		candidate: entry,
		profile:   &waitlist.ClientProfile{Email: "maria@example.com"},
		spaceDates: []waitlist.SpaceDate{
			{SpaceID: uuid.New(), Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
			{SpaceID: uuid.New(), Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := newTestService(wl, &fakeReservations{}, &fakeChecker{available: true}, &fakeEnqueuer{}, &fakeAudit{}, allowAll{})

	result, err := svc.RunPromotionSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.WindowsChecked)
	assert.Equal(t, 2, result.Promoted)
}

func TestRunExpirySweepPromotesFreedWindows(t *testing.T) {
	entry := activeEntry()
	wl := &fakeWaitlist{
		candidate: entry,
		profile:   &waitlist.ClientProfile{Email: "maria@example.com"},
	}
	rs := &fakeReservations{expired: []reservations.Reservation{
		{ID: uuid.New(), SpaceID: uuid.New(), DateStart: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(wl, rs, &fakeChecker{available: true}, &fakeEnqueuer{}, &fakeAudit{}, allowAll{})

	result, err := svc.RunExpirySweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.Promoted)
}

func TestRunExpirySweepPropagatesExpiryError(t *testing.T) {
	rs := &fakeReservations{err: errors.New("db down")}
	svc := newTestService(&fakeWaitlist{}, rs, &fakeChecker{available: true}, &fakeEnqueuer{}, &fakeAudit{}, allowAll{})

	_, err := svc.RunExpirySweep(context.Background())
	assert.Error(t, err)
}
