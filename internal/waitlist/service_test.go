package waitlist

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservio/internal/shared/apperrors"
)

type fakeRepo struct {
	entries map[uuid.UUID]*WaitlistEntry
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[uuid.UUID]*WaitlistEntry)}
}

func (f *fakeRepo) Create(_ context.Context, entry *WaitlistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		f.seq++
		entry.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*WaitlistEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, apperrors.NotFoundf("waitlist entry %s", id)
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRepo) FindActiveEntry(_ context.Context, clientID, spaceID uuid.UUID, desiredDate time.Time) (*WaitlistEntry, error) {
	for _, entry := range f.entries {
		if entry.ClientID == clientID && entry.SpaceID == spaceID &&
			entry.DesiredDate.Equal(desiredDate) && entry.Status == StatusActive {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) NextCandidate(_ context.Context, spaceID uuid.UUID, date time.Time) (*WaitlistEntry, error) {
	var candidates []*WaitlistEntry
	for _, entry := range f.entries {
		if entry.SpaceID == spaceID && entry.DesiredDate.Equal(date) && entry.Status == StatusActive {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	copied := *candidates[0]
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, spaceID uuid.UUID, status Status) ([]WaitlistEntry, error) {
	var rows []WaitlistEntry
	for _, entry := range f.entries {
		if entry.SpaceID != spaceID {
			continue
		}
		if status != "" && entry.Status != status {
			continue
		}
		rows = append(rows, *entry)
	}
	return rows, nil
}

func (f *fakeRepo) TransitionFrom(_ context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (bool, error) {
	entry, ok := f.entries[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if entry.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	entry.Status = to
	f.applyUpdates(entry, updates)
	return true, nil
}

func (f *fakeRepo) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	entry, ok := f.entries[id]
	if !ok {
		return apperrors.NotFoundf("waitlist entry %s", id)
	}
	f.applyUpdates(entry, updates)
	return nil
}

func (f *fakeRepo) ActiveSpaceDates(_ context.Context) ([]SpaceDate, error) {
	seen := make(map[string]SpaceDate)
	for _, entry := range f.entries {
		if entry.Status != StatusActive {
			continue
		}
		key := entry.SpaceID.String() + entry.DesiredDate.Format("2006-01-02")
		seen[key] = SpaceDate{SpaceID: entry.SpaceID, Date: entry.DesiredDate}
	}
	var pairs []SpaceDate
	for _, pair := range seen {
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (f *fakeRepo) applyUpdates(entry *WaitlistEntry, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "priority":
			entry.Priority = value.(int)
		case "score":
			entry.Score = value.(int)
		case "observacoes":
			entry.Notes = value.(string)
		case "notified_at":
			t := value.(time.Time)
			entry.NotifiedAt = &t
		case "notify_channel":
			entry.NotifyChannel = value.(string)
		case "attended_at":
			t := value.(time.Time)
			entry.AttendedAt = &t
		case "atendido_por":
			entry.AttendedBy = value.(string)
		case "alternative_space_id":
			id := value.(uuid.UUID)
			entry.AlternativeSpaceID = &id
		case "cancel_reason":
			entry.CancelReason = value.(string)
		}
	}
}

type fakeDirectory struct {
	profiles map[uuid.UUID]*ClientProfile
	err      error
}

func (f *fakeDirectory) GetClientProfile(_ context.Context, clientID uuid.UUID) (*ClientProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[clientID]
	if !ok {
		return nil, apperrors.NotFoundf("client %s", clientID)
	}
	return profile, nil
}

func newTestService(repo *fakeRepo, dir *fakeDirectory) *service {
	if dir == nil {
		dir = &fakeDirectory{err: errors.New("directory unavailable")}
	}
	svc := NewService(repo, dir).(*service)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func joinReq(clientID, spaceID uuid.UUID) JoinRequest {
	return JoinRequest{
		ClientID:    clientID.String(),
		SpaceID:     spaceID.String(),
		DesiredDate: "2026-04-01",
	}
}

func TestJoinDefaultsAndScore(t *testing.T) {
	repo := newFakeRepo()
	clientID := uuid.New()
	spaceID := uuid.New()
	dir := &fakeDirectory{profiles: map[uuid.UUID]*ClientProfile{
		clientID: {
			Name:      "Maria Santos",
			Source:    "indicacao",
			CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(repo, dir)

	req := joinReq(clientID, spaceID)
	req.DealValue = 60000

	entry, err := svc.Join(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, DefaultPriority, entry.Priority)
	assert.Equal(t, StatusActive, entry.Status)
	// 40 (deal) + 20 (indicacao) + 15 (priority 5) + 10 (tenure > 1y)
	assert.Equal(t, 85, entry.Score)
	assert.Equal(t, "indicacao", entry.Source)
}

func TestJoinDuplicateRejected(t *testing.T) {
	repo := newFakeRepo()
	clientID := uuid.New()
	spaceID := uuid.New()
	svc := newTestService(repo, nil)

	_, err := svc.Join(context.Background(), joinReq(clientID, spaceID))
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), joinReq(clientID, spaceID))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// Same client, different date is fine.
	other := joinReq(clientID, spaceID)
	other.DesiredDate = "2026-04-02"
	_, err = svc.Join(context.Background(), other)
	assert.NoError(t, err)
}

func TestJoinPriorityBounds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	req := joinReq(uuid.New(), uuid.New())
	req.Priority = 11
	_, err := svc.Join(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	req.Priority = -1
	_, err = svc.Join(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestJoinDirectoryUnavailableStillScores(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{err: errors.New("directory down")})

	req := joinReq(uuid.New(), uuid.New())
	req.DealValue = 25000
	req.Source = "google"

	entry, err := svc.Join(context.Background(), req)
	require.NoError(t, err)
	// 30 (deal) + 15 (google) + 15 (priority 5), no tenure bonus
	assert.Equal(t, 60, entry.Score)
}

func TestNextCandidateOrdering(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	spaceID := uuid.New()
	ctx := context.Background()

	lowPriority := joinReq(uuid.New(), spaceID)
	lowPriority.Priority = 3
	lowPriority.DealValue = 90000
	_, err := svc.Join(ctx, lowPriority)
	require.NoError(t, err)

	first := joinReq(uuid.New(), spaceID)
	first.Priority = 8
	first.DealValue = 10000
	firstEntry, err := svc.Join(ctx, first)
	require.NoError(t, err)

	// Same priority and score as first, joined later: FIFO breaks the tie.
	second := joinReq(uuid.New(), spaceID)
	second.Priority = 8
	second.DealValue = 10000
	secondEntry, err := svc.Join(ctx, second)
	require.NoError(t, err)
	require.Equal(t, firstEntry.Score, secondEntry.Score)

	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	candidate, err := svc.NextCandidate(ctx, spaceID, date)
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, firstEntry.ID, candidate.ID)

	// Once the leader is attended the tie-broken runner-up surfaces.
	_, err = svc.Attend(ctx, firstEntry.ID.String(), "admin@reservio", "")
	require.NoError(t, err)

	candidate, err = svc.NextCandidate(ctx, spaceID, date)
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, secondEntry.ID, candidate.ID)
}

func TestNextCandidateEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	candidate, err := svc.NextCandidate(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestNotifyTransitions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Join(ctx, joinReq(uuid.New(), uuid.New()))
	require.NoError(t, err)

	notified, err := svc.Notify(ctx, entry.ID.String(), "email")
	require.NoError(t, err)
	assert.Equal(t, StatusNotified, notified.Status)
	assert.Equal(t, "email", notified.NotifyChannel)
	require.NotNil(t, notified.NotifiedAt)

	// Already notified; a second notify must not win.
	_, err = svc.Notify(ctx, entry.ID.String(), "whatsapp")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestAttendFromActiveAndNotified(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	altSpace := uuid.New()

	entry, err := svc.Join(ctx, joinReq(uuid.New(), uuid.New()))
	require.NoError(t, err)

	attended, err := svc.Attend(ctx, entry.ID.String(), "ana@reservio", altSpace.String())
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, attended.Status)
	assert.Equal(t, "ana@reservio", attended.AttendedBy)
	require.NotNil(t, attended.AlternativeSpaceID)
	assert.Equal(t, altSpace, *attended.AlternativeSpaceID)

	// Terminal entries stay terminal.
	_, err = svc.Attend(ctx, entry.ID.String(), "ana@reservio", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = svc.Cancel(ctx, entry.ID.String(), "cliente desistiu")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCancelFromNotified(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Join(ctx, joinReq(uuid.New(), uuid.New()))
	require.NoError(t, err)

	_, err = svc.Notify(ctx, entry.ID.String(), "email")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, entry.ID.String(), "cliente desistiu")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "cliente desistiu", cancelled.CancelReason)
}

func TestUpdatePriorityRecomputesScore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	req := joinReq(uuid.New(), uuid.New())
	req.DealValue = 25000
	req.Priority = 2
	entry, err := svc.Join(ctx, req)
	require.NoError(t, err)
	// 30 (deal) + 5 (unknown source) + 6 (priority 2)
	require.Equal(t, 41, entry.Score)

	updated, err := svc.UpdatePriority(ctx, entry.ID.String(), 9, "carlos@reservio")
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Priority)
	assert.Equal(t, 62, updated.Score)
	assert.Contains(t, updated.Notes, "prioridade alterada de 2 para 9 por carlos@reservio")
}

func TestUpdatePriorityRejectsTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	entry, err := svc.Join(ctx, joinReq(uuid.New(), uuid.New()))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, entry.ID.String(), "sem interesse")
	require.NoError(t, err)

	_, err = svc.UpdatePriority(ctx, entry.ID.String(), 7, "carlos@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = svc.UpdatePriority(ctx, entry.ID.String(), 0, "carlos@reservio")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
