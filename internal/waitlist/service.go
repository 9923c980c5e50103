package waitlist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reservio/internal/scoring"
	"reservio/internal/shared/apperrors"
	"reservio/pkg/logger"
)

// ClientDirectory supplies client data the waitlist needs without
// importing the clients package directly (avoids an import cycle).
type ClientDirectory interface {
	GetClientProfile(ctx context.Context, clientID uuid.UUID) (*ClientProfile, error)
}

// ClientProfile is the slice of client data relevant to scoring and
// notification.
type ClientProfile struct {
	Name      string
	Email     string
	Phone     string
	Source    string
	CreatedAt time.Time
}

type Service interface {
	// Join adds a client to the waitlist for a space/date. Fails with a
	// duplicate error when the client already has an active entry there.
	Join(ctx context.Context, req JoinRequest) (*WaitlistEntry, error)

	// UpdatePriority changes the manual priority (1-10), recomputes the
	// score and appends an audit note to observacoes.
	UpdatePriority(ctx context.Context, id string, newPriority int, actor string) (*WaitlistEntry, error)

	// Notify transitions ativo → notificado, recording channel and time.
	Notify(ctx context.Context, id string, channel string) (*WaitlistEntry, error)

	// Attend marks the entry as served, optionally recording an
	// alternative-space offer.
	Attend(ctx context.Context, id string, actor string, alternativeSpaceID string) (*WaitlistEntry, error)

	// Cancel closes the entry from any non-terminal status.
	Cancel(ctx context.Context, id string, reason string) (*WaitlistEntry, error)

	// NextCandidate returns the highest-ranked active entry for the
	// space/date, or nil when the list is empty.
	NextCandidate(ctx context.Context, spaceID uuid.UUID, date time.Time) (*WaitlistEntry, error)

	Get(ctx context.Context, id string) (*WaitlistEntry, error)
	List(ctx context.Context, spaceID string, status Status) ([]WaitlistEntry, error)
	ActiveSpaceDates(ctx context.Context) ([]SpaceDate, error)

	// ClientProfileFor exposes directory lookups to the promotion
	// orchestrator for notification payloads.
	ClientProfileFor(ctx context.Context, clientID uuid.UUID) (*ClientProfile, error)
}

type service struct {
	repo      Repository
	directory ClientDirectory
	now       func() time.Time
	log       *logger.Logger
}

func NewService(repo Repository, directory ClientDirectory) Service {
	return &service{
		repo:      repo,
		directory: directory,
		now:       time.Now,
		log:       logger.GetDefault(),
	}
}

func (s *service) Join(ctx context.Context, req JoinRequest) (*WaitlistEntry, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid client id %q", req.ClientID)
	}
	spaceID, err := uuid.Parse(req.SpaceID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", req.SpaceID)
	}
	desiredDate, err := time.Parse("2006-01-02", req.DesiredDate)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid date_desejada %q", req.DesiredDate)
	}

	priority := req.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	if priority < MinPriority || priority > MaxPriority {
		return nil, apperrors.InvalidArgumentf("priority %d outside [%d,%d]", priority, MinPriority, MaxPriority)
	}

	existing, err := s.repo.FindActiveEntry(ctx, clientID, spaceID, desiredDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicatef("client %s already has an active entry for space %s on %s",
			clientID, spaceID, req.DesiredDate)
	}

	source := req.Source
	tenureDays := 0
	if profile, err := s.directory.GetClientProfile(ctx, clientID); err == nil && profile != nil {
		tenureDays = s.tenureDays(profile.CreatedAt)
		if source == "" {
			source = profile.Source
		}
	}

	entry := &WaitlistEntry{
		ClientID:           clientID,
		SpaceID:            spaceID,
		DesiredDate:        desiredDate,
		PreferredTime:      req.PreferredTime,
		Priority:           priority,
		Status:             StatusActive,
		EstimatedDealValue: req.DealValue,
		Source:             source,
		Notes:              req.Notes,
	}
	entry.Score = scoring.ComputeScore(scoring.Input{
		DealValue:  entry.EstimatedDealValue,
		Source:     entry.Source,
		Priority:   entry.Priority,
		TenureDays: tenureDays,
	})

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	s.log.Info("client joined waitlist",
		slog.String("entry_id", entry.ID.String()),
		slog.String("space_id", spaceID.String()),
		slog.String("date", req.DesiredDate),
		slog.Int("priority", entry.Priority),
		slog.Int("score", entry.Score),
	)
	return entry, nil
}

func (s *service) UpdatePriority(ctx context.Context, id string, newPriority int, actor string) (*WaitlistEntry, error) {
	if newPriority < MinPriority || newPriority > MaxPriority {
		return nil, apperrors.InvalidArgumentf("priority %d outside [%d,%d]", newPriority, MinPriority, MaxPriority)
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status.IsTerminal() {
		return nil, apperrors.InvalidStatef("cannot change priority of entry in status %s", entry.Status)
	}

	tenureDays := 0
	if profile, err := s.directory.GetClientProfile(ctx, entry.ClientID); err == nil && profile != nil {
		tenureDays = s.tenureDays(profile.CreatedAt)
	}

	newScore := scoring.ComputeScore(scoring.Input{
		DealValue:  entry.EstimatedDealValue,
		Source:     entry.Source,
		Priority:   newPriority,
		TenureDays: tenureDays,
	})

	note := fmt.Sprintf("[%s] prioridade alterada de %d para %d por %s",
		s.now().Format("2006-01-02 15:04"), entry.Priority, newPriority, actor)
	notes := entry.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += note

	err = s.repo.UpdateFields(ctx, entry.ID, map[string]interface{}{
		"priority":    newPriority,
		"score":       newScore,
		"observacoes": notes,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, entry.ID)
}

func (s *service) Notify(ctx context.Context, id string, channel string) (*WaitlistEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	changed, err := s.repo.TransitionFrom(ctx, entry.ID, []Status{StatusActive}, StatusNotified, map[string]interface{}{
		"notified_at":    now,
		"notify_channel": channel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to notify entry: %w", err)
	}
	if !changed {
		return nil, apperrors.InvalidStatef("entry %s cannot be notified from status %s", entry.ID, entry.Status)
	}

	return s.repo.GetByID(ctx, entry.ID)
}

func (s *service) Attend(ctx context.Context, id string, actor string, alternativeSpaceID string) (*WaitlistEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"attended_at":  s.now().UTC(),
		"atendido_por": actor,
	}
	if alternativeSpaceID != "" {
		altID, err := uuid.Parse(alternativeSpaceID)
		if err != nil {
			return nil, apperrors.InvalidArgumentf("invalid alternative space id %q", alternativeSpaceID)
		}
		updates["alternative_space_id"] = altID
	}

	changed, err := s.repo.TransitionFrom(ctx, entry.ID, []Status{StatusActive, StatusNotified}, StatusAttended, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to attend entry: %w", err)
	}
	if !changed {
		return nil, apperrors.InvalidStatef("entry %s cannot be attended from status %s", entry.ID, entry.Status)
	}

	return s.repo.GetByID(ctx, entry.ID)
}

func (s *service) Cancel(ctx context.Context, id string, reason string) (*WaitlistEntry, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed, err := s.repo.TransitionFrom(ctx, entry.ID, []Status{StatusActive, StatusNotified}, StatusCancelled, map[string]interface{}{
		"cancel_reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel entry: %w", err)
	}
	if !changed {
		return nil, apperrors.InvalidStatef("entry %s cannot be cancelled from status %s", entry.ID, entry.Status)
	}

	return s.repo.GetByID(ctx, entry.ID)
}

func (s *service) NextCandidate(ctx context.Context, spaceID uuid.UUID, date time.Time) (*WaitlistEntry, error) {
	return s.repo.NextCandidate(ctx, spaceID, date)
}

func (s *service) Get(ctx context.Context, id string) (*WaitlistEntry, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid waitlist entry id %q", id)
	}
	return s.repo.GetByID(ctx, entryID)
}

func (s *service) List(ctx context.Context, spaceID string, status Status) ([]WaitlistEntry, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", spaceID)
	}
	if status != "" && !status.IsValid() {
		return nil, apperrors.InvalidArgumentf("invalid status %q", status)
	}
	return s.repo.List(ctx, id, status)
}

func (s *service) ActiveSpaceDates(ctx context.Context) ([]SpaceDate, error) {
	return s.repo.ActiveSpaceDates(ctx)
}

func (s *service) ClientProfileFor(ctx context.Context, clientID uuid.UUID) (*ClientProfile, error) {
	return s.directory.GetClientProfile(ctx, clientID)
}

func (s *service) tenureDays(createdAt time.Time) int {
	if createdAt.IsZero() {
		return 0
	}
	days := int(s.now().Sub(createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
