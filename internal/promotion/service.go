package promotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"reservio/internal/audit"
	"reservio/internal/availability"
	"reservio/internal/reservations"
	"reservio/internal/shared/apperrors"
	"reservio/internal/waitlist"
	"reservio/pkg/logger"
)

const (
	defaultNotifyChannel = "email"
	systemActor          = "sistema"

	notifyTemplate = "waitlist_slot_available"
)

// RateLimiter throttles outbound notification dispatch. *rate.Limiter
// satisfies it; tests inject their own.
type RateLimiter interface {
	Allow() bool
}

// NotificationEnqueuer hands a templated message to the outbound queue and
// returns the queue id. Implemented by the notifications producer.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, template, recipient string, payload map[string]interface{}) (string, error)
}

// Outcome describes what a single slot-freed pass did.
type Outcome struct {
	SpaceID    uuid.UUID  `json:"space_id"`
	Date       time.Time  `json:"date"`
	EntryID    *uuid.UUID `json:"entry_id,omitempty"`
	Notified   bool       `json:"notified"`
	Dispatched bool       `json:"dispatched"`
	Skipped    string     `json:"skipped,omitempty"`
}

// SweepResult aggregates a full sweep run.
type SweepResult struct {
	WindowsChecked int       `json:"windows_checked"`
	Promoted       int       `json:"promoted"`
	Expired        int       `json:"expired,omitempty"`
	Outcomes       []Outcome `json:"outcomes,omitempty"`
	RanAt          time.Time `json:"ran_at"`
}

type Service interface {
	// OnSlotFreed offers a freed space/date to the best-ranked waitlist
	// candidate: re-check availability, pick the candidate, mark it
	// notificado, enqueue the notification and record the promotion.
	OnSlotFreed(ctx context.Context, spaceID uuid.UUID, date time.Time) (*Outcome, error)

	// RunPromotionSweep walks every (space, date) pair with active
	// waitlist entries and runs OnSlotFreed for each.
	RunPromotionSweep(ctx context.Context) (*SweepResult, error)

	// RunExpirySweep expires overdue holds, then offers each freed window
	// to the waitlist.
	RunExpirySweep(ctx context.Context) (*SweepResult, error)
}

type service struct {
	waitlistSvc  waitlist.Service
	reservations reservations.Service
	checker      availability.Checker
	enqueuer     NotificationEnqueuer
	auditRepo    audit.Repository
	limiter      RateLimiter
	now          func() time.Time
	log          *logger.Logger
}

func NewService(
	waitlistSvc waitlist.Service,
	reservationSvc reservations.Service,
	checker availability.Checker,
	enqueuer NotificationEnqueuer,
	auditRepo audit.Repository,
	limiter RateLimiter,
) Service {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 10)
	}
	return &service{
		waitlistSvc:  waitlistSvc,
		reservations: reservationSvc,
		checker:      checker,
		enqueuer:     enqueuer,
		auditRepo:    auditRepo,
		limiter:      limiter,
		now:          time.Now,
		log:          logger.GetDefault(),
	}
}

func (s *service) OnSlotFreed(ctx context.Context, spaceID uuid.UUID, date time.Time) (*Outcome, error) {
	outcome := &Outcome{SpaceID: spaceID, Date: date}

	// Fail closed: an unverifiable window is never offered.
	result, err := s.checker.Check(ctx, spaceID, date, date, nil)
	if err != nil {
		return nil, fmt.Errorf("promotion aborted for space %s on %s: %w",
			spaceID, date.Format("2006-01-02"), err)
	}
	if !result.Available {
		outcome.Skipped = "window no longer available"
		return outcome, nil
	}

	candidate, err := s.waitlistSvc.NextCandidate(ctx, spaceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to pick waitlist candidate: %w", err)
	}
	if candidate == nil {
		outcome.Skipped = "waitlist empty"
		return outcome, nil
	}
	outcome.EntryID = &candidate.ID

	entry, err := s.waitlistSvc.Notify(ctx, candidate.ID.String(), defaultNotifyChannel)
	if err != nil {
		// A concurrent promoter already claimed this entry; not a failure.
		if apperrors.IsNotFound(err) {
			outcome.Skipped = "entry gone"
			return outcome, nil
		}
		if errors.Is(err, apperrors.ErrInvalidState) {
			outcome.Skipped = "entry already claimed"
			return outcome, nil
		}
		return nil, fmt.Errorf("failed to mark entry notified: %w", err)
	}
	outcome.Notified = true

	// Dispatch failures never roll back the notificado transition: the
	// entry stays claimed and retries go through the queue consumer.
	outcome.Dispatched = s.dispatch(ctx, entry, spaceID, date)

	record := &audit.ConversionRecord{
		OriginType:      audit.EntityWaitlistEntry,
		OriginID:        entry.ID,
		DestinationType: audit.EntitySpaceWindow,
		DestinationID:   &spaceID,
		Actor:           systemActor,
		Reason:          fmt.Sprintf("vaga liberada em %s, cliente notificado", date.Format("2006-01-02")),
	}
	if err := s.auditRepo.Append(ctx, record); err != nil {
		s.log.Error("failed to append promotion record",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log.Info("waitlist entry promoted",
		slog.String("entry_id", entry.ID.String()),
		slog.String("space_id", spaceID.String()),
		slog.String("date", date.Format("2006-01-02")),
		slog.Bool("dispatched", outcome.Dispatched),
	)
	return outcome, nil
}

func (s *service) dispatch(ctx context.Context, entry *waitlist.WaitlistEntry, spaceID uuid.UUID, date time.Time) bool {
	if s.enqueuer == nil {
		s.log.Warn("notification queue unavailable, skipping dispatch",
			slog.String("entry_id", entry.ID.String()),
		)
		return false
	}
	if !s.limiter.Allow() {
		s.log.Warn("notification dispatch throttled",
			slog.String("entry_id", entry.ID.String()),
		)
		return false
	}

	profile, err := s.waitlistSvc.ClientProfileFor(ctx, entry.ClientID)
	if err != nil {
		s.log.Error("failed to resolve notification recipient",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	payload := map[string]interface{}{
		"client_name":    profile.Name,
		"space_id":       spaceID.String(),
		"date":           date.Format("2006-01-02"),
		"preferred_time": entry.PreferredTime,
		"entry_id":       entry.ID.String(),
	}
	queueID, err := s.enqueuer.Enqueue(ctx, notifyTemplate, profile.Email, payload)
	if err != nil {
		s.log.Error("failed to enqueue notification",
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	s.log.Debug("notification enqueued",
		slog.String("entry_id", entry.ID.String()),
		slog.String("queue_id", queueID),
	)
	return true
}

func (s *service) RunPromotionSweep(ctx context.Context) (*SweepResult, error) {
	pairs, err := s.waitlistSvc.ActiveSpaceDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active waitlist windows: %w", err)
	}

	result := &SweepResult{RanAt: s.now().UTC()}
	for _, pair := range pairs {
		outcome, err := s.OnSlotFreed(ctx, pair.SpaceID, pair.Date)
		if err != nil {
			s.log.Error("promotion pass failed",
				slog.String("space_id", pair.SpaceID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.WindowsChecked++
		if outcome.Notified {
			result.Promoted++
		}
		result.Outcomes = append(result.Outcomes, *outcome)
	}

	s.log.Info("promotion sweep completed",
		slog.Int("windows_checked", result.WindowsChecked),
		slog.Int("promoted", result.Promoted),
	)
	return result, nil
}

func (s *service) RunExpirySweep(ctx context.Context) (*SweepResult, error) {
	expired, err := s.reservations.ExpireDue(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	result := &SweepResult{RanAt: s.now().UTC(), Expired: len(expired)}
	for _, reservation := range expired {
		outcome, err := s.OnSlotFreed(ctx, reservation.SpaceID, reservation.DateStart)
		if err != nil {
			s.log.Error("post-expiry promotion failed",
				slog.String("reservation_id", reservation.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.WindowsChecked++
		if outcome.Notified {
			result.Promoted++
		}
		result.Outcomes = append(result.Outcomes, *outcome)
	}
	return result, nil
}
