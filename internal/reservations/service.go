package reservations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reservio/internal/audit"
	"reservio/internal/availability"
	"reservio/internal/shared/apperrors"
	"reservio/pkg/logger"
)

// Default validity window for a temporary hold.
const DefaultHoldTTL = 48 * time.Hour

type Service interface {
	// CreateTemporary places a 48h hold on a space window. Fails with a
	// conflict error carrying exact counts when the window is taken.
	CreateTemporary(ctx context.Context, req CreateReservationRequest, actor string) (*Reservation, error)

	Get(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, query ListQuery) ([]Reservation, int64, error)

	// Release ends an active hold early (ativa → liberada).
	Release(ctx context.Context, id string) error

	// Convert turns an active hold into a confirmed reservation copying
	// space, window and client, linked back via origin_id.
	Convert(ctx context.Context, id string, actor string) (*Reservation, error)

	// ExpireDue transitions every overdue active hold to 'expirada' and
	// returns them so freed windows can be offered to the waitlist.
	// Idempotent: a second run with the same instant is a no-op.
	ExpireDue(ctx context.Context, now time.Time) ([]Reservation, error)
}

type service struct {
	repo    Repository
	checker availability.Checker
	holdTTL time.Duration
	now     func() time.Time
	log     *logger.Logger
}

func NewService(repo Repository, checker availability.Checker, holdTTL time.Duration) Service {
	if holdTTL <= 0 {
		holdTTL = DefaultHoldTTL
	}
	return &service{
		repo:    repo,
		checker: checker,
		holdTTL: holdTTL,
		now:     time.Now,
		log:     logger.GetDefault(),
	}
}

func (s *service) CreateTemporary(ctx context.Context, req CreateReservationRequest, actor string) (*Reservation, error) {
	window, err := parseWindow(req.DateStart, req.DateEnd, req.TimeStart, req.TimeEnd)
	if err != nil {
		return nil, err
	}

	spaceID, err := uuid.Parse(req.SpaceID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", req.SpaceID)
	}

	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, apperrors.InvalidArgumentf("invalid client id %q", req.ClientID)
		}
		clientID = &parsed
	}

	// First pass gives the caller precise conflict counts. The insert
	// below re-checks under a lock, so a race can still only admit one.
	result, err := s.checker.Check(ctx, spaceID, window.dateStart, window.dateEnd, nil)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, &apperrors.ConflictError{
			Reservations: result.Conflicts.Reservations,
			Blackouts:    result.Conflicts.Blackouts,
		}
	}

	expiresAt := s.now().Add(s.holdTTL)
	reservation := &Reservation{
		SpaceID:     spaceID,
		ClientID:    clientID,
		Kind:        KindTemporary,
		DateStart:   window.dateStart,
		DateEnd:     window.dateEnd,
		TimeStart:   req.TimeStart,
		TimeEnd:     req.TimeEnd,
		Status:      StatusActive,
		Description: req.Description,
		ExpiresAt:   &expiresAt,
		RequestedBy: actor,
	}

	if err := s.repo.CreateWithConflictCheck(ctx, reservation); err != nil {
		return nil, err
	}

	s.log.Info("temporary reservation created",
		slog.String("reservation_id", reservation.ID.String()),
		slog.String("space_id", spaceID.String()),
		slog.Time("expires_at", expiresAt),
	)
	return reservation, nil
}

func (s *service) Get(ctx context.Context, id string) (*Reservation, error) {
	reservationID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid reservation id %q", id)
	}
	return s.repo.GetByID(ctx, reservationID)
}

func (s *service) List(ctx context.Context, query ListQuery) ([]Reservation, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *service) Release(ctx context.Context, id string) error {
	reservationID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.InvalidArgumentf("invalid reservation id %q", id)
	}

	changed, err := s.repo.TransitionIfActive(ctx, reservationID, StatusReleased)
	if err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	if !changed {
		return apperrors.NotFoundf("no active reservation %s to release", reservationID)
	}

	s.log.Info("reservation released", slog.String("reservation_id", reservationID.String()))
	return nil
}

func (s *service) Convert(ctx context.Context, id string, actor string) (*Reservation, error) {
	reservationID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid reservation id %q", id)
	}

	temp, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !temp.IsTemporary() {
		return nil, apperrors.InvalidStatef("reservation %s is not a temporary hold", reservationID)
	}
	if temp.Status != StatusActive {
		return nil, apperrors.InvalidStatef("cannot convert reservation %s in status %s", reservationID, temp.Status)
	}

	confirmed := &Reservation{
		SpaceID:     temp.SpaceID,
		ClientID:    temp.ClientID,
		Kind:        KindConfirmed,
		DateStart:   temp.DateStart,
		DateEnd:     temp.DateEnd,
		TimeStart:   temp.TimeStart,
		TimeEnd:     temp.TimeEnd,
		Status:      StatusActive,
		Description: temp.Description,
		OriginID:    &temp.ID,
		RequestedBy: actor,
	}

	record := &audit.ConversionRecord{
		OriginType:      audit.EntityTemporaryReservation,
		OriginID:        temp.ID,
		DestinationType: audit.EntityConfirmedReservation,
		Actor:           actor,
		Reason:          "conversao de reserva temporaria",
	}

	if err := s.repo.Convert(ctx, temp.ID, confirmed, record); err != nil {
		return nil, err
	}

	s.log.Info("temporary reservation converted",
		slog.String("origin_id", temp.ID.String()),
		slog.String("confirmed_id", confirmed.ID.String()),
		slog.String("actor", actor),
	)
	return confirmed, nil
}

func (s *service) ExpireDue(ctx context.Context, now time.Time) ([]Reservation, error) {
	expired, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("expiry sweep failed: %w", err)
	}
	if len(expired) > 0 {
		s.log.Info("expiry sweep completed", slog.Int("expired", len(expired)))
	}
	return expired, nil
}

type parsedWindow struct {
	dateStart time.Time
	dateEnd   time.Time
}

func parseWindow(dateStart, dateEnd, timeStart, timeEnd string) (*parsedWindow, error) {
	start, err := time.Parse("2006-01-02", dateStart)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid date_start %q", dateStart)
	}
	end, err := time.Parse("2006-01-02", dateEnd)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid date_end %q", dateEnd)
	}
	if end.Before(start) {
		return nil, apperrors.InvalidArgumentf("date_end %s precedes date_start %s", dateEnd, dateStart)
	}
	if start.Equal(end) && timeStart != "" && timeEnd != "" && timeEnd <= timeStart {
		return nil, apperrors.InvalidArgumentf("time_end %s must come after time_start %s", timeEnd, timeStart)
	}
	return &parsedWindow{dateStart: start, dateEnd: end}, nil
}
