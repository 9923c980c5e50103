package spaces

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reservio/internal/shared/apperrors"
	"reservio/pkg/cache"
)

type Service interface {
	CreateSpace(ctx context.Context, req CreateSpaceRequest) (*Space, error)
	GetSpace(ctx context.Context, id string) (*Space, error)
	ListSpaces(ctx context.Context, activeOnly bool) ([]Space, error)
	UpdateSpace(ctx context.Context, id string, req UpdateSpaceRequest) (*Space, error)
	DeleteSpace(ctx context.Context, id string) error

	CreateBlackout(ctx context.Context, req CreateBlackoutRequest) (*BlackoutPeriod, error)
	ListBlackouts(ctx context.Context, spaceID string) ([]BlackoutPeriod, error)
	DeleteBlackout(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cache cache.Service
}

const spaceCacheTTL = 10 * time.Minute

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) CreateSpace(ctx context.Context, req CreateSpaceRequest) (*Space, error) {
	existing, err := s.repo.GetSpaceByName(ctx, req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check space name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicatef("space named %q already exists", req.Name)
	}

	space := &Space{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Active:      true,
	}
	if err := s.repo.CreateSpace(ctx, space); err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}

	s.invalidateSpaceCache(ctx)
	return space, nil
}

func (s *service) GetSpace(ctx context.Context, id string) (*Space, error) {
	spaceID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", id)
	}

	if s.cache != nil {
		var cached Space
		if err := s.cache.Get(ctx, spaceCacheKey(spaceID), &cached); err == nil {
			return &cached, nil
		}
	}

	space, err := s.repo.GetSpaceByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, spaceCacheKey(spaceID), space, spaceCacheTTL)
	}
	return space, nil
}

func (s *service) ListSpaces(ctx context.Context, activeOnly bool) ([]Space, error) {
	return s.repo.ListSpaces(ctx, activeOnly)
}

func (s *service) UpdateSpace(ctx context.Context, id string, req UpdateSpaceRequest) (*Space, error) {
	spaceID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", id)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return nil, apperrors.InvalidArgumentf("no fields to update")
	}

	if err := s.repo.UpdateSpace(ctx, spaceID, updates); err != nil {
		return nil, err
	}

	s.invalidateSpaceCache(ctx)
	return s.repo.GetSpaceByID(ctx, spaceID)
}

func (s *service) DeleteSpace(ctx context.Context, id string) error {
	spaceID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.InvalidArgumentf("invalid space id %q", id)
	}
	if err := s.repo.DeleteSpace(ctx, spaceID); err != nil {
		return err
	}
	s.invalidateSpaceCache(ctx)
	return nil
}

func (s *service) CreateBlackout(ctx context.Context, req CreateBlackoutRequest) (*BlackoutPeriod, error) {
	spaceID, err := uuid.Parse(req.SpaceID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", req.SpaceID)
	}

	dateStart, err := time.Parse("2006-01-02", req.DateStart)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid date_start %q", req.DateStart)
	}
	dateEnd, err := time.Parse("2006-01-02", req.DateEnd)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid date_end %q", req.DateEnd)
	}
	if dateEnd.Before(dateStart) {
		return nil, apperrors.InvalidArgumentf("date_end precedes date_start")
	}

	// Blackouts always reference an existing space.
	if _, err := s.repo.GetSpaceByID(ctx, spaceID); err != nil {
		return nil, err
	}

	blackout := &BlackoutPeriod{
		SpaceID:   spaceID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
		Reason:    req.Reason,
	}
	if err := s.repo.CreateBlackout(ctx, blackout); err != nil {
		return nil, fmt.Errorf("failed to create blackout period: %w", err)
	}
	return blackout, nil
}

func (s *service) ListBlackouts(ctx context.Context, spaceID string) ([]BlackoutPeriod, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid space id %q", spaceID)
	}
	return s.repo.ListBlackoutsBySpace(ctx, id)
}

func (s *service) DeleteBlackout(ctx context.Context, id string) error {
	blackoutID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.InvalidArgumentf("invalid blackout id %q", id)
	}
	return s.repo.DeleteBlackout(ctx, blackoutID)
}

func (s *service) invalidateSpaceCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, "reservio:space:*")
	}
}

func spaceCacheKey(id uuid.UUID) string {
	return "reservio:space:" + id.String()
}
