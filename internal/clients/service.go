package clients

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reservio/internal/shared/apperrors"
	"reservio/internal/waitlist"
)

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, search string, page, limit int) ([]Client, int64, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (*Client, error)
	Deactivate(ctx context.Context, id string) error

	// GetClientProfile satisfies waitlist.ClientDirectory.
	GetClientProfile(ctx context.Context, clientID uuid.UUID) (*waitlist.ClientProfile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check client email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicatef("client with email %s already exists", req.Email)
	}

	client := &Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  req.Source,
		Notes:   req.Notes,
		Active:  true,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *service) Get(ctx context.Context, id string) (*Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.InvalidArgumentf("invalid client id %q", id)
	}
	return s.repo.GetByID(ctx, clientID)
}

func (s *service) List(ctx context.Context, search string, page, limit int) ([]Client, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, search, page, limit)
}

func (s *service) Update(ctx context.Context, id string, req UpdateClientRequest) (*Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}
	if req.Source != "" {
		updates["origem"] = req.Source
	}
	if req.Notes != "" {
		updates["observacoes"] = req.Notes
	}
	if len(updates) == 0 {
		return client, nil
	}

	if err := s.repo.Update(ctx, client.ID, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, client.ID)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.InvalidArgumentf("invalid client id %q", id)
	}
	return s.repo.Deactivate(ctx, clientID)
}

func (s *service) GetClientProfile(ctx context.Context, clientID uuid.UUID) (*waitlist.ClientProfile, error) {
	client, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &waitlist.ClientProfile{
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Source:    client.Source,
		CreatedAt: client.CreatedAt,
	}, nil
}
