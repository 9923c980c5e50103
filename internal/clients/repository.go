package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reservio/internal/shared/apperrors"
)

type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, search string, page, limit int) ([]Client, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, client *Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("client %s", id)
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).First(&client, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("client with email %s", email)
		}
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, search string, page, limit int) ([]Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&Client{}).Where("active = ?", true)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Client
	err := query.
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Client{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("client %s", id)
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.Update(ctx, id, map[string]interface{}{"active": false})
}
