package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository appends and lists conversion records. There is intentionally
// no update or delete: the trail is append-only.
type Repository interface {
	Append(ctx context.Context, record *ConversionRecord) error
	AppendTx(tx *gorm.DB, record *ConversionRecord) error
	ListByOrigin(ctx context.Context, originType string, originID uuid.UUID) ([]ConversionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ConversionRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, record *ConversionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// AppendTx writes a record inside an already-open transaction, so state
// transitions and their audit trail commit together.
func (r *repository) AppendTx(tx *gorm.DB, record *ConversionRecord) error {
	return tx.Create(record).Error
}

func (r *repository) ListByOrigin(ctx context.Context, originType string, originID uuid.UUID) ([]ConversionRecord, error) {
	var records []ConversionRecord
	err := r.db.WithContext(ctx).
		Where("origin_type = ? AND origin_id = ?", originType, originID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]ConversionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var records []ConversionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
