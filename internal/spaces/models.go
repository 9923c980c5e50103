package spaces

import (
	"time"

	"github.com/google/uuid"
)

// Space is a bookable event space (salão, auditório, área externa).
type Space struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlackoutPeriod is an admin-defined unavailable window for a space.
// Immutable once created except for deletion, and always a hard conflict.
type BlackoutPeriod struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SpaceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"space_id"`
	DateStart time.Time `gorm:"column:date_start;type:date;not null" json:"date_start"`
	DateEnd   time.Time `gorm:"column:date_end;type:date;not null" json:"date_end"`
	TimeStart string    `gorm:"column:time_start;type:varchar(5)" json:"time_start,omitempty"`
	TimeEnd   string    `gorm:"column:time_end;type:varchar(5)" json:"time_end,omitempty"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`

	Space *Space `json:"space,omitempty" gorm:"foreignKey:SpaceID;constraint:OnDelete:CASCADE;"`
}

func (Space) TableName() string {
	return "spaces"
}

func (BlackoutPeriod) TableName() string {
	return "blackout_periods"
}
