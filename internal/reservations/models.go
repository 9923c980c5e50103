package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes a 48h temporary hold from a confirmed booking.
type Kind string

const (
	KindTemporary Kind = "temporaria"
	KindConfirmed Kind = "confirmada"
)

// Reservation is a confirmed or temporary hold on a space window.
// Temporary reservations carry expires_at; confirmed ones never do.
type Reservation struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SpaceID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"space_id"`
	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Kind     Kind       `gorm:"column:tipo;type:varchar(20);not null;index" json:"tipo"`

	DateStart time.Time `gorm:"column:date_start;type:date;not null" json:"date_start"`
	DateEnd   time.Time `gorm:"column:date_end;type:date;not null" json:"date_end"`
	TimeStart string    `gorm:"column:time_start;type:varchar(5)" json:"time_start,omitempty"`
	TimeEnd   string    `gorm:"column:time_end;type:varchar(5)" json:"time_end,omitempty"`

	Status      Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	Description string     `json:"description,omitempty"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`

	// OriginID links a confirmed reservation back to the temporary hold
	// it was converted from.
	OriginID *uuid.UUID `gorm:"type:uuid;index" json:"origin_id,omitempty"`

	RequestedBy string `gorm:"column:solicitado_por;type:varchar(255)" json:"solicitado_por,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// IsTemporary reports whether the reservation is a time-boxed hold.
func (r *Reservation) IsTemporary() bool {
	return r.Kind == KindTemporary
}

// IsExpiredAt reports whether a temporary hold has passed its validity
// window at the given instant. The status itself only changes when the
// expiry sweep runs.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.Kind == KindTemporary && r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}
