package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntry is a client waiting for a space/date that is currently
// unavailable. Entries are totally ordered for promotion by
// (priority desc, score desc, created_at asc): priority is the explicit
// human override, score the computed business value, creation time the
// fairness tie-break.
type WaitlistEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	SpaceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"space_id"`

	DesiredDate   time.Time `gorm:"column:date_desejada;type:date;not null;index" json:"date_desejada"`
	PreferredTime string    `gorm:"column:horario_preferencial;type:varchar(5)" json:"horario_preferencial,omitempty"`

	Priority int `gorm:"not null;default:5" json:"priority"`
	Score    int `gorm:"not null;default:0" json:"score"`

	Status Status `gorm:"type:varchar(20);not null;index" json:"status"`

	EstimatedDealValue float64 `gorm:"column:valor_estimado_proposta" json:"valor_estimado_proposta,omitempty"`
	Source             string  `gorm:"column:origem;type:varchar(50)" json:"origem,omitempty"`

	Notes string `gorm:"column:observacoes;type:text" json:"observacoes,omitempty"`

	NotifiedAt    *time.Time `json:"notified_at,omitempty"`
	NotifyChannel string     `gorm:"type:varchar(20)" json:"notify_channel,omitempty"`

	AttendedAt         *time.Time `json:"attended_at,omitempty"`
	AttendedBy         string     `gorm:"column:atendido_por;type:varchar(255)" json:"atendido_por,omitempty"`
	AlternativeSpaceID *uuid.UUID `gorm:"type:uuid" json:"alternative_space_id,omitempty"`

	CancelReason string `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

// SpaceDate identifies a demanded (space, date) pair with active entries.
type SpaceDate struct {
	SpaceID uuid.UUID `gorm:"column:space_id"`
	Date    time.Time `gorm:"column:date_desejada"`
}

// Bounds for the caller-supplied priority.
const (
	MinPriority     = 1
	MaxPriority     = 10
	DefaultPriority = 5
)
