package audit

import (
	"time"

	"github.com/google/uuid"
)

// Origin/destination entity kinds recorded on a conversion event.
const (
	EntityTemporaryReservation = "reserva_temporaria"
	EntityConfirmedReservation = "reserva_confirmada"
	EntityWaitlistEntry        = "fila_espera"
	EntitySpaceWindow          = "janela_espaco"
)

// ConversionRecord is the append-only audit trail written whenever a
// temporary hold becomes a confirmed reservation or a waitlist entry is
// promoted. Records are never updated or deleted.
type ConversionRecord struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OriginType      string     `gorm:"type:varchar(40);not null;index" json:"origin_type"`
	OriginID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"origin_id"`
	DestinationType string     `gorm:"type:varchar(40);not null" json:"destination_type"`
	DestinationID   *uuid.UUID `gorm:"type:uuid" json:"destination_id,omitempty"`
	Actor           string     `gorm:"type:varchar(255);not null" json:"actor"`
	Reason          string     `json:"reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (ConversionRecord) TableName() string {
	return "conversion_records"
}
