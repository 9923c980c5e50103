package clients

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone     string    `json:"phone" gorm:"size:30"`
	Company   string    `json:"company" gorm:"size:255"`
	Source    string    `json:"origem" gorm:"column:origem;size:50"`
	Notes     string    `json:"observacoes" gorm:"column:observacoes;type:text"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
