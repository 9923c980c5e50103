package database

import (
	"gorm.io/gorm"

	"reservio/internal/audit"
	"reservio/internal/clients"
	"reservio/internal/reservations"
	"reservio/internal/spaces"
	"reservio/internal/users"
	"reservio/internal/waitlist"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&clients.Client{},
		&spaces.Space{},
		&spaces.BlackoutPeriod{},
		&reservations.Reservation{},
		&waitlist.WaitlistEntry{},
		&audit.ConversionRecord{},
	)
}
