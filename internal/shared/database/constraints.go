package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes and constraints AutoMigrate cannot
// express. They back up the status-guarded writes in the repositories:
// even a broken caller cannot persist a second active waitlist entry or
// speed past the conflict check.
func MigrateConstraints(db *gorm.DB) error {
	// One active waitlist entry per (client, space, desired date).
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_waitlist_active_entry
		ON waitlist_entries (client_id, space_id, date_desejada)
		WHERE status = 'ativo';
	`).Error
	if err != nil {
		return err
	}

	// Conflict checks scan active reservations per space and window.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_space_window
		ON reservations (space_id, date_start, date_end)
		WHERE status = 'ativa';
	`).Error
	if err != nil {
		return err
	}

	// The expiry sweep walks overdue active holds.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_expiry
		ON reservations (expires_at)
		WHERE status = 'ativa' AND tipo = 'temporaria';
	`).Error
	if err != nil {
		return err
	}

	// Candidate selection orders by (priority, score, created_at).
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_waitlist_candidate_order
		ON waitlist_entries (space_id, date_desejada, priority DESC, score DESC, created_at ASC)
		WHERE status = 'ativo';
	`).Error
	if err != nil {
		return err
	}

	// Blackout lookups per space and window.
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_blackouts_space_window
		ON blackout_periods (space_id, date_start, date_end);
	`).Error
}
