package availability

import (
	"time"

	"github.com/google/uuid"
)

// Window is the requested time range for a space. A pure value object:
// it is never persisted on its own, only passed between checks.
type Window struct {
	SpaceID   uuid.UUID
	DateStart time.Time
	DateEnd   time.Time
	TimeStart string
	TimeEnd   string
}

// Conflicts carries the exact counts found for a window so callers can
// surface them verbatim.
type Conflicts struct {
	Reservations int `json:"reservations"`
	Blackouts    int `json:"blackouts"`
}

// Result is the outcome of an availability check.
type Result struct {
	Available bool      `json:"available"`
	Conflicts Conflicts `json:"conflicts"`
}
