package reservations

// Status of a reservation. For temporary holds only 'ativa' is live;
// every other status is terminal and ends the hold.
type Status string

const (
	StatusActive    Status = "ativa"
	StatusConverted Status = "convertida"
	StatusReleased  Status = "liberada"
	StatusExpired   Status = "expirada"
	StatusCancelled Status = "cancelado"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusConverted, StatusReleased, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition may leave this status.
func (s Status) IsTerminal() bool {
	return s != StatusActive
}

// CanTransitionTo checks the hold state machine: ativa may move to any
// terminal status, terminal statuses never move again.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusActive {
		return false
	}
	switch target {
	case StatusConverted, StatusReleased, StatusExpired, StatusCancelled:
		return true
	}
	return false
}
