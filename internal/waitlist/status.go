package waitlist

// Status of a waitlist entry. atendido and cancelado are terminal;
// entries leave the list only by explicit removal, never by transition.
type Status string

const (
	StatusActive    Status = "ativo"
	StatusNotified  Status = "notificado"
	StatusAttended  Status = "atendido"
	StatusCancelled Status = "cancelado"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusNotified, StatusAttended, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusAttended || s == StatusCancelled
}

var validTransitions = map[Status][]Status{
	StatusActive:    {StatusNotified, StatusAttended, StatusCancelled},
	StatusNotified:  {StatusAttended, StatusCancelled},
	StatusAttended:  {},
	StatusCancelled: {},
}

// CanTransitionTo checks the entry state machine.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
