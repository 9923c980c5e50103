package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TemplateSlotAvailable   = "waitlist_slot_available"
	TemplateHoldConfirmed   = "reservation_hold_confirmed"
	TemplateHoldExpired     = "reservation_hold_expired"
	TemplateBookingUpgraded = "reservation_confirmed"
)

type MessageStatus string

const (
	StatusQueued  MessageStatus = "queued"
	StatusSending MessageStatus = "sending"
	StatusSent    MessageStatus = "sent"
	StatusFailed  MessageStatus = "failed"
)

// Message is the unit that travels through the outbound queue. The
// producer serializes it; consumer workers render and send it.
type Message struct {
	ID        uuid.UUID              `json:"id"`
	Template  string                 `json:"template"`
	Recipient string                 `json:"recipient"`
	Payload   map[string]interface{} `json:"payload"`
	Status    MessageStatus          `json:"status"`
	Attempts  int                    `json:"attempts"`
	CreatedAt time.Time              `json:"created_at"`
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// PartitionKey routes all messages for one recipient to one partition so
// they arrive in order.
func (m *Message) PartitionKey() string {
	if m.Recipient != "" {
		return m.Recipient
	}
	return m.ID.String()
}
