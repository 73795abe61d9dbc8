package bridge

import "time"

// Message is one front-end event mirrored to bridge clients.
type Message struct {
	Name       string    `json:"name"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"-"`
}

func (m Message) Type() string {
	return m.Name
}

func (m Message) Timestamp() time.Time {
	return m.OccurredAt
}
