package amqp

import (
	"encoding/json"
	"time"

	"masrofi/internal/notify"
)

// NotificationMessage is the queue payload for one notification. The
// notification fields are inlined; scheduled reminders carry notifyAt.
type NotificationMessage struct {
	notify.Notification
	PublishedAt time.Time `json:"publishedAt"`
}

// NewNotificationMessage stamps n with the current time.
func NewNotificationMessage(n notify.Notification) *NotificationMessage {
	return &NotificationMessage{
		Notification: n,
		PublishedAt:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON decodes a queue payload.
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
