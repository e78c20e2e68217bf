package events

import (
	"context"
	"time"
)

const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeUserLogin      = "USER_LOGIN"
	TypeUserDeleted    = "USER_DELETED"
	TypeChatCreated    = "CHAT_CREATED"
	TypeChatArchived   = "CHAT_ARCHIVED"
	TypeMessageSent    = "MESSAGE_SENT"
)

// SubjectPrefix is prepended to the event type to form the bus subject.
const SubjectPrefix = "events."

// AllSubjects matches every event on the bus.
const AllSubjects = SubjectPrefix + ">"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func Subject(e Event) string {
	return SubjectPrefix + e.EventType()
}

// Envelope is the wire form shared by every bus implementation.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func ToEnvelope(e Event) Envelope {
	return Envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()}
}

func (e Envelope) Event() BaseEvent {
	return BaseEvent{Type: e.Type, Data: e.Data, OccurredAt: e.OccurredAt}
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Subscriber interface {
	// Subscribe registers handler for subjects matching pattern.
	// A trailing ">" matches any remaining tokens, as in NATS.
	Subscribe(ctx context.Context, pattern, durableName string, handler Handler) error
}

// SubjectMatches implements the subset of NATS subject matching the buses need.
func SubjectMatches(pattern, subject string) bool {
	if pattern == subject {
		return true
	}
	n := len(pattern)
	if n > 0 && pattern[n-1] == '>' {
		prefix := pattern[:n-1]
		return len(subject) > len(prefix) && subject[:len(prefix)] == prefix
	}
	return false
}
