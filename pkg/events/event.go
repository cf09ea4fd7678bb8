package events

import (
	"context"
	"time"
)

const (
	TypeUserRegistered     = "USER_REGISTERED"
	TypeUserLogin          = "USER_LOGIN"
	TypePredictionRecorded = "PREDICTION_RECORDED"
	TypePredictionUnsaved  = "PREDICTION_UNSAVED"
	TypeInferenceFailed    = "INFERENCE_FAILED"
	TypeSessionDestroyed   = "SESSION_DESTROYED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to whatever bus is configured. Publishing is
// best effort; callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
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

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
