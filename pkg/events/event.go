package events

import "time"

// Event is the contract for operational events emitted by the backend.
type Event interface {
	// EventType returns the unique code for this event (e.g. "FULFILLMENT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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

// Event type codes emitted by the fulfillment backend.
const (
	TypeFulfillmentRequested = "FULFILLMENT_REQUESTED"
	TypeFulfillmentCompleted = "FULFILLMENT_COMPLETED"
	TypeSessionCleared       = "SESSION_CLEARED"
)
