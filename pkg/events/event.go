package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
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

// Assistant domain events.
const (
	TypeNoteSaved      = "NOTE_SAVED"
	TypeTodoAdded      = "TODO_ADDED"
	TypeRecordingSaved = "RECORDING_SAVED"
)

func NewNoteSaved(sessionID, text string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeNoteSaved,
		Data:       map[string]interface{}{"session_id": sessionID, "text": text, "ts": at.UnixMilli()},
		OccurredAt: at,
	}
}

func NewTodoAdded(sessionID, task string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeTodoAdded,
		Data:       map[string]interface{}{"session_id": sessionID, "task": task, "ts": at.UnixMilli()},
		OccurredAt: at,
	}
}

func NewRecordingSaved(sessionID, name, path string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeRecordingSaved,
		Data:       map[string]interface{}{"session_id": sessionID, "name": name, "path": path, "ts": at.UnixMilli()},
		OccurredAt: at,
	}
}
