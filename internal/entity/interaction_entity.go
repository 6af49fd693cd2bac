package entity

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one handled utterance and what the assistant said back.
type Interaction struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Utterance string
	Reply     string
	Intent    string
	Source    string
	CreatedAt time.Time
}
