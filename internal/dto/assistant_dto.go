package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	ModeAuto    = "auto"
	ModeCommand = "command"

	VoiceDefault = "default"
	VoiceJarvis  = "jarvis"
)

type LocationDTO struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	// Error reports why the client could not locate: "denied" or "unsupported".
	Error string `json:"error" validate:"omitempty,oneof=denied unsupported"`
}

type CommandRequest struct {
	SessionId string       `json:"session_id" validate:"omitempty,uuid"`
	Text      string       `json:"text" validate:"required,max=1000"`
	Mode      string       `json:"mode" validate:"omitempty,oneof=auto command"`
	Voice     string       `json:"voice" validate:"omitempty,oneof=default jarvis"`
	Location  *LocationDTO `json:"location" validate:"omitempty"`
}

type VoiceProfileDTO struct {
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
	Lang  string  `json:"lang"`
}

type CommandResponse struct {
	SessionId         uuid.UUID       `json:"session_id"`
	Reply             string          `json:"reply"`
	State             string          `json:"state"`
	Intent            string          `json:"intent"`
	AwaitingSelection bool            `json:"awaiting_selection"`
	Candidates        []string        `json:"candidates"`
	Voice             VoiceProfileDTO `json:"voice"`
	Source            string          `json:"source"`
}

type PendingSelectionResponse struct {
	SessionId         uuid.UUID  `json:"session_id"`
	AwaitingSelection bool       `json:"awaiting_selection"`
	Query             string     `json:"query,omitempty"`
	Candidates        []string   `json:"candidates"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

type InteractionResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Utterance string    `json:"utterance"`
	Reply     string    `json:"reply"`
	Intent    string    `json:"intent"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionMessage is the history bus payload.
type InteractionMessage struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Utterance string    `json:"utterance"`
	Reply     string    `json:"reply"`
	Intent    string    `json:"intent"`
	Source    string    `json:"source"`
	At        time.Time `json:"at"`
}
