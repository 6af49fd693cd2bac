package dto

import "time"

const (
	WsTypeRender    = "render"
	WsTypeState     = "state"
	WsTypeDirective = "directive"

	DirectiveOpenCamera     = "open_camera"
	DirectiveStartRecording = "start_recording"
	DirectiveStopRecording  = "stop_recording"
)

// WsMessage is pushed to the session's output channel.
type WsMessage struct {
	Type      string    `json:"type"`
	Text      string    `json:"text,omitempty"`
	State     string    `json:"state,omitempty"`
	Directive string    `json:"directive,omitempty"`
	Facing    string    `json:"facing,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	At        time.Time `json:"at"`
}
