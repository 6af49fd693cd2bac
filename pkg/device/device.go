package device

import (
	"context"
	"strconv"
	"time"
)

// Position is a WGS84 coordinate pair.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator acquires the user's current coordinates. Failures are *LocationError.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// VisualState is the indicator shown next to the assistant.
type VisualState string

const (
	StateIdle      VisualState = "idle"
	StateListening VisualState = "listening"
	StateSpeaking  VisualState = "speaking"
)

// OutputSink renders speakable text and the visual state for one conversation.
type OutputSink interface {
	Render(ctx context.Context, sessionID, text string) error
	SetVisualState(ctx context.Context, sessionID string, state VisualState) error
}

// Facing selects a camera.
type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// StreamHandle identifies an open camera stream.
type StreamHandle struct {
	ID       string    `json:"id"`
	Facing   Facing    `json:"facing"`
	OpenedAt time.Time `json:"opened_at"`
}

// Recording is the finished output of a Recorder. Data may be empty when the
// bytes stay on the client.
type Recording struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Recorder captures audio between Start and Stop.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*Recording, error)
}

// CaptureDevice opens camera and microphone for a conversation.
// Failures are *CaptureError.
type CaptureDevice interface {
	OpenCamera(ctx context.Context, sessionID string, facing Facing) (*StreamHandle, error)
	OpenMicrophone(ctx context.Context, sessionID string) (Recorder, error)
}

// RecordingName is the download name of a recording started at t.
func RecordingName(t time.Time) string {
	return "axon_voice_" + strconv.FormatInt(t.UnixMilli(), 10) + ".webm"
}

const RecordingMimeType = "audio/webm"

// DiscardSink drops all output.
type DiscardSink struct{}

func (DiscardSink) Render(context.Context, string, string) error { return nil }

func (DiscardSink) SetVisualState(context.Context, string, VisualState) error { return nil }
