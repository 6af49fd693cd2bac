package device

import (
	"errors"
	"fmt"
)

type LocationReason string

const (
	LocationUnsupported LocationReason = "unsupported"
	LocationDenied      LocationReason = "denied"
)

// LocationError means coordinates could not be acquired.
type LocationError struct {
	Reason LocationReason
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("location %s", e.Reason)
}

func IsLocationError(err error) bool {
	var le *LocationError
	return errors.As(err, &le)
}

// CaptureError means a camera or microphone could not be used.
type CaptureError struct {
	Op  string // "camera" or "microphone"
	Err error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return e.Op + " unavailable"
	}
	return fmt.Sprintf("%s unavailable: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

func IsCaptureError(err error) bool {
	var ce *CaptureError
	return errors.As(err, &ce)
}

// ErrNoClient is wrapped by CaptureError when nobody is connected to capture for.
var ErrNoClient = errors.New("no connected client")

// ErrRecordingInProgress is wrapped by CaptureError when the session already records.
var ErrRecordingInProgress = errors.New("recording already in progress")
