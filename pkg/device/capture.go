package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Unavailable is a capture device with no hardware behind it.
type Unavailable struct{}

func (Unavailable) OpenCamera(context.Context, string, Facing) (*StreamHandle, error) {
	return nil, &CaptureError{Op: "camera", Err: ErrNoClient}
}

func (Unavailable) OpenMicrophone(context.Context, string) (Recorder, error) {
	return nil, &CaptureError{Op: "microphone", Err: ErrNoClient}
}

// RecordingStore writes finished recordings under Dir.
type RecordingStore struct {
	Dir string
}

func NewRecordingStore(dir string) *RecordingStore {
	return &RecordingStore{Dir: dir}
}

// Save writes rec to disk and returns its path. Recordings without bytes
// are left to the client and return "".
func (s *RecordingStore) Save(rec *Recording) (string, error) {
	if rec == nil || len(rec.Data) == 0 {
		return "", nil
	}
	name := filepath.Base(rec.Name)
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, "..") {
		return "", fmt.Errorf("invalid recording name %q", rec.Name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create recordings dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, rec.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write recording: %w", err)
	}
	return path, nil
}
