package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"axon-assistant/pkg/device"
	"axon-assistant/pkg/events"

	"github.com/google/uuid"
)

const sourceDevice = "device"

var (
	notePrefix = regexp.MustCompile(`(?i)^(take a note|note)`)
	todoPrefix = regexp.MustCompile(`(?i)^(add to todo|add todo|add task|todo)`)
)

func (s *assistantService) camera(ctx context.Context, sessionId uuid.UUID) outcome {
	if _, err := s.capture.OpenCamera(ctx, sessionId.String(), device.FacingEnvironment); err != nil {
		s.logger.Warn("AssistantService", "Camera unavailable", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return outcome{text: msgCameraFailed, source: sourceDevice}
	}
	return outcome{text: msgCameraOpened, source: sourceDevice}
}

// startRecording arms the microphone and stops it once the record window
// elapses. The completion is reported through the sink, not the reply.
func (s *assistantService) startRecording(ctx context.Context, sessionId uuid.UUID) outcome {
	rec, err := s.capture.OpenMicrophone(ctx, sessionId.String())
	if err == nil {
		err = rec.Start(ctx)
	}
	if err != nil {
		s.logger.Warn("AssistantService", "Microphone unavailable", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return outcome{text: msgRecordingFailed, source: sourceDevice}
	}

	startedAt := s.now()
	s.afterFunc(s.opts.RecordWindow, func() {
		s.finishRecording(sessionId, rec, startedAt)
	})
	return outcome{
		text:   fmt.Sprintf(msgRecordingStarted, int(s.opts.RecordWindow/time.Second)),
		source: sourceDevice,
	}
}

func (s *assistantService) finishRecording(sessionId uuid.UUID, rec device.Recorder, startedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), recordingStopDeadline)
	defer cancel()

	sid := sessionId.String()
	recording, err := rec.Stop(ctx)
	path := ""
	if err == nil {
		if recording.Name == "" {
			recording.Name = device.RecordingName(startedAt)
		}
		if s.recordings != nil {
			path, err = s.recordings.Save(recording)
		}
	}
	if err != nil {
		s.logger.Error("AssistantService", "Recording failed", map[string]interface{}{"session_id": sid, "error": err.Error()})
		s.emit(ctx, sessionId, msgRecordingFailed, device.StateSpeaking)
		return
	}

	s.logger.Info("AssistantService", "Recording saved", map[string]interface{}{
		"session_id": sid,
		"name":       recording.Name,
		"path":       path,
	})
	s.publishEvent(events.NewRecordingSaved(sid, recording.Name, path, s.now()))
	s.emit(ctx, sessionId, msgRecordingSaved, device.StateSpeaking)
}

func (s *assistantService) note(ctx context.Context, sessionId uuid.UUID, text string) (outcome, error) {
	content := strings.TrimSpace(notePrefix.ReplaceAllString(text, ""))
	saved, err := s.lists.AddNote(ctx, content)
	if IsEmptyInputError(err) {
		return outcome{text: msgNoteEmpty, source: sourceLocal}, nil
	}
	if err != nil {
		return outcome{source: sourceLocal}, err
	}
	s.publishEvent(events.NewNoteSaved(sessionId.String(), saved.Text, time.UnixMilli(saved.Timestamp)))
	return outcome{text: msgNoteSaved, source: sourceLocal}, nil
}

func (s *assistantService) todo(ctx context.Context, sessionId uuid.UUID, text string) (outcome, error) {
	task := strings.TrimSpace(todoPrefix.ReplaceAllString(text, ""))
	saved, err := s.lists.AddTodo(ctx, task)
	if IsEmptyInputError(err) {
		return outcome{text: msgTaskEmpty, source: sourceLocal}, nil
	}
	if err != nil {
		return outcome{source: sourceLocal}, err
	}
	s.publishEvent(events.NewTodoAdded(sessionId.String(), saved.Task, time.UnixMilli(saved.Timestamp)))
	return outcome{text: msgTaskAdded, source: sourceLocal}, nil
}
