package websocket

import (
	"context"
	"errors"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/pkg/device"

	"github.com/google/uuid"
)

// OpenCamera asks the session's browser to open its camera. Only clients
// connected to this instance count.
func (h *Hub) OpenCamera(ctx context.Context, sessionID string, facing device.Facing) (*device.StreamHandle, error) {
	sid, err := h.connectedSession(sessionID, "camera")
	if err != nil {
		return nil, err
	}
	if err := h.send(ctx, sid.String(), dto.WsMessage{
		Type:      dto.WsTypeDirective,
		Directive: dto.DirectiveOpenCamera,
		Facing:    string(facing),
	}); err != nil {
		return nil, &device.CaptureError{Op: "camera", Err: err}
	}
	return &device.StreamHandle{ID: uuid.NewString(), Facing: facing, OpenedAt: h.now()}, nil
}

func (h *Hub) OpenMicrophone(_ context.Context, sessionID string) (device.Recorder, error) {
	sid, err := h.connectedSession(sessionID, "microphone")
	if err != nil {
		return nil, err
	}
	return &remoteRecorder{hub: h, sessionID: sid}, nil
}

func (h *Hub) connectedSession(sessionID, op string) (uuid.UUID, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, &device.CaptureError{Op: op, Err: err}
	}
	if !h.Connected(sid) {
		return uuid.Nil, &device.CaptureError{Op: op, Err: device.ErrNoClient}
	}
	return sid, nil
}

// acceptUpload hands a binary frame to the session's pending recording.
func (h *Hub) acceptUpload(sessionID uuid.UUID, data []byte) bool {
	h.mu.RLock()
	ch, ok := h.uploads[sessionID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case ch <- data:
		return true
	default:
		return false
	}
}

// remoteRecorder drives the browser's recorder through directives. The
// browser may upload the bytes as a binary frame after stop_recording.
// A session records one clip at a time.
type remoteRecorder struct {
	hub       *Hub
	sessionID uuid.UUID
	name      string
	upload    chan []byte
}

func (r *remoteRecorder) Start(ctx context.Context) error {
	r.hub.mu.Lock()
	if _, pending := r.hub.uploads[r.sessionID]; pending {
		r.hub.mu.Unlock()
		return &device.CaptureError{Op: "microphone", Err: device.ErrRecordingInProgress}
	}
	r.upload = make(chan []byte, 1)
	r.hub.uploads[r.sessionID] = r.upload
	r.hub.mu.Unlock()

	r.name = device.RecordingName(r.hub.now())
	if err := r.directive(ctx, dto.DirectiveStartRecording); err != nil {
		r.release()
		return err
	}
	return nil
}

func (r *remoteRecorder) Stop(ctx context.Context) (*device.Recording, error) {
	if r.upload == nil {
		return nil, &device.CaptureError{Op: "microphone", Err: errors.New("recorder not started")}
	}
	defer r.release()

	if err := r.directive(ctx, dto.DirectiveStopRecording); err != nil {
		return nil, err
	}

	rec := &device.Recording{Name: r.name, MimeType: device.RecordingMimeType}
	timer := time.NewTimer(r.hub.uploadWait)
	defer timer.Stop()
	select {
	case data := <-r.upload:
		rec.Data = data
	case <-timer.C:
	case <-ctx.Done():
	}
	return rec, nil
}

// release frees the session's upload slot if it is still ours.
func (r *remoteRecorder) release() {
	r.hub.mu.Lock()
	defer r.hub.mu.Unlock()
	if r.hub.uploads[r.sessionID] == r.upload {
		delete(r.hub.uploads, r.sessionID)
	}
}

func (r *remoteRecorder) directive(ctx context.Context, name string) error {
	if !r.hub.Connected(r.sessionID) {
		return &device.CaptureError{Op: "microphone", Err: device.ErrNoClient}
	}
	err := r.hub.send(ctx, r.sessionID.String(), dto.WsMessage{
		Type:      dto.WsTypeDirective,
		Directive: name,
		FileName:  r.name,
	})
	if err != nil {
		return &device.CaptureError{Op: "microphone", Err: err}
	}
	return nil
}
