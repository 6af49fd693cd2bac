package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/pkg/logger"
	"axon-assistant/internal/repository/contract"
	"axon-assistant/pkg/device"
	"axon-assistant/pkg/events"
	"axon-assistant/pkg/facts"
	"axon-assistant/pkg/intent"
	"axon-assistant/pkg/lookup"
	"axon-assistant/pkg/store"

	"github.com/google/uuid"
)

var ErrInvalidSessionId = errors.New("invalid session id")

const (
	sourceFacts = "local_facts"
	sourceLocal = "local"

	intentFact      = "fact"
	intentSelection = "selection"
	intentPanic     = "error"

	defaultSessionTTL     = 60 * time.Second
	defaultRecordWindow   = 8 * time.Second
	defaultEventTimeout   = 3 * time.Second
	recordingStopDeadline = 10 * time.Second
)

type IAssistantService interface {
	Handle(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error)
	PendingSelection(ctx context.Context, sessionId uuid.UUID) (*dto.PendingSelectionResponse, error)
}

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// AfterFunc schedules f once d has elapsed.
type AfterFunc func(d time.Duration, f func())

type AssistantOptions struct {
	SessionTTL     time.Duration
	RecordWindow   time.Duration
	DefaultVoice   string
	DefaultLocator device.Locator // used when a request carries no location
	EventTimeout   time.Duration
}

type AssistantDependencies struct {
	Facts      *facts.Store
	Classifier *intent.Classifier
	Lookup     *lookup.Client
	Sessions   contract.SessionRepository
	Lists      IListService
	Capture    device.CaptureDevice
	Recordings *device.RecordingStore
	Sink       device.OutputSink
	History    IPublisherService // optional
	Events     EventPublisher    // optional
	Logger     logger.ILogger
}

type assistantService struct {
	facts      *facts.Store
	classifier *intent.Classifier
	lookup     *lookup.Client
	sessions   contract.SessionRepository
	lists      IListService
	capture    device.CaptureDevice
	recordings *device.RecordingStore
	sink       device.OutputSink
	history    IPublisherService
	events     EventPublisher
	logger     logger.ILogger

	opts      AssistantOptions
	now       func() time.Time
	afterFunc AfterFunc

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// outcome is what one utterance produced.
type outcome struct {
	text       string
	intent     string
	source     string
	candidates []string
}

func NewAssistantService(deps AssistantDependencies, opts AssistantOptions) IAssistantService {
	return newAssistantService(deps, opts)
}

func newAssistantService(deps AssistantDependencies, opts AssistantOptions) *assistantService {
	if deps.Classifier == nil {
		deps.Classifier = intent.NewClassifier()
	}
	if deps.Facts == nil {
		deps.Facts = facts.NewStore(facts.Defaults("")...)
	}
	if deps.Capture == nil {
		deps.Capture = device.Unavailable{}
	}
	if deps.Sink == nil {
		deps.Sink = device.DiscardSink{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.RecordWindow <= 0 {
		opts.RecordWindow = defaultRecordWindow
	}
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = defaultEventTimeout
	}

	return &assistantService{
		facts:      deps.Facts,
		classifier: deps.Classifier,
		lookup:     deps.Lookup,
		sessions:   deps.Sessions,
		lists:      deps.Lists,
		capture:    deps.Capture,
		recordings: deps.Recordings,
		sink:       deps.Sink,
		history:    deps.History,
		events:     deps.Events,
		logger:     deps.Logger,
		opts:       opts,
		now:        time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// Handle answers one utterance. The only errors are a malformed session id
// and ErrSessionBusy; every other failure is spoken.
func (s *assistantService) Handle(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	sessionId, err := parseSessionId(req.SessionId)
	if err != nil {
		return nil, err
	}

	if !s.acquire(sessionId) {
		s.logger.Warn("AssistantService", "Rejected concurrent command", map[string]interface{}{"session_id": sessionId})
		return nil, ErrSessionBusy
	}
	defer s.release(sessionId)

	res := &dto.CommandResponse{
		SessionId:  sessionId,
		Voice:      voiceProfile(req.Voice, s.opts.DefaultVoice),
		Candidates: []string{},
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		res.State = string(device.StateIdle)
		s.emit(ctx, sessionId, "", device.StateIdle)
		return res, nil
	}

	start := time.Now()
	out := s.run(ctx, sessionId, text, req.Mode, s.locatorFor(req.Location))

	state := device.StateSpeaking
	if len(out.candidates) > 0 {
		state = device.StateListening
		res.AwaitingSelection = true
		res.Candidates = out.candidates
	}
	res.Reply = out.text
	res.State = string(state)
	res.Intent = out.intent
	res.Source = out.source

	s.emit(ctx, sessionId, out.text, state)
	s.publishInteraction(ctx, sessionId, text, out)

	s.logger.Info("AssistantService", "Command handled", map[string]interface{}{
		"session_id": sessionId,
		"intent":     out.intent,
		"source":     out.source,
		"state":      state,
		"latency":    time.Since(start).String(),
	})
	return res, nil
}

func (s *assistantService) PendingSelection(_ context.Context, sessionId uuid.UUID) (*dto.PendingSelectionResponse, error) {
	res := &dto.PendingSelectionResponse{
		SessionId:  sessionId,
		Candidates: []string{},
	}
	pending, ok := s.sessions.Get(sessionId.String())
	if !ok {
		return res, nil
	}
	expiresAt := pending.ExpiresAt
	res.AwaitingSelection = true
	res.Query = pending.LastQuery
	res.Candidates = pending.Candidates
	res.ExpiresAt = &expiresAt
	return res, nil
}

// run never fails: unanticipated errors and panics become the catch-all reply.
func (s *assistantService) run(ctx context.Context, sessionId uuid.UUID, text, mode string, locator device.Locator) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("AssistantService", "Recovered from panic", map[string]interface{}{
				"session_id": sessionId,
				"panic":      fmt.Sprint(r),
			})
			out = outcome{text: msgUnexpectedError + fmt.Sprint(r), intent: intentPanic}
		}
	}()

	var err error
	out, err = s.respond(ctx, sessionId, text, mode, locator)
	if err != nil {
		s.logger.Error("AssistantService", "Command failed", map[string]interface{}{
			"session_id": sessionId,
			"intent":     out.intent,
			"error":      err.Error(),
		})
		return outcome{text: msgUnexpectedError + err.Error(), intent: out.intent}
	}
	return out
}

func (s *assistantService) respond(ctx context.Context, sessionId uuid.UUID, text, mode string, locator device.Locator) (outcome, error) {
	key := sessionId.String()
	if pending, ok := s.sessions.Get(key); ok {
		// a pending selection is consumed by the next utterance whatever it says
		s.sessions.Delete(key)
		if mode != dto.ModeCommand {
			if choice, ok := pending.Select(text); ok {
				return outcome{text: choice, intent: intentSelection, source: sourceLocal}, nil
			}
			if !s.isTopLevelCommand(text) {
				return outcome{text: msgChoiceUnknown, intent: intentSelection, source: sourceLocal}, nil
			}
		}
		s.logger.Debug("AssistantService", "Pending selection abandoned", map[string]interface{}{"session_id": sessionId})
	}

	if answer, ok := s.facts.Lookup(text); ok {
		return outcome{text: answer, intent: intentFact, source: sourceFacts}, nil
	}

	in, rule := s.classifier.ClassifyWithRule(text)
	s.logger.Debug("AssistantService", "Classified utterance", map[string]interface{}{
		"session_id": sessionId,
		"rule":       rule,
		"intent":     in.Kind,
	})

	out, err := s.dispatch(ctx, sessionId, text, in, locator)
	out.intent = string(in.Kind)
	return out, err
}

func (s *assistantService) dispatch(ctx context.Context, sessionId uuid.UUID, text string, in intent.Intent, locator device.Locator) (outcome, error) {
	switch in.Kind {
	case intent.KindWhoIs:
		return s.whoIs(ctx, in.Subject), nil
	case intent.KindWhereAmI:
		return s.whereAmI(ctx, locator), nil
	case intent.KindWeather:
		return s.weather(ctx, locator), nil
	case intent.KindCurrency:
		return s.currency(ctx, in.Pair), nil
	case intent.KindRating:
		subject := in.Subject
		if subject == "" {
			subject = text
		}
		return s.rating(ctx, subject), nil
	case intent.KindCamera:
		return s.camera(ctx, sessionId), nil
	case intent.KindRecord:
		return s.startRecording(ctx, sessionId), nil
	case intent.KindNote:
		return s.note(ctx, sessionId, text)
	case intent.KindTodo:
		return s.todo(ctx, sessionId, text)
	case intent.KindCapabilities:
		return outcome{text: msgCapabilities, source: sourceLocal}, nil
	default:
		return s.search(ctx, sessionId, in.Query), nil
	}
}

// isTopLevelCommand reports whether an utterance that picked no candidate
// is a command of its own: a known fact or any intent other than search.
func (s *assistantService) isTopLevelCommand(text string) bool {
	if store.IsIndex(text) {
		return false
	}
	if _, ok := s.facts.Lookup(text); ok {
		return true
	}
	return s.classifier.Classify(text).Kind != intent.KindSearch
}

func (s *assistantService) locatorFor(loc *dto.LocationDTO) device.Locator {
	rl := device.RequestLocator{Fallback: s.opts.DefaultLocator}
	if loc == nil {
		return rl
	}
	if loc.Error != "" {
		rl.Reason = device.LocationReason(loc.Error)
	} else if loc.Latitude != nil && loc.Longitude != nil {
		rl.Position = &device.Position{Latitude: *loc.Latitude, Longitude: *loc.Longitude}
	}
	return rl
}

func (s *assistantService) emit(ctx context.Context, sessionId uuid.UUID, text string, state device.VisualState) {
	sid := sessionId.String()
	if err := s.sink.SetVisualState(ctx, sid, state); err != nil {
		s.logger.Debug("AssistantService", "Sink state update failed", map[string]interface{}{"session_id": sid, "error": err.Error()})
	}
	if text == "" {
		return
	}
	if err := s.sink.Render(ctx, sid, text); err != nil {
		s.logger.Debug("AssistantService", "Sink render failed", map[string]interface{}{"session_id": sid, "error": err.Error()})
	}
}

func (s *assistantService) publishInteraction(ctx context.Context, sessionId uuid.UUID, utterance string, out outcome) {
	if s.history == nil {
		return
	}
	raw, err := json.Marshal(dto.InteractionMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Utterance: utterance,
		Reply:     out.text,
		Intent:    out.intent,
		Source:    out.source,
		At:        s.now(),
	})
	if err != nil {
		return
	}
	if err := s.history.Publish(ctx, raw); err != nil {
		s.logger.Warn("AssistantService", "Failed to publish interaction", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
}

func (s *assistantService) publishEvent(event events.Event) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.EventTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("AssistantService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *assistantService) acquire(sessionId uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionId]; busy {
		return false
	}
	s.inflight[sessionId] = struct{}{}
	return true
}

func (s *assistantService) release(sessionId uuid.UUID) {
	s.mu.Lock()
	delete(s.inflight, sessionId)
	s.mu.Unlock()
}

func parseSessionId(raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidSessionId, raw)
	}
	return id, nil
}
