package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/repository/memory"
	"axon-assistant/pkg/device"
	"axon-assistant/pkg/events"
	"axon-assistant/pkg/facts"
	"axon-assistant/pkg/fetch"
	"axon-assistant/pkg/lookup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeRetriever answers by the first route whose key appears in the URL.
type routeRetriever struct {
	mu     sync.Mutex
	routes map[string]string
	err    error
	hits   []string
}

func (r *routeRetriever) Retrieve(_ context.Context, rawURL string, _ ...fetch.Option) (*fetch.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, rawURL)
	if r.err != nil {
		return nil, r.err
	}
	for key, body := range r.routes {
		if !strings.Contains(rawURL, key) {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return fetch.Text(body, "allorigins"), nil
		}
		return fetch.Structured(v, fetch.SourcePrimary), nil
	}
	return nil, &fetch.RetrievalError{URL: rawURL}
}

type blockingRetriever struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRetriever) Retrieve(context.Context, string, ...fetch.Option) (*fetch.Result, error) {
	close(b.entered)
	<-b.release
	return fetch.Structured(map[string]any{"AbstractText": "done"}, fetch.SourcePrimary), nil
}

type panicRetriever struct{}

func (panicRetriever) Retrieve(context.Context, string, ...fetch.Option) (*fetch.Result, error) {
	panic("boom")
}

type recordingSink struct {
	mu     sync.Mutex
	texts  []string
	states []device.VisualState
}

func (s *recordingSink) Render(_ context.Context, _ string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordingSink) SetVisualState(_ context.Context, _ string, state device.VisualState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
	return nil
}

type fakeRecorder struct {
	started bool
	data    []byte
	stopErr error
}

func (r *fakeRecorder) Start(context.Context) error {
	r.started = true
	return nil
}

func (r *fakeRecorder) Stop(context.Context) (*device.Recording, error) {
	if r.stopErr != nil {
		return nil, r.stopErr
	}
	return &device.Recording{MimeType: device.RecordingMimeType, Data: r.data}, nil
}

type fakeCapture struct {
	recorder *fakeRecorder
	cameras  int
}

func (c *fakeCapture) OpenCamera(_ context.Context, _ string, facing device.Facing) (*device.StreamHandle, error) {
	c.cameras++
	return &device.StreamHandle{ID: "cam-1", Facing: facing}, nil
}

func (c *fakeCapture) OpenMicrophone(context.Context, string) (device.Recorder, error) {
	return c.recorder, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEvents) Publish(_ context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

type fakeHistory struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakeHistory) Publish(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type failingListRepo struct{}

func (failingListRepo) Load(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage("[]"), nil
}

func (failingListRepo) Prepend(context.Context, string, json.RawMessage) error {
	return errors.New("disk full")
}

type harness struct {
	svc       *assistantService
	retriever *routeRetriever
	sink      *recordingSink
	events    *fakeEvents
	history   *fakeHistory
	lists     IListService
	capture   *fakeCapture
	scheduled []func()
}

func newHarness(t *testing.T, routes map[string]string) *harness {
	t.Helper()
	h := &harness{
		retriever: &routeRetriever{routes: routes},
		sink:      &recordingSink{},
		events:    &fakeEvents{},
		history:   &fakeHistory{},
		lists:     NewListService(memory.NewListRepository()),
		capture:   &fakeCapture{recorder: &fakeRecorder{data: []byte("webm")}},
	}
	h.svc = newAssistantService(AssistantDependencies{
		Facts:      facts.NewStore(facts.Defaults("")...),
		Lookup:     lookup.NewClient(h.retriever, lookup.Endpoints{}),
		Sessions:   memory.NewSessionRepository(time.Minute),
		Lists:      h.lists,
		Capture:    h.capture,
		Recordings: device.NewRecordingStore(t.TempDir()),
		Sink:       h.sink,
		History:    h.history,
		Events:     h.events,
	}, AssistantOptions{RecordWindow: 8 * time.Second})
	h.svc.afterFunc = func(_ time.Duration, f func()) {
		h.scheduled = append(h.scheduled, f)
	}
	return h
}

func (h *harness) ask(t *testing.T, sessionId uuid.UUID, text string) *dto.CommandResponse {
	t.Helper()
	res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{SessionId: sessionId.String(), Text: text})
	require.NoError(t, err)
	return res
}

const parisSearch = `{"AbstractText":"","RelatedTopics":[{"Text":"Paris, France"},{"Text":"Paris, Texas"},{"Text":"Paris Hilton"},{"Text":"Paris Saint-Germain"}]}`

func TestHandle_FactBeatsClassifier(t *testing.T) {
	h := newHarness(t, nil)

	res := h.ask(t, uuid.New(), "Who are you")

	assert.Equal(t, "I am AXON, your personal AI assistant.", res.Reply)
	assert.Equal(t, "fact", res.Intent)
	assert.Equal(t, "local_facts", res.Source)
	assert.Equal(t, "speaking", res.State)
	assert.Empty(t, h.retriever.hits)
}

func TestHandle_Disambiguation(t *testing.T) {
	tests := []struct {
		choice string
		want   string
	}{
		{"2", "Paris, Texas"},
		{"hilton", "Paris Hilton"},
		{"9", "Choice not recognized"},
		{"london", "Choice not recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			h := newHarness(t, map[string]string{"duckduckgo": parisSearch})
			sid := uuid.New()

			first := h.ask(t, sid, "paris")
			assert.Equal(t, "I found multiple results. Say the number of the one you want.", first.Reply)
			assert.True(t, first.AwaitingSelection)
			assert.Equal(t, "listening", first.State)
			assert.Equal(t, []string{"Paris, France", "Paris, Texas", "Paris Hilton"}, first.Candidates)

			second := h.ask(t, sid, tt.choice)
			assert.Equal(t, tt.want, second.Reply)
			assert.Equal(t, "selection", second.Intent)
			assert.False(t, second.AwaitingSelection)

			pending, err := h.svc.PendingSelection(context.Background(), sid)
			require.NoError(t, err)
			assert.False(t, pending.AwaitingSelection)
		})
	}
}

func TestHandle_PendingSelectionIsPerSession(t *testing.T) {
	h := newHarness(t, map[string]string{"duckduckgo": parisSearch})
	a, b := uuid.New(), uuid.New()

	h.ask(t, a, "paris")

	pending, err := h.svc.PendingSelection(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, pending.AwaitingSelection)
	assert.Equal(t, "paris", pending.Query)
	require.NotNil(t, pending.ExpiresAt)

	other, err := h.svc.PendingSelection(context.Background(), b)
	require.NoError(t, err)
	assert.False(t, other.AwaitingSelection)
	assert.Empty(t, other.Candidates)
}

func TestHandle_CommandModeAbandonsSelection(t *testing.T) {
	h := newHarness(t, map[string]string{"duckduckgo": parisSearch})
	sid := uuid.New()
	h.ask(t, sid, "paris")

	res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{SessionId: sid.String(), Text: "who are you", Mode: dto.ModeCommand})
	require.NoError(t, err)
	assert.Equal(t, "I am AXON, your personal AI assistant.", res.Reply)

	pending, err := h.svc.PendingSelection(context.Background(), sid)
	require.NoError(t, err)
	assert.False(t, pending.AwaitingSelection)
}

func TestHandle_CommandDuringSelectionRunsAsCommand(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
		intent    string
	}{
		{"who are you", "I am AXON, your personal AI assistant.", "fact"},
		{"note buy milk", "Note saved", "note"},
		{"what can you do", "I can open camera, take picture, record voice, make calls, open WhatsApp, take notes, update todos, and search the web.", "fact"},
	}
	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			h := newHarness(t, map[string]string{"duckduckgo": parisSearch})
			sid := uuid.New()
			h.ask(t, sid, "paris")

			res := h.ask(t, sid, tt.utterance)
			assert.Equal(t, tt.want, res.Reply)
			assert.Equal(t, tt.intent, res.Intent)

			pending, err := h.svc.PendingSelection(context.Background(), sid)
			require.NoError(t, err)
			assert.False(t, pending.AwaitingSelection)
		})
	}
}

func TestHandle_SearchAbstract(t *testing.T) {
	h := newHarness(t, map[string]string{"duckduckgo": `{"AbstractText":"Go is a programming language.","RelatedTopics":[{"Text":"ignored"}]}`})

	res := h.ask(t, uuid.New(), "golang")

	assert.Equal(t, "Go is a programming language.", res.Reply)
	assert.Equal(t, "search", res.Intent)
	assert.False(t, res.AwaitingSelection)
}

func TestHandle_SearchFailures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		h := newHarness(t, nil)
		res := h.ask(t, uuid.New(), "golang")
		assert.Equal(t, "I could not reach the search service. Try reloading or check internet.", res.Reply)
	})
	t.Run("no answer", func(t *testing.T) {
		h := newHarness(t, map[string]string{"duckduckgo": `{"AbstractText":"","RelatedTopics":[]}`})
		res := h.ask(t, uuid.New(), "golang")
		assert.Equal(t, "I couldn't find an answer.", res.Reply)
	})
	t.Run("not json", func(t *testing.T) {
		h := newHarness(t, map[string]string{"duckduckgo": `<html>blocked</html>`})
		res := h.ask(t, uuid.New(), "golang")
		assert.Equal(t, "I couldn't find an answer.", res.Reply)
	})
}

func TestHandle_WhoIs(t *testing.T) {
	h := newHarness(t, map[string]string{"wikipedia": `{"title":"Ada Lovelace","extract":"Ada Lovelace was a mathematician."}`})

	res := h.ask(t, uuid.New(), "Who is Ada Lovelace")
	assert.Equal(t, "Ada Lovelace was a mathematician.", res.Reply)
	assert.Equal(t, "who_is", res.Intent)
	assert.Contains(t, h.retriever.hits[0], "summary/ada%20lovelace")

	missing := newHarness(t, nil)
	res = missing.ask(t, uuid.New(), "who is nobody")
	assert.Equal(t, "I couldn't find details on nobody", res.Reply)
}

func TestHandle_Currency(t *testing.T) {
	h := newHarness(t, map[string]string{"exchangerate": `{"base":"USD","rates":{"PKR":278.456}}`})

	res := h.ask(t, uuid.New(), "what is the dollar rate")
	assert.Equal(t, "One US dollar is approximately 278.46 Pakistani rupees.", res.Reply)

	empty := newHarness(t, map[string]string{"exchangerate": `{"base":"USD","rates":{}}`})
	res = empty.ask(t, uuid.New(), "usd to pkr")
	assert.Equal(t, "Currency lookup failed", res.Reply)
}

func TestHandle_Rating(t *testing.T) {
	h := newHarness(t, map[string]string{"tvmaze": `{"name":"Breaking Bad","rating":{"average":9.2}}`})

	res := h.ask(t, uuid.New(), "breaking bad rating")
	assert.Equal(t, "Breaking Bad is rated 9.2 out of 10.", res.Reply)
	assert.Contains(t, h.retriever.hits[0], "q=breaking+bad")

	unrated := newHarness(t, map[string]string{"tvmaze": `{"name":"Pilot","rating":{"average":null}}`})
	res = unrated.ask(t, uuid.New(), "rating of pilot")
	assert.Equal(t, "Rating lookup failed", res.Reply)
}

func TestHandle_Location(t *testing.T) {
	lat, lon := 24.8607, 67.0011

	t.Run("denied", func(t *testing.T) {
		h := newHarness(t, nil)
		res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{Text: "where am i", Location: &dto.LocationDTO{Error: "denied"}})
		require.NoError(t, err)
		assert.Equal(t, "Enable location permissions", res.Reply)
	})
	t.Run("unsupported without fallback", func(t *testing.T) {
		h := newHarness(t, nil)
		res := h.ask(t, uuid.New(), "where am i")
		assert.Equal(t, "Geolocation not supported", res.Reply)
	})
	t.Run("place name", func(t *testing.T) {
		h := newHarness(t, map[string]string{"nominatim": `{"address":{"city":"Karachi","state":"Sindh","country":"Pakistan"}}`})
		res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{Text: "what is my location", Location: &dto.LocationDTO{Latitude: &lat, Longitude: &lon}})
		require.NoError(t, err)
		assert.Equal(t, "You are in Karachi, Sindh, Pakistan", res.Reply)
	})
	t.Run("coordinates when geocoding fails", func(t *testing.T) {
		h := newHarness(t, nil)
		h.svc.opts.DefaultLocator = device.StaticLocator{Position: device.Position{Latitude: lat, Longitude: lon}}
		res := h.ask(t, uuid.New(), "where am i")
		assert.Equal(t, "Coordinates: 24.8607, 67.0011", res.Reply)
	})
	t.Run("coordinates when the address has no place", func(t *testing.T) {
		h := newHarness(t, map[string]string{"nominatim": `{"address":{"road":"Shahrah-e-Faisal"}}`})
		res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{Text: "where am i", Location: &dto.LocationDTO{Latitude: &lat, Longitude: &lon}})
		require.NoError(t, err)
		assert.Equal(t, "Coordinates: 24.8607, 67.0011", res.Reply)
		assert.Equal(t, "local", res.Source)
	})
	t.Run("weather", func(t *testing.T) {
		h := newHarness(t, map[string]string{"open-meteo": `{"current_weather":{"temperature":31.5,"windspeed":12}}`})
		res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{Text: "weather today", Location: &dto.LocationDTO{Latitude: &lat, Longitude: &lon}})
		require.NoError(t, err)
		assert.Equal(t, "Current temp 31.5°C, wind 12 m/s", res.Reply)
	})
	t.Run("weather without location", func(t *testing.T) {
		h := newHarness(t, nil)
		res := h.ask(t, uuid.New(), "weather")
		assert.Equal(t, "Weather lookup failed, allow location and check internet", res.Reply)
		assert.Empty(t, h.retriever.hits)
	})
}

func TestHandle_NotesAndTodos(t *testing.T) {
	h := newHarness(t, nil)
	sid := uuid.New()

	assert.Equal(t, "Note saved", h.ask(t, sid, "take a note buy milk").Reply)
	assert.Equal(t, "Note saved", h.ask(t, sid, "Note call mom").Reply)
	assert.Equal(t, "Task added", h.ask(t, sid, "add todo ship release").Reply)

	notes, err := h.lists.Notes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "call mom", notes[0].Text)
	assert.Equal(t, "buy milk", notes[1].Text)

	todos, err := h.lists.Todos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "ship release", todos[0].Task)
	assert.False(t, todos[0].Done)

	require.Len(t, h.events.events, 3)
	assert.Equal(t, events.TypeNoteSaved, h.events.events[0].EventType())
	assert.Equal(t, events.TypeTodoAdded, h.events.events[2].EventType())
}

func TestHandle_EmptyNoteAsks(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, "What should I note?", h.ask(t, uuid.New(), "note").Reply)
	assert.Equal(t, "What task?", h.ask(t, uuid.New(), "todo").Reply)

	notes, err := h.lists.Notes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Empty(t, h.events.events)
}

func TestHandle_PersistenceFailureIsSpoken(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.lists = NewListService(failingListRepo{})

	res := h.ask(t, uuid.New(), "note buy milk")
	assert.Equal(t, "Error processing command: save axon_notes: disk full", res.Reply)
}

func TestHandle_Camera(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, "Camera opened", h.ask(t, uuid.New(), "open camera").Reply)
	assert.Equal(t, 1, h.capture.cameras)

	h.svc.capture = device.Unavailable{}
	assert.Equal(t, "Cannot open camera", h.ask(t, uuid.New(), "take picture").Reply)
}

func TestHandle_Recording(t *testing.T) {
	h := newHarness(t, nil)
	sid := uuid.New()

	res := h.ask(t, sid, "record voice")
	assert.Equal(t, "Recording started for 8 seconds", res.Reply)
	assert.True(t, h.capture.recorder.started)
	require.Len(t, h.scheduled, 1)

	h.scheduled[0]()

	assert.Equal(t, "Recording saved", h.sink.texts[len(h.sink.texts)-1])
	require.Len(t, h.events.events, 1)
	saved := h.events.events[0]
	assert.Equal(t, events.TypeRecordingSaved, saved.EventType())

	path, _ := saved.Payload()["path"].(string)
	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "axon_voice_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("webm"), data)
}

func TestHandle_RecordingStopFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.capture.recorder.stopErr = errors.New("client gone")

	h.ask(t, uuid.New(), "start recording")
	require.Len(t, h.scheduled, 1)
	h.scheduled[0]()

	assert.Equal(t, "Recording failed", h.sink.texts[len(h.sink.texts)-1])
	assert.Empty(t, h.events.events)
}

func TestHandle_SessionBusy(t *testing.T) {
	h := newHarness(t, nil)
	blocker := &blockingRetriever{entered: make(chan struct{}), release: make(chan struct{})}
	h.svc.lookup = lookup.NewClient(blocker, lookup.Endpoints{})
	sid := uuid.New()

	done := make(chan *dto.CommandResponse, 1)
	go func() {
		res, _ := h.svc.Handle(context.Background(), &dto.CommandRequest{SessionId: sid.String(), Text: "golang"})
		done <- res
	}()
	<-blocker.entered

	_, err := h.svc.Handle(context.Background(), &dto.CommandRequest{SessionId: sid.String(), Text: "who are you"})
	assert.ErrorIs(t, err, ErrSessionBusy)

	other := h.ask(t, uuid.New(), "who are you")
	assert.Equal(t, "I am AXON, your personal AI assistant.", other.Reply)

	close(blocker.release)
	res := <-done
	require.NotNil(t, res)
	assert.Equal(t, "done", res.Reply)

	after := h.ask(t, sid, "who are you")
	assert.Equal(t, "I am AXON, your personal AI assistant.", after.Reply)
}

func TestHandle_PanicBecomesReply(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.lookup = lookup.NewClient(panicRetriever{}, lookup.Endpoints{})

	res := h.ask(t, uuid.New(), "golang")
	assert.Equal(t, "Error processing command: boom", res.Reply)
	assert.Equal(t, "speaking", res.State)
}

func TestHandle_EmptyTextIsIdle(t *testing.T) {
	h := newHarness(t, nil)

	res := h.ask(t, uuid.New(), "   ")
	assert.Equal(t, "idle", res.State)
	assert.Empty(t, res.Reply)
	assert.Empty(t, h.history.payloads)
	assert.Equal(t, []device.VisualState{device.StateIdle}, h.sink.states)
}

func TestHandle_InvalidSessionId(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.Handle(context.Background(), &dto.CommandRequest{SessionId: "not-a-uuid", Text: "hi"})
	assert.ErrorIs(t, err, ErrInvalidSessionId)
}

func TestHandle_NewSessionAndVoice(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.svc.Handle(context.Background(), &dto.CommandRequest{Text: "who am i", Voice: dto.VoiceJarvis})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Equal(t, "You are Haider Ali.", res.Reply)
	assert.Equal(t, dto.VoiceProfileDTO{Rate: 0.95, Pitch: 0.9, Lang: "en-US"}, res.Voice)
}

func TestHandle_PublishesInteractionAndRenders(t *testing.T) {
	h := newHarness(t, nil)
	sid := uuid.New()

	h.ask(t, sid, "what can you do")

	require.Len(t, h.history.payloads, 1)
	var msg dto.InteractionMessage
	require.NoError(t, json.Unmarshal(h.history.payloads[0], &msg))
	assert.Equal(t, sid, msg.SessionId)
	assert.Equal(t, "what can you do", msg.Utterance)
	assert.Equal(t, "fact", msg.Intent)

	assert.Equal(t, []device.VisualState{device.StateSpeaking}, h.sink.states)
	require.Len(t, h.sink.texts, 1)
}
