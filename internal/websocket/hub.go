package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/pkg/logger"
	"axon-assistant/pkg/device"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub routes assistant output to the WebSocket clients of each session.
// With Redis configured, output for sessions connected to another instance
// is fanned out over the cluster channel.
type Hub struct {
	// Registered clients: SessionID -> clients (a session may be open in several tabs)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	// closed once Run returns
	done chan struct{}

	// Pending recording uploads per session
	uploads map[uuid.UUID]chan []byte

	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger

	now        func() time.Time
	uploadWait time.Duration
}

var (
	_ device.OutputSink    = &Hub{}
	_ device.CaptureDevice = &Hub{}
)

type clusterEnvelope struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		uploads:    make(map[uuid.UUID]chan []byte),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
		now:        time.Now,
		uploadWait: 3 * time.Second,
	}
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
				h.logger.Info("Hub", "Session disconnected", map[string]interface{}{"session_id": client.SessionID})
			}
			h.mu.Unlock()
		}
	}
}

// registerClient reports false once the hub has stopped.
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected reports whether this instance holds a client for the session.
func (h *Hub) Connected(sessionID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID]) > 0
}

func (h *Hub) Render(ctx context.Context, sessionID, text string) error {
	return h.send(ctx, sessionID, dto.WsMessage{Type: dto.WsTypeRender, Text: text})
}

func (h *Hub) SetVisualState(ctx context.Context, sessionID string, state device.VisualState) error {
	return h.send(ctx, sessionID, dto.WsMessage{Type: dto.WsTypeState, State: string(state)})
}

func (h *Hub) send(ctx context.Context, sessionID string, msg dto.WsMessage) error {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return err
	}
	msg.At = h.now()
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.deliverLocal(sid, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{
			Origin:          h.instanceID,
			TargetSessionID: sid.String(),
			Message:         data,
		})
		if err := h.rdb.Publish(ctx, clusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Cluster publish failed", map[string]interface{}{"session_id": sid, "error": err.Error()})
		}
	}
	return nil
}

// deliverLocal never blocks: a client whose buffer is full misses the message.
func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
			delivered++
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
		}
	}
	return delivered
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var envelope clusterEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.Warn("Hub", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if envelope.Origin == h.instanceID {
		return
	}
	sid, err := uuid.Parse(envelope.TargetSessionID)
	if err != nil {
		return
	}
	h.deliverLocal(sid, envelope.Message)
}
