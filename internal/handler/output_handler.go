package handler

import (
	"axon-assistant/internal/pkg/logger"
	internalWS "axon-assistant/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// OutputHandler upgrades a session's output channel.
type OutputHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewOutputHandler(hub *internalWS.Hub, log logger.ILogger) *OutputHandler {
	return &OutputHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *OutputHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "session_id query parameter must be a uuid")
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("OutputHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("OutputHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *OutputHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/assistant/ws", h.ServeWs)
}
