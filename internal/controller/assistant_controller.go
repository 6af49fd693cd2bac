package controller

import (
	"errors"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/pkg/serverutils"
	"axon-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Command(ctx *fiber.Ctx) error
	PendingSelection(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	historyService   service.IHistoryService
}

func NewAssistantController(assistantService service.IAssistantService, historyService service.IHistoryService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		historyService:   historyService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant")
	h.Post("/command", c.Command)
	h.Get("/session/:id", c.PendingSelection)
	h.Get("/history", c.History)
}

func (c *assistantController) Command(ctx *fiber.Ctx) error {
	var req dto.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Handle(ctx.UserContext(), &req)
	if err != nil {
		return mapAssistantError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle command", res))
}

func (c *assistantController) PendingSelection(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.assistantService.PendingSelection(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *assistantController) History(ctx *fiber.Ctx) error {
	sessionId := uuid.Nil
	if raw := ctx.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
		}
		sessionId = id
	}

	res, err := c.historyService.Recent(ctx.UserContext(), sessionId, ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show history", res))
}

func mapAssistantError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidSessionId):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
