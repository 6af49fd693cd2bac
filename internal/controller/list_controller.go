package controller

import (
	"axon-assistant/internal/pkg/serverutils"
	"axon-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IListController interface {
	RegisterRoutes(r fiber.Router)
	Notes(ctx *fiber.Ctx) error
	Todos(ctx *fiber.Ctx) error
}

type listController struct {
	listService service.IListService
}

func NewListController(listService service.IListService) IListController {
	return &listController{listService: listService}
}

func (c *listController) RegisterRoutes(r fiber.Router) {
	r.Get("/notes", c.Notes)
	r.Get("/todos", c.Todos)
}

func (c *listController) Notes(ctx *fiber.Ctx) error {
	res, err := c.listService.Notes(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show notes", res))
}

func (c *listController) Todos(ctx *fiber.Ctx) error {
	res, err := c.listService.Todos(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show todos", res))
}
