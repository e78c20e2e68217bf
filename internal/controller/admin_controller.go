package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	// RegisterRoutes expects a router guarded by the JWT middleware and the admin role check.
	RegisterRoutes(r fiber.Router)
	ArchiveSweep(ctx *fiber.Ctx) error
	GetSystemLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	r.Post("/chats/archive-sweep", c.ArchiveSweep)
	r.Get("/logs", c.GetSystemLogs)
	r.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) ArchiveSweep(ctx *fiber.Ctx) error {
	res, err := c.service.ArchiveInactiveChats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Archive sweep completed", res))
}

func (c *adminController) GetSystemLogs(ctx *fiber.Ctx) error {
	var query dto.LogListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	logs, err := c.service.GetSystemLogs(ctx.Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs retrieved", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	entry, err := c.service.GetLogDetail(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail retrieved", entry))
}
