package controller

import (
	"fmt"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	// RegisterRoutes expects a router already guarded by the JWT middleware.
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Dashboard(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Statistics(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/", c.Create)
	r.Get("/", c.List)
	r.Get("/dashboard", c.Dashboard)
	r.Get("/:chatId", c.Show)
	r.Put("/:chatId", c.Update)
	r.Delete("/:chatId", c.Delete)
	r.Get("/:chatId/statistics", c.Statistics)
	r.Get("/:chatId/export", c.Export)
}

// chatScope resolves the caller and the chat id route parameter.
func chatScope(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	chatId, err := serverutils.ParseUUIDParam(ctx, "chatId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userId, chatId, nil
}

func (c *chatController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Chat created successfully", res))
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var query dto.ChatListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.GetUserChats(ctx.Context(), userId, query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chats retrieved", res))
}

func (c *chatController) Dashboard(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetDashboardData(ctx.Context(), userId, ctx.QueryInt("days", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard data retrieved", res))
}

func (c *chatController) Show(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetChatById(ctx.Context(), chatId, userId, ctx.QueryBool("includeMessages", true))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat retrieved", res))
}

func (c *chatController) Update(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateChat(ctx.Context(), chatId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat updated successfully", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	permanent := ctx.QueryBool("permanent", false)
	if err := c.service.DeleteChat(ctx.Context(), chatId, userId, permanent); err != nil {
		return err
	}
	message := "Chat deleted successfully"
	if permanent {
		message = "Chat permanently deleted"
	}
	return ctx.JSON(serverutils.SuccessResponse[any](message, nil))
}

func (c *chatController) Statistics(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetChatStatistics(ctx.Context(), chatId, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat statistics retrieved", res))
}

// Export streams the file itself rather than the JSON envelope.
func (c *chatController) Export(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.ExportChat(ctx.Context(), chatId, userId, ctx.Query("format", service.ExportFormatJSON))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, res.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	return ctx.Send(res.Body)
}
