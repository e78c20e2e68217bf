package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMessageController interface {
	// RegisterRoutes expects the authenticated /chat router.
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	DeleteThread(ctx *fiber.Ctx) error
}

type messageController struct {
	service      service.IMessageService
	messageLimit fiber.Handler
}

func NewMessageController(service service.IMessageService, messageLimit fiber.Handler) IMessageController {
	return &messageController{
		service:      service,
		messageLimit: messageLimit,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	r.Post("/:chatId/messages", c.messageLimit, c.Send)
	r.Post("/:chatId/messages/add", c.messageLimit, c.Add)
	r.Get("/:chatId/messages", c.List)
	r.Get("/:chatId/messages/search", c.Search)
	r.Delete("/:chatId/prompts/:promptId/messages", c.DeleteThread)
}

func (c *messageController) Send(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Message must be a string, a scalar or an object")
	}

	res, err := c.service.SendMessage(ctx.Context(), chatId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message sent successfully", res))
}

func (c *messageController) Add(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var req dto.AddMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddMessage(ctx.Context(), chatId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message added successfully", res))
}

func (c *messageController) List(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var query dto.MessageListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.GetMessages(ctx.Context(), chatId, userId, query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages retrieved", res))
}

func (c *messageController) Search(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var query dto.MessageSearchQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.SearchMessages(ctx.Context(), chatId, userId, query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *messageController) DeleteThread(ctx *fiber.Ctx) error {
	userId, chatId, promptId, err := promptScope(ctx)
	if err != nil {
		return err
	}
	if err := c.service.DeleteThread(ctx.Context(), chatId, userId, promptId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation cleared", nil))
}
