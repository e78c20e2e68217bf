package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPromptController interface {
	// RegisterRoutes expects the authenticated /chat router.
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GenerateImage(ctx *fiber.Ctx) error
}

type promptController struct {
	service      service.IPromptService
	imageService service.IImageService
}

func NewPromptController(service service.IPromptService, imageService service.IImageService) IPromptController {
	return &promptController{
		service:      service,
		imageService: imageService,
	}
}

func (c *promptController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/:chatId/prompts")
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:promptId", c.Show)
	h.Put("/:promptId", c.Update)
	h.Delete("/:promptId", c.Delete)
	h.Post("/:promptId/image", c.GenerateImage)
}

func promptScope(ctx *fiber.Ctx) (userId, chatId, promptId uuid.UUID, err error) {
	if userId, chatId, err = chatScope(ctx); err != nil {
		return
	}
	promptId, err = serverutils.ParseUUIDParam(ctx, "promptId")
	return
}

func (c *promptController) Create(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	var req dto.CreatePromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddPrompt(ctx.Context(), chatId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Prompt added successfully", res))
}

func (c *promptController) List(ctx *fiber.Ctx) error {
	userId, chatId, err := chatScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetPrompts(ctx.Context(), chatId, userId, ctx.QueryBool("includeInactive", false))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prompts retrieved", res))
}

func (c *promptController) Show(ctx *fiber.Ctx) error {
	userId, chatId, promptId, err := promptScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetPromptById(ctx.Context(), chatId, userId, promptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prompt retrieved", res))
}

func (c *promptController) Update(ctx *fiber.Ctx) error {
	userId, chatId, promptId, err := promptScope(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdatePromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdatePrompt(ctx.Context(), chatId, userId, promptId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prompt updated successfully", res))
}

func (c *promptController) Delete(ctx *fiber.Ctx) error {
	userId, chatId, promptId, err := promptScope(ctx)
	if err != nil {
		return err
	}
	if err := c.service.DeletePrompt(ctx.Context(), chatId, userId, promptId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Prompt deleted successfully", nil))
}

func (c *promptController) GenerateImage(ctx *fiber.Ctx) error {
	userId, chatId, promptId, err := promptScope(ctx)
	if err != nil {
		return err
	}
	res, err := c.imageService.GeneratePromptImage(ctx.Context(), chatId, userId, promptId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prompt image generated", res))
}
