package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IImageController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type imageController struct {
	service service.IImageService
}

func NewImageController(service service.IImageService) IImageController {
	return &imageController{service: service}
}

// RegisterRoutes expects the authenticated /images router.
func (c *imageController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate", c.Generate)
	r.Get("/", c.List)
	r.Delete("/:imageId", c.Delete)
}

func (c *imageController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateImage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Image generated successfully", res))
}

func (c *imageController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.ListImages(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Images retrieved", res))
}

func (c *imageController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	imageId, err := serverutils.ParseUUIDParam(ctx, "imageId")
	if err != nil {
		return err
	}
	if err := c.service.DeleteImage(ctx.Context(), userId, imageId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Image deleted successfully", nil))
}
