package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	DeleteProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service      service.IUserService
	cookie       RefreshCookie
	authRequired fiber.Handler
}

func NewUserController(service service.IUserService, cookie RefreshCookie, authRequired fiber.Handler) IUserController {
	return &userController{
		service:      service,
		cookie:       cookie,
		authRequired: authRequired,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/profile", c.authRequired)
	h.Get("/", c.GetProfile)
	h.Put("/", c.UpdateProfile)
	h.Delete("/", c.DeleteProfile)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile retrieved", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated successfully", res))
}

func (c *userController) DeleteProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if err := c.service.DeleteProfile(ctx.Context(), userId); err != nil {
		return err
	}
	c.cookie.clear(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Account deleted successfully", nil))
}
