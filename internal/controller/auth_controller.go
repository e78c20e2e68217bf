package controller

import (
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	RefreshToken(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	LogoutAll(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	userService  service.IUserService
	cookie       RefreshCookie
	authRequired fiber.Handler
	attemptLimit fiber.Handler
}

// NewAuthController takes the JWT middleware and the limiter guarding
// credential endpoints so routes can be mounted on any router.
func NewAuthController(service service.IAuthService, userService service.IUserService, cookie RefreshCookie, authRequired, attemptLimit fiber.Handler) IAuthController {
	return &authController{
		service:      service,
		userService:  userService,
		cookie:       cookie,
		authRequired: authRequired,
		attemptLimit: attemptLimit,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.attemptLimit, c.Register)
	h.Post("/login", c.attemptLimit, c.Login)
	h.Post("/forgot-password", c.attemptLimit, c.ForgotPassword)
	h.Post("/reset-password", c.attemptLimit, c.ResetPassword)
	h.Post("/refresh-token", c.RefreshToken)

	h.Post("/logout", c.authRequired, c.Logout)
	h.Post("/logout-all", c.authRequired, c.LogoutAll)
	h.Get("/me", c.authRequired, c.Me)
	h.Post("/change-password", c.authRequired, c.ChangePassword)
}

func (c *authController) respondWithSession(ctx *fiber.Ctx, status int, message string, res *dto.AuthResponse) error {
	c.cookie.set(ctx, res.RefreshToken, res.RefreshExpiresAt)
	if status == fiber.StatusCreated {
		return ctx.Status(status).JSON(serverutils.CreatedResponse(message, res))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return c.respondWithSession(ctx, fiber.StatusCreated, "User registered successfully", res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return c.respondWithSession(ctx, fiber.StatusOK, "Login successful", res)
}

func (c *authController) RefreshToken(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	// An empty body is fine when the cookie is present.
	_ = ctx.BodyParser(&req)

	refreshToken := c.cookie.read(ctx, req.RefreshToken)
	if refreshToken == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Refresh token required")
	}

	res, err := c.service.RefreshAccessToken(ctx.Context(), refreshToken)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.RefreshTokenRequest
	_ = ctx.BodyParser(&req)

	if err := c.service.Logout(ctx.Context(), userId, c.cookie.read(ctx, req.RefreshToken)); err != nil {
		return err
	}
	c.cookie.clear(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}

func (c *authController) LogoutAll(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if err := c.service.LogoutAll(ctx.Context(), userId); err != nil {
		return err
	}
	c.cookie.clear(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out from all devices", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	res, err := c.userService.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User retrieved", res))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.Context(), userId, &req); err != nil {
		return err
	}
	c.cookie.clear(ctx)
	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed successfully. Please log in again", nil))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	message, err := c.service.ForgotPassword(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any](message, nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password reset successful", nil))
}
