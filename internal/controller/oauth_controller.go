package controller

import (
	"net/url"
	"strings"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	GoogleLogin(ctx *fiber.Ctx) error
	GoogleCallback(ctx *fiber.Ctx) error
	GoogleToken(ctx *fiber.Ctx) error
	LinkGoogle(ctx *fiber.Ctx) error
}

type oauthController struct {
	service      service.IOAuthService
	cookie       RefreshCookie
	clientURL    string
	authRequired fiber.Handler
	logger       logger.ILogger
}

func NewOAuthController(service service.IOAuthService, cookie RefreshCookie, clientURL string, authRequired fiber.Handler, log logger.ILogger) IOAuthController {
	return &oauthController{
		service:      service,
		cookie:       cookie,
		clientURL:    strings.TrimRight(clientURL, "/"),
		authRequired: authRequired,
		logger:       log,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/google")
	h.Get("/", c.GoogleLogin)
	h.Get("/callback", c.GoogleCallback)
	h.Post("/token", c.GoogleToken)
	h.Post("/link", c.authRequired, c.LinkGoogle)
}

func (c *oauthController) GoogleLogin(ctx *fiber.Ctx) error {
	loginURL, err := c.service.GetGoogleLoginURL()
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// GoogleCallback finishes the browser flow and sends the user back to the
// client with the access token; failures land on the client login page.
func (c *oauthController) GoogleCallback(ctx *fiber.Ctx) error {
	if providerErr := ctx.Query("error"); providerErr != "" {
		return ctx.Redirect(c.clientURL+"/login?error="+url.QueryEscape(providerErr), fiber.StatusTemporaryRedirect)
	}

	res, err := c.service.HandleGoogleCallback(ctx.Context(), ctx.Query("state"), ctx.Query("code"), ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		c.logger.Warn("OAUTH", "Google callback failed", map[string]interface{}{
			"error": err.Error(),
			"ip":    ctx.IP(),
		})
		return ctx.Redirect(c.clientURL+"/login?error=oauth_failed", fiber.StatusTemporaryRedirect)
	}

	c.cookie.set(ctx, res.RefreshToken, res.RefreshExpiresAt)
	return ctx.Redirect(c.clientURL+"/auth/callback?token="+url.QueryEscape(res.AccessToken), fiber.StatusTemporaryRedirect)
}

func (c *oauthController) GoogleToken(ctx *fiber.Ctx) error {
	var req dto.GoogleTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignInWithGoogleToken(ctx.Context(), req.IdToken, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	c.cookie.set(ctx, res.RefreshToken, res.RefreshExpiresAt)
	return ctx.JSON(serverutils.SuccessResponse("Google sign-in successful", res))
}

func (c *oauthController) LinkGoogle(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.GoogleTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LinkGoogleAccount(ctx.Context(), userId, req.IdToken)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Google account linked", res))
}
