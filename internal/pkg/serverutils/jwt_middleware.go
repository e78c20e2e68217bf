package serverutils

import (
	"strings"

	"ai-interview-be/internal/pkg/apperror"
	"ai-interview-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// NewJwtMiddleware accepts a bearer access token and stores its claims in Locals.
func NewJwtMiddleware(tokens *token.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.Unauthorized("Access denied. No token provided")
		}
		tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

		claims, err := tokens.ValidateAccessToken(tokenStr)
		if err != nil {
			if err == token.ErrExpiredToken {
				return apperror.Unauthorized("Token expired")
			}
			return apperror.Unauthorized("Invalid token")
		}

		ctx.Locals(LocalUserID, claims.UserID)
		ctx.Locals(LocalEmail, claims.Email)
		ctx.Locals(LocalRole, claims.Role)
		return ctx.Next()
	}
}

// RequireRole must run after the JWT middleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals(LocalRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				return ctx.Next()
			}
		}
		return apperror.Forbidden("Insufficient permissions")
	}
}

// CurrentUserID reads the authenticated user id placed by the JWT middleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals(LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Invalid token")
	}
	return id, nil
}

// ParseUUIDParam parses a route parameter, rejecting malformed ids with 400.
func ParseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}
