package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const refreshCookiePath = "/api/auth"

// RefreshCookie describes the HTTP-only cookie carrying the refresh token.
type RefreshCookie struct {
	Name   string
	Secure bool
}

func (c RefreshCookie) set(ctx *fiber.Ctx, value string, expiresAt time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     refreshCookiePath,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   c.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (c RefreshCookie) clear(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   c.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// read prefers the cookie and falls back to the value sent in the body.
func (c RefreshCookie) read(ctx *fiber.Ctx, fromBody string) string {
	if v := ctx.Cookies(c.Name); v != "" {
		return v
	}
	return fromBody
}
