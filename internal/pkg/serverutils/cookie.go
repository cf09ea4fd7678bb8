package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration // 0 issues a browser-session cookie
}

func SetSessionCookie(ctx *fiber.Ctx, opts CookieOptions, token string) {
	cookie := &fiber.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if opts.TTL > 0 {
		cookie.Expires = time.Now().Add(opts.TTL)
	}
	ctx.Cookie(cookie)
	ctx.Locals(LocalSessionToken, token)
}

func ClearSessionCookie(ctx *fiber.Ctx, opts CookieOptions) {
	ctx.Cookie(&fiber.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
