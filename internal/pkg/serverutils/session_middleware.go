// FILE: internal/pkg/serverutils/session_middleware.go
package serverutils

import (
	"context"

	"disease-predictor-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUsername     = "username"
	LocalSessionToken = "session_token"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Session, error)
}

// SessionMiddleware resolves the session cookie once per request and stores
// the bound username in ctx.Locals. Requests without a valid session pass
// through anonymously.
func SessionMiddleware(sessions SessionResolver, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(cookieName)
		if token == "" {
			return ctx.Next()
		}
		ctx.Locals(LocalSessionToken, token)

		session, err := sessions.Resolve(ctx.UserContext(), token)
		if err != nil {
			return err
		}
		if session.Authenticated() {
			ctx.Locals(LocalUsername, session.Username)
		}
		return ctx.Next()
	}
}

// RequireSession lets authenticated requests through and redirects the rest.
func RequireSession(redirect string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if Username(ctx) != "" {
			return ctx.Next()
		}
		return ctx.Redirect(redirect, fiber.StatusFound)
	}
}

func Username(ctx *fiber.Ctx) string {
	username, _ := ctx.Locals(LocalUsername).(string)
	return username
}

func SessionToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(LocalSessionToken).(string)
	return token
}
