// FILE: internal/controller/auth_controller.go
package controller

import (
	"errors"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/pkg/serverutils"
	"disease-predictor-be/internal/pkg/view"
	"disease-predictor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	SignupPage(ctx *fiber.Ctx) error
	LoginPage(ctx *fiber.Ctx) error
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	auth     service.IAuthService
	sessions service.ISessionService
	cookie   serverutils.CookieOptions
	logger   logger.ILogger
}

func NewAuthController(auth service.IAuthService, sessions service.ISessionService, cookie serverutils.CookieOptions, log logger.ILogger) IAuthController {
	return &authController{
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
		logger:   log,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Get("/signup", c.SignupPage)
	r.Post("/signup", c.Register)
	r.Get("/login", c.LoginPage)
	r.Post("/login", c.Login)
	r.Get("/logout", c.Logout)
}

func (c *authController) SignupPage(ctx *fiber.Ctx) error {
	return ctx.Render("signup", fiber.Map{"Title": "Sign up"}, view.Layout)
}

func (c *authController) LoginPage(ctx *fiber.Ctx) error {
	return ctx.Render("login", fiber.Map{"Title": "Log in"}, view.Layout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.Text(ctx, fiber.StatusOK, err.Error())
	}

	user, err := c.auth.Register(ctx.UserContext(), &req)
	if err != nil {
		if entity.IsValidation(err) {
			return serverutils.Text(ctx, fiber.StatusOK, validationMessage(err))
		}
		return err
	}

	if err := c.bindSession(ctx, user.Username); err != nil {
		return err
	}
	return ctx.Render("home", fiber.Map{"User": dto.NewAccountView(user)}, view.Layout)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.Text(ctx, fiber.StatusOK, validationMessage(entity.ErrInvalidCredential))
	}

	user, err := c.auth.Login(ctx.UserContext(), &req)
	if err != nil {
		if entity.IsValidation(err) {
			return serverutils.Text(ctx, fiber.StatusOK, validationMessage(err))
		}
		return err
	}

	if err := c.bindSession(ctx, user.Username); err != nil {
		return err
	}
	return ctx.Render("home", fiber.Map{"User": dto.NewAccountView(user)}, view.Layout)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	token := serverutils.SessionToken(ctx)
	if token != "" {
		if err := c.sessions.Destroy(ctx.UserContext(), token); err != nil {
			c.logger.Error("AuthController", "Failed to destroy session", map[string]interface{}{
				"error": err.Error(),
			})
			return serverutils.Text(ctx, fiber.StatusInternalServerError, serverutils.MessageInternalError)
		}
	}
	serverutils.ClearSessionCookie(ctx, c.cookie)
	return ctx.Redirect("/", fiber.StatusFound)
}

func (c *authController) bindSession(ctx *fiber.Ctx, username string) error {
	token, err := c.sessions.Bind(ctx.UserContext(), serverutils.SessionToken(ctx), username)
	if err != nil {
		return err
	}
	serverutils.SetSessionCookie(ctx, c.cookie, token)
	ctx.Locals(serverutils.LocalUsername, username)
	return nil
}

// validationMessage is the text shown on the form page for a rejected
// signup or login.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrDuplicateUsername):
		return "Username already exists. Please choose a different one."
	case errors.Is(err, entity.ErrWeakPassword):
		return "Password should contain at least 6 characters."
	case errors.Is(err, entity.ErrPasswordTooLong):
		return "Password should contain at most 72 bytes."
	default:
		return "wrong password"
	}
}
