package controller

import (
	"errors"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/serverutils"
	"disease-predictor-be/internal/pkg/view"
	"disease-predictor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	Home(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type pageController struct {
	users service.IUserService
}

func NewPageController(users service.IUserService) IPageController {
	return &pageController{users: users}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Home)
	r.Get("/healthz", c.Health)
	r.Get("/symptoms", c.static("symptoms", "Symptoms"))
	r.Get("/about", c.static("about", "About"))
	r.Get("/maps", c.static("maps", "Maps"))
}

func (c *pageController) Home(ctx *fiber.Ctx) error {
	username := serverutils.Username(ctx)
	if username == "" {
		return ctx.Render("home", fiber.Map{}, view.Layout)
	}

	user, err := c.users.GetAccount(ctx.UserContext(), username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return serverutils.Text(ctx, fiber.StatusNotFound, serverutils.MessageUserNotFound)
		}
		return err
	}
	return ctx.Render("home", fiber.Map{"User": dto.NewAccountView(user)}, view.Layout)
}

func (c *pageController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
}

// static renders an informational page. The nav still reflects the session.
func (c *pageController) static(name, title string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		data := fiber.Map{"Title": title}
		if username := serverutils.Username(ctx); username != "" {
			data["User"] = &dto.AccountView{Username: username}
		}
		return ctx.Render(name, data, view.Layout)
	}
}
