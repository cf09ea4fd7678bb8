package controller

import (
	"encoding/json"
	"errors"
	"strconv"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/serverutils"
	"disease-predictor-be/internal/pkg/view"
	"disease-predictor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPredictionController interface {
	RegisterRoutes(r fiber.Router)
	PredictPage(ctx *fiber.Ctx) error
	Predict(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type predictionController struct {
	predictions service.IPredictionService

	// trustBodyUsername takes the account from the submitted form and leaves
	// POST /predict unguarded. Legacy behaviour, off by default.
	trustBodyUsername bool
}

func NewPredictionController(predictions service.IPredictionService, trustBodyUsername bool) IPredictionController {
	return &predictionController{
		predictions:       predictions,
		trustBodyUsername: trustBodyUsername,
	}
}

func (c *predictionController) RegisterRoutes(r fiber.Router) {
	guard := serverutils.RequireSession("/login")

	r.Get("/predict", guard, c.PredictPage)
	if c.trustBodyUsername {
		r.Post("/predict", c.Predict)
	} else {
		r.Post("/predict", guard, c.Predict)
	}
	r.Get("/history", guard, c.History)
}

func (c *predictionController) PredictPage(ctx *fiber.Ctx) error {
	return ctx.Render("predict", fiber.Map{
		"Title":             "Predict",
		"User":              &dto.AccountView{Username: serverutils.Username(ctx)},
		"TrustBodyUsername": c.trustBodyUsername,
	}, view.Layout)
}

func (c *predictionController) Predict(ctx *fiber.Ctx) error {
	input, err := predictionInput(ctx)
	if err != nil {
		return fiber.ErrBadRequest
	}

	username := serverutils.Username(ctx)
	if c.trustBodyUsername {
		username = input["username"]
	}

	record, err := c.predictions.Submit(ctx.UserContext(), username, input)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return serverutils.Text(ctx, fiber.StatusNotFound, serverutils.MessageUserNotFound)
		}
		return err
	}

	return ctx.Render("result", fiber.Map{
		"Title":      "Result",
		"User":       &dto.AccountView{Username: username},
		"Prediction": record.PredictedLabel,
		"Message":    record.Message,
	}, view.Layout)
}

func (c *predictionController) History(ctx *fiber.Ctx) error {
	user, err := c.predictions.History(ctx.UserContext(), serverutils.Username(ctx))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return serverutils.Text(ctx, fiber.StatusNotFound, serverutils.MessageUserNotFound)
		}
		return err
	}

	history := dto.NewHistoryView(user)
	return ctx.Render("history", fiber.Map{
		"Title":   "History",
		"User":    &history.User,
		"History": history,
	}, view.Layout)
}

// predictionInput collects the feature slots and username as raw strings,
// from either a JSON body or form fields.
func predictionInput(ctx *fiber.Ctx) (map[string]string, error) {
	keys := make([]string, 0, entity.FeatureCount+1)
	for i := 1; i <= entity.FeatureCount; i++ {
		keys = append(keys, dto.FeatureKey(i))
	}
	keys = append(keys, "username")

	input := make(map[string]string, len(keys))
	if ctx.Is("json") {
		var body map[string]interface{}
		if err := json.Unmarshal(ctx.Body(), &body); err != nil {
			return nil, err
		}
		for _, key := range keys {
			input[key] = stringify(body[key])
		}
		return input, nil
	}

	for _, key := range keys {
		input[key] = ctx.FormValue(key)
	}
	return input, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}
