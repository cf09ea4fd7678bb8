package view

import (
	"embed"
	"io/fs"
	"math"
	"net/http"
	"strconv"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every full page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine builds the page renderer over the embedded templates. With
// reload set, templates are re-parsed on every render.
func NewEngine(reload bool) *html.Engine {
	root, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.Reload(reload)
	engine.AddFunc("slots", featureSlots)
	engine.AddFunc("featureKey", dto.FeatureKey)
	engine.AddFunc("feature", formatFeature)
	return engine
}

func featureSlots() []int {
	slots := make([]int, entity.FeatureCount)
	for i := range slots {
		slots[i] = i + 1
	}
	return slots
}

// formatFeature prints a recorded input; missing values show as a dash.
func formatFeature(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
