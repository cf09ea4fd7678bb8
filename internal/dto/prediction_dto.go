package dto

import (
	"math"
	"strconv"
	"time"

	"disease-predictor-be/internal/entity"
)

// FeatureKey names the form field of a 1-based feature slot.
func FeatureKey(slot int) string {
	return "feature_" + strconv.Itoa(slot)
}

type AccountView struct {
	Username        string          `json:"username"`
	DisplayName     string          `json:"name"`
	PredictionCount int             `json:"prediction_count"`
	LastPrediction  *PredictionView `json:"last_prediction,omitempty"`
}

type PredictionView struct {
	InputFeatures []*float64 `json:"input_data"`
	Prediction    int        `json:"prediction"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
}

type HistoryView struct {
	User        AccountView      `json:"user"`
	Predictions []PredictionView `json:"predictions"`
}

func NewAccountView(u *entity.User) *AccountView {
	if u == nil {
		return nil
	}
	view := &AccountView{
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		PredictionCount: len(u.Predictions),
	}
	if last := u.LastPrediction(); last != nil {
		p := NewPredictionView(last)
		view.LastPrediction = &p
	}
	return view
}

func NewPredictionView(p *entity.PredictionRecord) PredictionView {
	features := make([]*float64, len(p.InputFeatures))
	for i, v := range p.InputFeatures {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		features[i] = &v
	}
	return PredictionView{
		InputFeatures: features,
		Prediction:    p.PredictedLabel,
		Message:       p.Message,
		CreatedAt:     p.CreatedAt,
	}
}

func NewHistoryView(u *entity.User) *HistoryView {
	view := &HistoryView{
		User:        *NewAccountView(u),
		Predictions: make([]PredictionView, 0, len(u.Predictions)),
	}
	for i := range u.Predictions {
		view.Predictions = append(view.Predictions, NewPredictionView(&u.Predictions[i]))
	}
	return view
}
