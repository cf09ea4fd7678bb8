// Package inference talks to the external prediction endpoint.
package inference

import (
	"context"

	"disease-predictor-be/internal/entity"
)

// Result is what the model returns for one feature vector.
type Result struct {
	Label   int
	Message string
}

// Predictor maps a feature vector to a class label. Every failure wraps
// entity.ErrInferenceUnavailable.
type Predictor interface {
	Predict(ctx context.Context, features entity.Features) (*Result, error)
}
