package contract

import (
	"context"

	"disease-predictor-be/internal/entity"
)

// UserRepository is the account store. Implementations must be safe for
// concurrent use and enforce username uniqueness themselves.
type UserRepository interface {
	// FindByUsername returns nil, nil when no account matches exactly.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create fails with entity.ErrDuplicateUsername when the key is taken.
	Create(ctx context.Context, user *entity.User) error

	// Save upserts the account document including its prediction history.
	Save(ctx context.Context, user *entity.User) error

	// AppendPrediction atomically adds one record to the end of the history.
	AppendPrediction(ctx context.Context, username string, record *entity.PredictionRecord) error
}
