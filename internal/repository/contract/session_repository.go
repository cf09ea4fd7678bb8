package contract

import (
	"context"

	"disease-predictor-be/internal/entity"
)

type SessionRepository interface {
	// Get returns nil, nil for unknown or expired ids.
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id string) error
}
