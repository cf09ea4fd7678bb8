package memory

import (
	"context"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl; ttl <= 0 means they live
// until destroyed or the process exits.
func NewSessionRepository(ttl time.Duration) contract.SessionRepository {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = 10 * time.Minute
		if ttl < cleanup {
			cleanup = ttl
		}
	}
	return &SessionRepository{
		cache: cache.New(expiration, cleanup),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *entity.Session) error {
	s := *session
	r.cache.Set(session.ID, &s, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*entity.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		s := *x.(*entity.Session)
		return &s, nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
