// Package redisstore keeps sessions in Redis so they survive restarts.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

type sessionPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionRepository stores sessions with ttl; zero keeps them until deleted.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration) contract.SessionRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get session: %v", entity.ErrStorageUnavailable, err)
	}

	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as absent.
		return nil, nil
	}
	return &entity.Session{ID: p.ID, Username: p.Username, CreatedAt: p.CreatedAt}, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(sessionPayload{
		ID:        session.ID,
		Username:  session.Username,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyPrefix+session.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", entity.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", entity.ErrStorageUnavailable, err)
	}
	return nil
}
