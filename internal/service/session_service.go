package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ISessionService binds requests to authenticated usernames. Tokens are the
// signed cookie values; the session id inside them is opaque.
type ISessionService interface {
	// Bind issues a fresh session for username and returns its token. A
	// session previously carried by currentToken is discarded.
	Bind(ctx context.Context, currentToken, username string) (string, error)

	// Resolve returns nil for missing, forged or expired tokens.
	Resolve(ctx context.Context, token string) (*entity.Session, error)

	// Destroy invalidates the session irreversibly.
	Destroy(ctx context.Context, token string) error
}

type sessionService struct {
	sessions  contract.SessionRepository
	secret    []byte
	ttl       time.Duration
	publisher events.Publisher
	logger    logger.ILogger
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewSessionService(sessions contract.SessionRepository, secret string, ttl time.Duration, publisher events.Publisher, log logger.ILogger) ISessionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &sessionService{
		sessions:  sessions,
		secret:    []byte(secret),
		ttl:       ttl,
		publisher: publisher,
		logger:    log,
	}
}

func (s *sessionService) sign(sessionID string, now time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// sessionID extracts the id from a token, "" when the token is not ours.
func (s *sessionService) sessionID(token string) string {
	if token == "" {
		return ""
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ""
	}
	return claims.SessionID
}

func (s *sessionService) Bind(ctx context.Context, currentToken, username string) (string, error) {
	if old := s.sessionID(currentToken); old != "" {
		if err := s.sessions.Delete(ctx, old); err != nil {
			s.logger.Warn("SessionService", "Failed to discard previous session", map[string]interface{}{"error": err.Error()})
		}
	}

	now := time.Now()
	session := &entity.Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return s.sign(session.ID, now)
}

func (s *sessionService) Resolve(ctx context.Context, token string) (*entity.Session, error) {
	id := s.sessionID(token)
	if id == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, id)
}

func (s *sessionService) Destroy(ctx context.Context, token string) error {
	id := s.sessionID(token)
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrSessionDestroyFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", entity.ErrSessionDestroyFailed, err)
	}
	if err := s.publisher.Publish(ctx, events.New(events.TypeSessionDestroyed, map[string]interface{}{"session_id": id})); err != nil {
		s.logger.Warn("SessionService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
	return nil
}
