// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf16"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*entity.User, error)
}

type authService struct {
	users     contract.UserRepository
	publisher events.Publisher
	logger    logger.ILogger
	hashCost  int
}

func NewAuthService(users contract.UserRepository, publisher events.Publisher, log logger.ILogger) IAuthService {
	return newAuthService(users, publisher, log, bcrypt.DefaultCost)
}

func newAuthService(users contract.UserRepository, publisher events.Publisher, log logger.ILogger, cost int) *authService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authService{users: users, publisher: publisher, logger: log, hashCost: cost}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*entity.User, error) {
	// 1. Best-effort pre-check; the store's unique key is authoritative.
	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrDuplicateUsername
	}

	// 2. Password policy
	if passwordLength(req.Password) < MinPasswordLength {
		return nil, entity.ErrWeakPassword
	}

	// 3. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, entity.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Save
	user := &entity.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Predictions:  []entity.PredictionRecord{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "User created", map[string]interface{}{"username": user.Username})
	s.publish(ctx, events.New(events.TypeUserRegistered, map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	}))

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	// Unknown user and bad password share one error.
	if user == nil {
		return nil, entity.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredential
	}

	s.logger.Info("AuthService", "User logged in", map[string]interface{}{"username": user.Username})
	s.publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	}))

	return user, nil
}

func (s *authService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("AuthService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// passwordLength counts UTF-16 code units, so characters outside the BMP
// count twice.
func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}
