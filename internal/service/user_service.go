// FILE: internal/service/user_service.go
package service

import (
	"context"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/repository/contract"
)

type IUserService interface {
	// GetAccount returns entity.ErrUserNotFound when the session points at
	// an account that no longer exists.
	GetAccount(ctx context.Context, username string) (*entity.User, error)
}

type userService struct {
	users contract.UserRepository
}

func NewUserService(users contract.UserRepository) IUserService {
	return &userService{users: users}
}

func (s *userService) GetAccount(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}
