package service

import (
	"context"
	"strings"
	"testing"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/repository/memory"
	"disease-predictor-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth() (*authService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return newAuthService(memory.NewUserRepository(), pub, logger.NewNopLogger(), bcrypt.MinCost), pub
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestAuth()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", DisplayName: "Alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.DisplayName)
	assert.Empty(t, user.Predictions)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	assert.Equal(t, []string{events.TypeUserRegistered}, pub.types())
}

func TestRegisterPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "empty", password: "", wantErr: entity.ErrWeakPassword},
		{name: "five characters", password: "abcde", wantErr: entity.ErrWeakPassword},
		{name: "six characters", password: "abcdef"},
		{name: "five multibyte characters", password: "ééééé", wantErr: entity.ErrWeakPassword},
		{name: "six multibyte characters", password: "éééééé"},
		{name: "three astral characters", password: "😀😀😀"},
		{name: "two astral characters", password: "😀😀", wantErr: entity.ErrWeakPassword},
		{name: "beyond bcrypt limit", password: strings.Repeat("x", 73), wantErr: entity.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuth()
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{Username: "u", Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterDuplicateKeepsFirstAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "first-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "second-pass"})
	assert.ErrorIs(t, err, entity.ErrDuplicateUsername)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "bob", Password: "first-pass"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestAuth()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "carol", Password: "Passw0rd"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid", username: "carol", password: "Passw0rd"},
		{name: "wrong password", username: "carol", password: "passw0rd", wantErr: entity.ErrInvalidCredential},
		{name: "padded password", username: "carol", password: " Passw0rd", wantErr: entity.ErrInvalidCredential},
		{name: "unknown user", username: "dave", password: "Passw0rd", wantErr: entity.ErrInvalidCredential},
		{name: "username is case-sensitive", username: "Carol", password: "Passw0rd", wantErr: entity.ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(ctx, &dto.LoginRequest{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "carol", user.Username)
		})
	}

	assert.Contains(t, pub.types(), events.TypeUserLogin)
}

func TestLoginStoreFailure(t *testing.T) {
	users := &flakyUsers{UserRepository: memory.NewUserRepository(), failFind: true}
	svc := newAuthService(users, nil, logger.NewNopLogger(), bcrypt.MinCost)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "x", Password: "y"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, entity.ErrInvalidCredential)
}
