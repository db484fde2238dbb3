package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

func newTestUserService(t *testing.T) (*UserService, *memUsers) {
	t.Helper()
	passwordConfig, err := config.NewPasswordConfig(10, "pepper")
	require.NoError(t, err)
	users := newMemUsers()
	return NewUserService(users, passwordConfig), users
}

func TestPublicUser(t *testing.T) {
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         "John Doe",
		Email:        "john@example.com",
		Phone:        "555-0100",
		PasswordHash: "hashed-password",
		PasswordSet:  true,
		IsPro:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	assert.Equal(t, &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: true,
		IsPro:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, publicUser(u))
	assert.Nil(t, publicUser(nil))
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, user.PasswordSet)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)

	logged, err := svc.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "nope"})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestUserService_EmailIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: " Ann@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ANN@example.com", Password: "password123"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)

	logged, err := svc.Login(ctx, &types.LoginRequest{Email: "ANN@EXAMPLE.COM", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestUserService_LoginUpgradesHashCost(t *testing.T) {
	svc, users := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	stronger, err := config.NewPasswordConfig(11, "pepper")
	require.NoError(t, err)
	upgraded := NewUserService(users, stronger)

	_, err = upgraded.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	stored, err := users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stronger.NeedsRehash(stored.PasswordHash))

	_, err = upgraded.Login(ctx, &types.LoginRequest{Email: "ann@example.com", Password: "password123"})
	assert.NoError(t, err, "the upgraded hash still verifies")
}

func TestUserService_RegisterStoreFailure(t *testing.T) {
	svc, users := newTestUserService(t)
	users.failCreate = errors.New("connection refused")

	_, err := svc.Register(context.Background(), &types.CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, 500, HTTPStatus(err))
}

func TestUserService_Get(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}
