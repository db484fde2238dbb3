package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

// UserStore is the persistence UserService needs. Lookups return nil, nil when the
// user does not exist.
type UserStore interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserService owns account registration and password checks.
type UserService struct {
	store     UserStore
	passwords *config.PasswordConfig
}

func NewUserService(store UserStore, passwords *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwords: passwords}
}

// publicUser drops the password hash.
func publicUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	return &types.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		PasswordSet: u.PasswordSet,
		IsPro:       u.IsPro,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Register creates the account and sets its password. An account whose password
// could not be stored is removed again, since nobody could ever sign in to it.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := types.NormalizeEmail(req.Email)

	taken, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.store.CreateUser(ctx, req.Name, email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, id, hash); err != nil {
		if delErr := s.store.DeleteUser(ctx, id); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return nil, fmt.Errorf("set password: %w", err)
	}

	return s.Get(ctx, id)
}

// Login checks credentials. Unknown emails and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	u, err := s.store.GetUserByEmail(ctx, types.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if u == nil || !u.PasswordSet || !s.passwords.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	// Upgrade hashes made under an older cost. Failure keeps the old hash,
	// which still verifies.
	if s.passwords.NeedsRehash(u.PasswordHash) {
		if hash, err := s.passwords.HashPassword(req.Password); err == nil {
			_ = s.store.UpdatePassword(ctx, u.ID, hash)
		}
	}
	return publicUser(u), nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	u, err := s.lookup(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.VerifyPassword(currentPassword, u.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Get returns the public profile for userID.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicUser(u), nil
}

func (s *UserService) lookup(ctx context.Context, userID uuid.UUID) (*db.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return u, nil
}
