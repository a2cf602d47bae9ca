// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/store"
)

// RegisterInput is a validated registration submission.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthService registers and authenticates users.
type AuthService struct {
	users  UserRepository
	hasher *auth.Hasher
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, hasher *auth.Hasher) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		now:    time.Now,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a hashed password. A duplicate email returns
// ErrEmailTaken and creates nothing.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, store.CreateUserParams{
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return store.User{}, ErrEmailTaken
		}
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate checks an email/password pair. An unknown email and a wrong
// password both return ErrInvalidCredentials. No hash comparison happens when
// the user does not exist.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if store.IsNotFound(err) {
			slog.DebugContext(ctx, "login attempt for non-existent user", "email", email)
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "password check error", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		slog.DebugContext(ctx, "invalid password attempt", "user_id", user.ID)
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		slog.WarnContext(ctx, "password hash uses outdated parameters", "user_id", user.ID)
	}
	return user, nil
}

// UserByID resolves the user bound to a session.
func (s *AuthService) UserByID(ctx context.Context, id int64) (store.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return store.User{}, ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("loading user %d: %w", id, err)
	}
	return user, nil
}
