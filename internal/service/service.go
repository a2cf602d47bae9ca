// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the blog's business rules: account registration and
// authentication, and the post lifecycle. It talks to persistence only
// through the repository interfaces below.
package service

import (
	"context"
	"errors"

	"github.com/olegiv/oblog/internal/store"
)

// Errors surfaced to handlers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrTitleTaken         = errors.New("post title already used")
	ErrBodyEmpty          = errors.New("post body is empty")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
)

// UserRepository is the persistence contract for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, arg store.CreateUserParams) (store.User, error)
	GetUserByID(ctx context.Context, id int64) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
}

// PostRepository is the persistence contract for posts.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]store.Post, error)
	GetPost(ctx context.Context, id int64) (store.Post, error)
	CreatePost(ctx context.Context, arg store.CreatePostParams) (store.Post, error)
	UpdatePost(ctx context.Context, arg store.UpdatePostParams) (store.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

var (
	_ UserRepository = (*store.UserRepository)(nil)
	_ PostRepository = (*store.PostRepository)(nil)
)
