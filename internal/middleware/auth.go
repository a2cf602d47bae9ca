// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// request protection, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/logging"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the authenticated store.User.
const ContextKeyUser ContextKey = "user"

// LoginPath is where anonymous visitors of guarded routes are sent.
const LoginPath = "/login"

// UserLoader resolves a session's user id to a user.
type UserLoader interface {
	UserByID(ctx context.Context, id int64) (store.User, error)
}

// LoadUser creates middleware that loads the current user into the request context.
// A session pointing at a user that no longer exists is destroyed and the
// request continues anonymously.
func LoadUser(sm *scs.SessionManager, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByID(r.Context(), userID)
			if errors.Is(err, service.ErrUserNotFound) {
				slog.WarnContext(r.Context(), "session references missing user", "user_id", userID)
				if err := session.Logout(r.Context(), sm); err != nil {
					slog.ErrorContext(r.Context(), "failed to destroy stale session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to load session user", "user_id", userID, "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = logging.WithAttrs(ctx, slog.Int64("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous requests to the login page without
// invoking next. It must run after LoadUser.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated sends signed-in users to target. Used on the login
// and registration pages.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUser(r.Context()); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user store.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// CurrentUser retrieves the authenticated user from the context.
func CurrentUser(ctx context.Context) (store.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(store.User)
	return user, ok
}
