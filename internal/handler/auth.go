// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/form"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/views"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	auth            *service.AuthService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable account lockout.
func NewAuthHandler(auth *service.AuthService, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		auth:            auth,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, views.PageRegister, "Register", views.Register{})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var f form.Register
	if err := form.Decode(r, &f); err != nil {
		h.renderRegister(w, r, http.StatusBadRequest, f, form.Errors{form.FormErrorKey: msgInvalidForm})
		return
	}

	if errs := form.Validate(f); !errs.Valid() {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, f, errs)
		return
	}

	user, err := h.auth.Register(r.Context(), f.Input())
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		h.renderRegister(w, r, http.StatusUnprocessableEntity, f, form.Errors{"email": msgEmailTaken})
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "registration failed", "error", err)
		flashError(w, r, h.renderer, RouteRegister, msgSaveFailed)
		return
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, fmt.Sprintf("Welcome, %s!", user.Name))
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, f form.Register, errs form.Errors) {
	renderPage(w, r, h.renderer, status, views.PageRegister, "Register", views.Register{
		Email:  f.Email,
		Name:   f.Name,
		Errors: errs,
	})
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, views.PageLogin, "Log In", views.Login{})
}

// Login handles POST /login. Unknown emails and wrong passwords produce the
// same message and both count towards the lockout.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var f form.Login
	if err := form.Decode(r, &f); err != nil {
		flashError(w, r, h.renderer, RouteLogin, msgInvalidForm)
		return
	}

	if errs := form.Validate(f); !errs.Valid() {
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, views.PageLogin, "Log In", views.Login{
			Email:  f.Email,
			Errors: errs,
		})
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(f.Email); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account", "ip", middleware.ClientIP(r))
			flashError(w, r, h.renderer, RouteLogin, lockedMessage(remaining))
			return
		}
	}

	user, err := h.auth.Authenticate(r.Context(), f.Email, f.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.InfoContext(r.Context(), "login failed", "ip", middleware.ClientIP(r))
		msg := msgInvalidCredentials
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(f.Email); locked {
				flashError(w, r, h.renderer, RouteLogin, lockedMessage(lockDuration))
				return
			}
			msg += " " + attemptsLeftMessage(h.loginProtection.GetRemainingAttempts(f.Email))
		}
		flashError(w, r, h.renderer, RouteLogin, msg)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "database error during login", "error", err)
		flashError(w, r, h.renderer, RouteLogin, msgSaveFailed)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(f.Email)
	}

	// Regenerate session ID to prevent session fixation
	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	flashSuccess(w, r, h.renderer, RouteRoot, fmt.Sprintf("Welcome back, %s!", user.Name))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessionManager)

	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		slog.ErrorContext(r.Context(), "session destroy error", "error", err)
	}

	if userID > 0 {
		slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	}
	flashAndRedirect(w, r, h.renderer, RouteLogin, "You have been logged out.", render.FlashInfo)
}

func attemptsLeftMessage(n int) string {
	if n == 1 {
		return "1 attempt left."
	}
	return fmt.Sprintf("%d attempts left.", n)
}

func lockedMessage(d time.Duration) string {
	return "Too many failed login attempts. Try again in " + formatDuration(d) + "."
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
