// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router: the middleware stack, the public
// pages and the routes that require a signed-in user.
package server

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/config"
	"github.com/olegiv/oblog/internal/handler"
	"github.com/olegiv/oblog/internal/logging"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/version"
	"github.com/olegiv/oblog/web"
)

// staticMaxAge is the Cache-Control lifetime for embedded assets.
const staticMaxAge = 7 * 24 * time.Hour

// Deps are the collaborators the router needs.
type Deps struct {
	Config          *config.Config
	DB              handler.Pinger
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	Auth            *service.AuthService
	Posts           *service.PostService
	LoginProtection *middleware.LoginProtection
	Version         version.Info
}

// NewRouter builds the application's HTTP handler.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	sm := d.SessionManager

	authHandler := handler.NewAuthHandler(d.Auth, d.Renderer, sm, d.LoginProtection)
	postsHandler := handler.NewPostsHandler(d.Posts, d.Renderer)
	pagesHandler := handler.NewPagesHandler(d.Renderer)
	healthHandler := handler.NewHealthHandler(d.DB, d.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestAttrs)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(chimw.Compress(5))
	r.Use(sm.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.LoadUser(sm, d.Auth))

	r.NotFound(pagesHandler.NotFound)
	r.MethodNotAllowed(pagesHandler.MethodNotAllowed)

	// Public routes
	r.Get(handler.RouteStatic, middleware.StaticFiles("/static/", web.StaticFS(), staticMaxAge).ServeHTTP)
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteAbout, pagesHandler.About)
	r.Get(handler.RouteContact, pagesHandler.Contact)
	r.Post(handler.RouteLogout, authHandler.Logout)

	// Sign-in pages bounce users who already have a session
	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectAuthenticated(handler.RouteRoot))
		if d.LoginProtection != nil {
			r.Use(d.LoginProtection.Middleware())
		}

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
	})

	// Everything about posts requires a signed-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get(handler.RouteRoot, postsHandler.List)
		r.Get(handler.RoutePost, postsHandler.Show)
		r.Get(handler.RouteMakePost, postsHandler.NewForm)
		r.Post(handler.RouteMakePost, postsHandler.Create)
		r.Get(handler.RouteEdit, postsHandler.EditForm)
		r.Post(handler.RouteEdit, postsHandler.Update)
		r.Post(handler.RouteDelete, postsHandler.Delete)
	})

	return r
}
