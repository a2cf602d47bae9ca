// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/views"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so the browser follows up with GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderPage renders a page, falling back to a plain 500 if the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name, title string, data any) {
	err := renderer.RenderStatus(w, r, status, name, render.TemplateData{Title: title, Data: data})
	if err != nil {
		logAndInternalError(w, r, "failed to render page", "template", name, "error", err)
	}
}

// renderNotFound renders the 404 page through the normal layout.
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, message string) {
	renderPage(w, r, renderer, http.StatusNotFound, views.PageError, "Not Found", views.Error{
		Status:  http.StatusNotFound,
		Heading: "Not Found",
		Message: message,
	})
}

// parseIDParam reads a positive integer id from the URL.
func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func postURL(id int64) string {
	return fmt.Sprintf("/post/%d", id)
}
