package handler

import (
	"net/http"

	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/views"
)

// PagesHandler serves the static pages and the router's error pages.
type PagesHandler struct {
	renderer *render.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// About handles GET /about.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, views.PageAbout, "About", views.Static{
		Heading:    "About Me",
		Subheading: "This is what I do.",
	})
}

// Contact handles GET /contact.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, views.PageContact, "Contact", views.Static{
		Heading:    "Contact Me",
		Subheading: "Have questions? I have answers.",
	})
}

// NotFound renders the 404 page.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, h.renderer, "The page you are looking for does not exist.")
}

// MethodNotAllowed renders the 405 page.
func (h *PagesHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusMethodNotAllowed, views.PageError, "Method Not Allowed", views.Error{
		Status:  http.StatusMethodNotAllowed,
		Heading: "Method Not Allowed",
		Message: "This address does not accept " + r.Method + " requests.",
	})
}
