package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/form"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/views"
)

const msgPostNotFound = "That post does not exist."

// PostsHandler handles listing, viewing and editing posts.
type PostsHandler struct {
	posts    *service.PostService
	renderer *render.Renderer
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(posts *service.PostService, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{posts: posts, renderer: renderer}
}

// List handles GET /.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to list posts", "error", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, views.PageIndex, "", views.PostList{Posts: posts})
}

// Show handles GET /post/{id}.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, r, "failed to get post", "error", err, "post_id", id)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, views.PagePost, post.Title, views.PostDetail{Post: post})
}

// NewForm handles GET /make-post.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, views.PostForm{})
}

// Create handles POST /make-post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f form.Post
	if err := form.Decode(r, &f); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, views.PostForm{Form: f, Errors: form.Errors{form.FormErrorKey: msgInvalidForm}})
		return
	}

	if errs := form.Validate(f); !errs.Valid() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: errs})
		return
	}

	_, err := h.posts.Create(r.Context(), f.Input())
	switch {
	case errors.Is(err, service.ErrTitleTaken):
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: form.Errors{"title": msgTitleTaken}})
		return
	case errors.Is(err, service.ErrBodyEmpty):
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: form.Errors{"body": msgBodyEmpty}})
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to create post", "error", err)
		flashError(w, r, h.renderer, RouteRoot, msgSaveFailed)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Post published.")
}

// EditForm handles GET /edit/{id}.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, r, "failed to get post", "error", err, "post_id", id)
		return
	}

	h.renderForm(w, r, http.StatusOK, views.PostForm{Form: form.PostFrom(post), IsEdit: true, PostID: id})
}

// Update handles POST /edit/{id}. The post's date is never changed.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}

	var f form.Post
	if err := form.Decode(r, &f); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, views.PostForm{Form: f, Errors: form.Errors{form.FormErrorKey: msgInvalidForm}, IsEdit: true, PostID: id})
		return
	}

	if errs := form.Validate(f); !errs.Valid() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: errs, IsEdit: true, PostID: id})
		return
	}

	_, err := h.posts.Update(r.Context(), id, f.Input())
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	case errors.Is(err, service.ErrTitleTaken):
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: form.Errors{"title": msgTitleTaken}, IsEdit: true, PostID: id})
		return
	case errors.Is(err, service.ErrBodyEmpty):
		h.renderForm(w, r, http.StatusUnprocessableEntity, views.PostForm{Form: f, Errors: form.Errors{"body": msgBodyEmpty}, IsEdit: true, PostID: id})
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to update post", "error", err, "post_id", id)
		flashError(w, r, h.renderer, RouteRoot, msgSaveFailed)
		return
	}

	flashSuccess(w, r, h.renderer, postURL(id), "Post updated.")
}

// Delete handles POST /delete/{id}. Deleting a post that is already gone is
// not an error.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		renderNotFound(w, r, h.renderer, msgPostNotFound)
		return
	}

	err := h.posts.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		flashAndRedirect(w, r, h.renderer, RouteRoot, "That post was already deleted.", render.FlashInfo)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to delete post", "error", err, "post_id", id)
		flashError(w, r, h.renderer, RouteRoot, msgSaveFailed)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Post deleted.")
}

func (h *PostsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data views.PostForm) {
	renderPage(w, r, h.renderer, status, views.PagePostForm, data.Heading(), data)
}
