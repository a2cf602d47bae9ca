// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/form"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/views"
	"github.com/olegiv/oblog/web"
)

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: web.TemplatesFS(), SessionManager: sm, SiteName: "Test Blog"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.now = func() time.Time { return time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestNew_ParsesEmbeddedPages(t *testing.T) {
	r := newTestRenderer(t, nil)

	pages := []string{
		views.PageIndex, views.PagePost, views.PagePostForm, views.PageLogin,
		views.PageRegister, views.PageAbout, views.PageContact, views.PageError,
	}
	for _, name := range pages {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestNew_NoPages(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}
	if _, err := New(Config{TemplatesFS: fsys}); err == nil {
		t.Error("New() should fail without page templates")
	}
}

func TestRender_IndexListsPosts(t *testing.T) {
	r := newTestRenderer(t, nil)

	data := views.PostList{Posts: []store.Post{
		{ID: 1, Title: "The Life of Cactus", Subtitle: "Sub", Author: "Angela", Date: "April 5, 2024"},
		{ID: 2, Title: "<b>Bold</b>", Subtitle: "Sub", Author: "Ann", Date: "April 6, 2024"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), store.User{ID: 1, Name: "Jane"}))
	rr := httptest.NewRecorder()
	if err := r.RenderStatus(rr, req, http.StatusOK, views.PageIndex, TemplateData{Data: data}); err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"The Life of Cactus",
		`href="/post/1"`,
		"Posted by Angela on April 5, 2024",
		"&lt;b&gt;Bold&lt;/b&gt;",
		"Log out (Jane)",
		"&copy; 2024 Test Blog",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRender_PostBodyIsNotEscaped(t *testing.T) {
	r := newTestRenderer(t, nil)

	post := store.Post{ID: 4, Title: "T", Body: "<p>Hello <strong>world</strong></p>", ImgURL: "https://example.com/a.jpg"}
	rr := httptest.NewRecorder()
	err := r.RenderStatus(rr, httptest.NewRequest(http.MethodGet, "/post/4", nil), http.StatusOK, views.PagePost, TemplateData{Data: views.PostDetail{Post: post}})
	if err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "<p>Hello <strong>world</strong></p>") {
		t.Error("sanitized body should be rendered as HTML")
	}
	if !strings.Contains(body, `action="/delete/4"`) || !strings.Contains(body, `href="/edit/4"`) {
		t.Error("post page should link to edit and delete")
	}
	if !strings.Contains(body, "Log in") {
		t.Error("anonymous nav should offer log in")
	}
}

func TestRenderStatus_FormErrors(t *testing.T) {
	r := newTestRenderer(t, nil)

	data := views.PostForm{
		Form:   form.Post{Title: "Kept title"},
		Errors: form.Errors{"subtitle": "This field is required."},
	}
	rr := httptest.NewRecorder()
	err := r.RenderStatus(rr, httptest.NewRequest(http.MethodPost, "/make-post", nil), http.StatusUnprocessableEntity, views.PagePostForm, TemplateData{Data: data})
	if err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `value="Kept title"`) || !strings.Contains(body, "This field is required.") {
		t.Error("form should keep values and show field errors")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	rr := httptest.NewRecorder()
	if err := r.RenderStatus(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope", TemplateData{}); err == nil {
		t.Error("RenderStatus() should fail for an unknown template")
	}
	if rr.Body.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
}

func TestFlash_ShownOnce(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	var first, second string
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Post deleted.", FlashSuccess)

		rec := httptest.NewRecorder()
		_ = r.RenderStatus(rec, req, http.StatusOK, views.PageAbout, TemplateData{Data: views.Static{Heading: "About"}})
		first = rec.Body.String()

		rec = httptest.NewRecorder()
		_ = r.RenderStatus(rec, req, http.StatusOK, views.PageAbout, TemplateData{Data: views.Static{Heading: "About"}})
		second = rec.Body.String()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about", nil))

	if !strings.Contains(first, `class="flash flash-success"`) || !strings.Contains(first, "Post deleted.") {
		t.Error("first render should show the flash")
	}
	if strings.Contains(second, "Post deleted.") {
		t.Error("flash should be consumed by the first render")
	}
}

func TestFlash_KeptWhenTemplateFails(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}[{{.Flash}}]{{template "content" .}}{{end}}`)},
		"pages/broken.html": {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
		"pages/plain.html":  {Data: []byte(`{{define "content"}}ok{{end}}`)},
	}
	sm := scs.New()
	r, err := New(Config{TemplatesFS: fsys, SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var failErr error
	var failed, next *httptest.ResponseRecorder
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Post updated.", FlashSuccess)

		failed = httptest.NewRecorder()
		failErr = r.RenderStatus(failed, req, http.StatusOK, "broken", TemplateData{Data: struct{}{}})

		next = httptest.NewRecorder()
		_ = r.RenderStatus(next, req, http.StatusOK, "plain", TemplateData{})
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if failErr == nil {
		t.Fatal("RenderStatus() should fail for a broken template")
	}
	if failed.Body.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
	if got := next.Body.String(); got != "[Post updated.]ok" {
		t.Errorf("next page = %q, want the flash preserved", got)
	}
}
