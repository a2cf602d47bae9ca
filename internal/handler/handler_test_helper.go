package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/session"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/web"
)

var testNow = time.Date(2024, time.April, 5, 10, 0, 0, 0, time.UTC)

// testEnv wires handlers to in-memory repositories and an in-memory session store.
type testEnv struct {
	sm       *scs.SessionManager
	renderer *render.Renderer
	users    *testutil.MemoryUsers
	posts    *testutil.MemoryPosts
	authSvc  *service.AuthService
	postSvc  *service.PostService
	lp       *middleware.LoginProtection

	auth  *AuthHandler
	post  *PostsHandler
	pages *PagesHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sm := scs.New()
	renderer, err := render.New(render.Config{TemplatesFS: web.TemplatesFS(), SessionManager: sm, SiteName: "Test Blog"})
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Hour,
	})
	t.Cleanup(lp.Stop)

	e := &testEnv{
		sm:       sm,
		renderer: renderer,
		users:    testutil.NewMemoryUsers(),
		posts:    testutil.NewMemoryPosts(),
		lp:       lp,
	}
	e.authSvc = service.NewAuthService(e.users, auth.NewHasher([]byte("test-pepper")))
	e.postSvc = service.NewPostService(e.posts).WithClock(func() time.Time { return testNow })

	e.auth = NewAuthHandler(e.authSvc, renderer, sm, lp)
	e.post = NewPostsHandler(e.postSvc, renderer)
	e.pages = NewPagesHandler(renderer)
	return e
}

// formRequest builds a request with an urlencoded body and chi URL params.
func formRequest(method, target string, values url.Values, params map[string]string) *http.Request {
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// serve runs h inside the session middleware, acting as user when non-nil.
func (e *testEnv) serve(h http.HandlerFunc, req *http.Request, user *store.User) *httptest.ResponseRecorder {
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(middleware.WithUser(r.Context(), *user))
		}
		h(w, r)
	})

	rr := httptest.NewRecorder()
	e.sm.LoadAndSave(wrapped).ServeHTTP(rr, req)
	return rr
}

func sessionCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// followUp replays the session cookie issued by rr and returns the rendered
// about page (which shows any pending flash) and the session's user id.
func (e *testEnv) followUp(t *testing.T, rr *httptest.ResponseRecorder) (string, int64) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	if c := sessionCookie(rr, e.sm.Cookie.Name); c != nil {
		req.AddCookie(c)
	}

	var userID int64
	next := e.serve(func(w http.ResponseWriter, r *http.Request) {
		userID = session.UserID(r.Context(), e.sm)
		e.pages.About(w, r)
	}, req, nil)
	return next.Body.String(), userID
}

func (e *testEnv) createPost(t *testing.T, title string) store.Post {
	t.Helper()
	post, err := e.postSvc.Create(context.Background(), service.PostInput{
		Title:    title,
		Subtitle: "Subtitle",
		Author:   "Angela",
		ImgURL:   "https://example.com/cover.jpg",
		Body:     "<p>Body</p>",
	})
	require.NoError(t, err)
	return post
}

func validPostValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"author":   {"Jane"},
		"img_url":  {"https://example.com/img.jpg"},
		"body":     {"<p>Hello</p>"},
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, want, rr.Header().Get("Location"))
}
