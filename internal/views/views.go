// Package views defines the typed view models handed to the renderer, one
// per page template.
package views

import (
	"fmt"

	"github.com/olegiv/oblog/internal/form"
	"github.com/olegiv/oblog/internal/store"
)

// Template names under web/templates/pages.
const (
	PageIndex    = "index"
	PagePost     = "post"
	PagePostForm = "make-post"
	PageLogin    = "login"
	PageRegister = "register"
	PageAbout    = "about"
	PageContact  = "contact"
	PageError    = "error"
)

// PostList is the home page.
type PostList struct {
	Posts []store.Post
}

// PostDetail is the single post page.
type PostDetail struct {
	Post store.Post
}

// PostForm is the create and edit page.
type PostForm struct {
	Form   form.Post
	Errors form.Errors
	IsEdit bool
	PostID int64
}

// Action is the URL the form posts to.
func (v PostForm) Action() string {
	if v.IsEdit {
		return fmt.Sprintf("/edit/%d", v.PostID)
	}
	return "/make-post"
}

// Heading is the page heading.
func (v PostForm) Heading() string {
	if v.IsEdit {
		return "Edit Post"
	}
	return "New Post"
}

// Login is the sign-in page. Password is never echoed back.
type Login struct {
	Email  string
	Errors form.Errors
}

// Register is the sign-up page. Password is never echoed back.
type Register struct {
	Email  string
	Name   string
	Errors form.Errors
}

// Static is an about or contact page.
type Static struct {
	Heading    string
	Subheading string
}

// Error is a rendered error page such as 404.
type Error struct {
	Status  int
	Heading string
	Message string
}
