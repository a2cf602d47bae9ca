// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

// Post is the create/edit post form.
type Post struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	Author   string `form:"author" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,http_url,max=250"`
	Body     string `form:"body,raw" validate:"required"`
}

// PostFrom pre-populates the form from an existing post.
func PostFrom(p store.Post) Post {
	return Post{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Author:   p.Author,
		ImgURL:   p.ImgURL,
		Body:     p.Body,
	}
}

// Input converts the form to the service's input type.
func (f Post) Input() service.PostInput {
	return service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Author:   f.Author,
		ImgURL:   f.ImgURL,
		Body:     f.Body,
	}
}

// Register is the sign-up form.
type Register struct {
	Email    string `form:"email" validate:"required,email,max=250"`
	Password string `form:"password,raw" validate:"required,min=8,max=128"`
	Name     string `form:"name" validate:"required,max=250"`
}

// Input converts the form to the service's input type.
func (f Register) Input() service.RegisterInput {
	return service.RegisterInput{
		Email:    f.Email,
		Password: f.Password,
		Name:     f.Name,
	}
}

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password,raw" validate:"required"`
}
