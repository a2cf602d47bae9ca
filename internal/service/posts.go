// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/oblog/internal/store"
)

// bodySanitizer strips scripts, event handlers and other unsafe markup from
// post bodies while keeping the formatting a rich-text editor produces.
var bodySanitizer = bluemonday.UGCPolicy()

// PostInput is a validated post submission.
type PostInput struct {
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
}

// PostService manages the post lifecycle.
type PostService struct {
	posts PostRepository
	now   func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts PostRepository) *PostService {
	return &PostService{
		posts: posts,
		now:   time.Now,
	}
}

// WithClock returns a copy of s that stamps dates using now.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	return &PostService{posts: s.posts, now: now}
}

// FormatPostDate renders t the way publish dates are stored, e.g. "April 5, 2024".
func FormatPostDate(t time.Time) string {
	return t.Format(store.PostDateLayout)
}

func (in PostInput) clean() PostInput {
	return PostInput{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Author:   strings.TrimSpace(in.Author),
		ImgURL:   strings.TrimSpace(in.ImgURL),
		Body:     bodySanitizer.Sanitize(in.Body),
	}
}

// check reports ErrBodyEmpty when nothing visible survives sanitising.
func (in PostInput) check() error {
	if strings.TrimSpace(in.Body) == "" {
		return ErrBodyEmpty
	}
	return nil
}

// List returns every post in insertion order.
func (s *PostService) List(ctx context.Context) ([]store.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post or ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (store.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return store.Post{}, ErrPostNotFound
		}
		return store.Post{}, fmt.Errorf("loading post %d: %w", id, err)
	}
	return post, nil
}

// Create stores a new post stamped with today's date.
func (s *PostService) Create(ctx context.Context, in PostInput) (store.Post, error) {
	in = in.clean()
	if err := in.check(); err != nil {
		return store.Post{}, err
	}
	now := s.now()

	post, err := s.posts.CreatePost(ctx, store.CreatePostParams{
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		Date:      FormatPostDate(now),
		Body:      in.Body,
		Author:    in.Author,
		ImgURL:    in.ImgURL,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			return store.Post{}, ErrTitleTaken
		}
		return store.Post{}, fmt.Errorf("creating post: %w", err)
	}

	slog.InfoContext(ctx, "post created", "post_id", post.ID, "title", post.Title)
	return post, nil
}

// Update replaces the editable fields of a post. The publish date is kept.
func (s *PostService) Update(ctx context.Context, id int64, in PostInput) (store.Post, error) {
	in = in.clean()
	if err := in.check(); err != nil {
		return store.Post{}, err
	}

	post, err := s.posts.UpdatePost(ctx, store.UpdatePostParams{
		ID:        id,
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		Body:      in.Body,
		Author:    in.Author,
		ImgURL:    in.ImgURL,
		UpdatedAt: s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateTitle):
			return store.Post{}, ErrTitleTaken
		case store.IsNotFound(err):
			return store.Post{}, ErrPostNotFound
		}
		return store.Post{}, fmt.Errorf("updating post %d: %w", id, err)
	}

	slog.InfoContext(ctx, "post updated", "post_id", post.ID)
	return post, nil
}

// Delete removes a post. ErrPostNotFound means there was nothing to delete.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	slog.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}
