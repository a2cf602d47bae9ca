// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/olegiv/oblog/internal/store"
)

// MemoryUsers is an in-memory user repository with the same uniqueness and
// not-found semantics as the SQLite one.
type MemoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]store.User

	// FailWrites, when set, is returned by every write.
	FailWrites error
}

// NewMemoryUsers creates an empty MemoryUsers.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byID: make(map[int64]store.User)}
}

func (m *MemoryUsers) CreateUser(_ context.Context, arg store.CreateUserParams) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return store.User{}, m.FailWrites
	}
	for _, u := range m.byID {
		if u.Email == arg.Email {
			return store.User{}, store.ErrDuplicateEmail
		}
	}

	m.nextID++
	u := store.User{
		ID:           m.nextID,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Name:         arg.Name,
		CreatedAt:    arg.CreatedAt,
	}
	m.byID[u.ID] = u
	return u, nil
}

func (m *MemoryUsers) GetUserByID(_ context.Context, id int64) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

// Count returns the number of stored users.
func (m *MemoryUsers) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// MemoryPosts is an in-memory post repository.
type MemoryPosts struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]store.Post

	// FailWrites, when set, is returned by every write and nothing is stored.
	FailWrites error
}

// NewMemoryPosts creates an empty MemoryPosts.
func NewMemoryPosts() *MemoryPosts {
	return &MemoryPosts{byID: make(map[int64]store.Post)}
}

func (m *MemoryPosts) titleTaken(title string, except int64) bool {
	for id, p := range m.byID {
		if id != except && p.Title == title {
			return true
		}
	}
	return false
}

func (m *MemoryPosts) ListPosts(_ context.Context) ([]store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := make([]store.Post, 0, len(m.byID))
	for _, p := range m.byID {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *MemoryPosts) GetPost(_ context.Context, id int64) (store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.byID[id]
	if !ok {
		return store.Post{}, store.ErrNotFound
	}
	return p, nil
}

func (m *MemoryPosts) CreatePost(_ context.Context, arg store.CreatePostParams) (store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return store.Post{}, m.FailWrites
	}
	if m.titleTaken(arg.Title, 0) {
		return store.Post{}, store.ErrDuplicateTitle
	}

	m.nextID++
	p := store.Post{
		ID:        m.nextID,
		Title:     arg.Title,
		Subtitle:  arg.Subtitle,
		Date:      arg.Date,
		Body:      arg.Body,
		Author:    arg.Author,
		ImgURL:    arg.ImgURL,
		CreatedAt: arg.CreatedAt,
		UpdatedAt: arg.CreatedAt,
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *MemoryPosts) UpdatePost(_ context.Context, arg store.UpdatePostParams) (store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return store.Post{}, m.FailWrites
	}
	p, ok := m.byID[arg.ID]
	if !ok {
		return store.Post{}, store.ErrNotFound
	}
	if m.titleTaken(arg.Title, arg.ID) {
		return store.Post{}, store.ErrDuplicateTitle
	}

	p.Title = arg.Title
	p.Subtitle = arg.Subtitle
	p.Body = arg.Body
	p.Author = arg.Author
	p.ImgURL = arg.ImgURL
	p.UpdatedAt = arg.UpdatedAt
	m.byID[p.ID] = p
	return p, nil
}

func (m *MemoryPosts) DeletePost(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	if _, ok := m.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// Count returns the number of stored posts.
func (m *MemoryPosts) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
