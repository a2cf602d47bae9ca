package store

import (
	"context"
	"database/sql"
)

// PostRepository persists posts. Every write is a single-statement
// transaction committed or rolled back as a whole.
type PostRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewPostRepository creates a PostRepository backed by db.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db, queries: New(db)}
}

// ListPosts returns all posts in insertion (id) order.
func (r *PostRepository) ListPosts(ctx context.Context) ([]Post, error) {
	posts, err := r.queries.ListPosts(ctx)
	return posts, classify(err)
}

// GetPost returns the post with the given id or ErrNotFound.
func (r *PostRepository) GetPost(ctx context.Context, id int64) (Post, error) {
	p, err := r.queries.GetPostByID(ctx, id)
	return p, classify(err)
}

// CreatePost inserts a post. A duplicate title yields ErrDuplicateTitle.
func (r *PostRepository) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	var post Post
	err := RunInTx(ctx, r.db, "create post", func(q *Queries) error {
		p, err := q.CreatePost(ctx, arg)
		if err != nil {
			return classify(err)
		}
		post = p
		return nil
	})
	return post, err
}

// UpdatePost rewrites the editable columns of an existing post.
func (r *PostRepository) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	var post Post
	err := RunInTx(ctx, r.db, "update post", func(q *Queries) error {
		p, err := q.UpdatePost(ctx, arg)
		if err != nil {
			return classify(err)
		}
		post = p
		return nil
	})
	return post, err
}

// DeletePost removes a post. Deleting a missing post returns ErrNotFound.
func (r *PostRepository) DeletePost(ctx context.Context, id int64) error {
	return RunInTx(ctx, r.db, "delete post", func(q *Queries) error {
		n, err := q.DeletePost(ctx, id)
		if err != nil {
			return classify(err)
		}
		if n == 0 {
			return classify(sql.ErrNoRows)
		}
		return nil
	})
}

// UserRepository persists user accounts.
type UserRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewUserRepository creates a UserRepository backed by db.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, queries: New(db)}
}

// CreateUser inserts a user. A duplicate email yields ErrDuplicateEmail.
func (r *UserRepository) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var user User
	err := RunInTx(ctx, r.db, "create user", func(q *Queries) error {
		u, err := q.CreateUser(ctx, arg)
		if err != nil {
			return classify(err)
		}
		user = u
		return nil
	})
	return user, err
}

// GetUserByID returns the user with the given id or ErrNotFound.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := r.queries.GetUserByID(ctx, id)
	return u, classify(err)
}

// GetUserByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := r.queries.GetUserByEmail(ctx, email)
	return u, classify(err)
}
