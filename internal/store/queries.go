package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds the SQL statements for users and posts.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q that runs its statements inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const userColumns = `id, email, password_hash, name, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	return u, err
}

// CreateUserParams holds the values for a new user row.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

const createUser = `INSERT INTO users (email, password_hash, name, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.PasswordHash, arg.Name, arg.CreatedAt)
	return scanUser(row)
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const postColumns = `id, title, subtitle, date, body, author, img_url, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.Author, &p.ImgURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const listPosts = `SELECT ` + postColumns + ` FROM posts ORDER BY id ASC`

func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPostByID = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const countPosts = `SELECT COUNT(*) FROM posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&n)
	return n, err
}

// CreatePostParams holds the values for a new post row.
type CreatePostParams struct {
	Title     string
	Subtitle  string
	Date      string
	Body      string
	Author    string
	ImgURL    string
	CreatedAt time.Time
}

const createPost = `INSERT INTO posts (title, subtitle, date, body, author, img_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title, arg.Subtitle, arg.Date, arg.Body, arg.Author, arg.ImgURL, arg.CreatedAt, arg.CreatedAt)
	return scanPost(row)
}

// UpdatePostParams holds the editable post columns. The date column is
// deliberately absent: it is fixed at creation.
type UpdatePostParams struct {
	ID        int64
	Title     string
	Subtitle  string
	Body      string
	Author    string
	ImgURL    string
	UpdatedAt time.Time
}

const updatePost = `UPDATE posts
SET title = ?, subtitle = ?, body = ?, author = ?, img_url = ?, updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title, arg.Subtitle, arg.Body, arg.Author, arg.ImgURL, arg.UpdatedAt, arg.ID)
	return scanPost(row)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

// DeletePost removes a post and reports how many rows were affected.
func (q *Queries) DeletePost(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePost, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
