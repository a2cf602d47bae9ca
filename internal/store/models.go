package store

import "time"

// PostDateLayout renders publish dates like "April 5, 2024" (no leading zero).
const PostDateLayout = "January 2, 2006"

// User is a registered author account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Post is a blog article.
type Post struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	// Date is the human-readable publish date stamped at creation.
	Date      string    `json:"date"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	ImgURL    string    `json:"img_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
