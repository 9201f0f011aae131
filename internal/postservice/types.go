package postservice

import (
	"database/sql"
	"time"

	"github.com/koyasong/bloghive/internal/interactionservice"
	"github.com/koyasong/bloghive/internal/userservice"
)

type PostService struct {
	m *PostModel
}

type PostModel struct {
	db *sql.DB
}

type Post struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog_id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     *userservice.User            `json:"user,omitempty"`
	Blog     *Blog                        `json:"blog,omitempty"`
	Likes    []interactionservice.Like    `json:"likes"`
	Comments []interactionservice.Comment `json:"comments"`
}

// Blog is the parent blog as embedded in a post response. The full
// blog aggregate lives in the blogservice package.
type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
	UserID   int     `json:"user_id"`
}

// UpdatePostRequest carries a partial update: nil fields are left
// untouched.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}
