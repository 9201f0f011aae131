package blogservice

import (
	"database/sql"
	"time"

	"github.com/koyasong/bloghive/internal/postservice"
	"github.com/koyasong/bloghive/internal/userservice"
)

type Blog struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User  *userservice.User  `json:"user,omitempty"`
	Posts []postservice.Post `json:"posts"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m  *BlogModel
	ps *postservice.PostService
}

type CreateBlogRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	UserID      int     `json:"user_id"`
}

// UpdateBlogRequest carries a partial update: nil fields are left
// untouched.
type UpdateBlogRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}
