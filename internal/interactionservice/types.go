package interactionservice

import (
	"database/sql"
	"time"

	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/userservice"
)

type InteractionService struct {
	m  *InteractionModel
	mb common.MessageProducer
}

type InteractionModel struct {
	db *sql.DB
}

type Like struct {
	ID        int               `json:"id"`
	PostID    int               `json:"post_id"`
	UserID    int               `json:"user_id"`
	CreatedAt time.Time         `json:"created_at"`
	User      *userservice.User `json:"user,omitempty"`
}

type Comment struct {
	ID        int               `json:"id"`
	PostID    int               `json:"post_id"`
	UserID    int               `json:"user_id"`
	Comment   string            `json:"comment"`
	CreatedAt time.Time         `json:"created_at"`
	User      *userservice.User `json:"user,omitempty"`
}

// LikeResult is the outcome of a toggle: the action taken plus the
// post's current set of likes.
type LikeResult struct {
	Action     string `json:"action"`
	LikesCount int    `json:"likes_count"`
	Likes      []Like `json:"likes"`
}

// CommentCreatedEvent is the payload published to the interaction
// exchange when a comment lands on a post.
type CommentCreatedEvent struct {
	OwnerEmail string `json:"owner_email"`
	PostTitle  string `json:"post_title"`
	Commenter  string `json:"commenter"`
}
