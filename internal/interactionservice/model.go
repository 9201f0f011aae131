package interactionservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/koyasong/bloghive/internal/userservice"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newInteractionModel(db *sql.DB) *InteractionModel {
	return &InteractionModel{db: db}
}

func foreignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == constraint
	}

	return false
}

// postInfo carries what the notification event needs about the post
// being interacted with.
type postInfo struct {
	ID         int
	Title      string
	OwnerEmail string
}

func (m *InteractionModel) getPost(ctx context.Context, postID int) (*postInfo, error) {
	query := `
		SELECT p.id, p.title, u.email
		FROM posts p
		INNER JOIN blogs b ON p.blog_id = b.id
		INNER JOIN users u ON b.user_id = u.id
		WHERE p.id = $1`

	var p postInfo

	err := m.db.QueryRowContext(ctx, query, postID).Scan(&p.ID, &p.Title, &p.OwnerEmail)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	return &p, nil
}

// deleteLike removes the like for the (post, user) pair and reports
// whether a row was actually deleted.
func (m *InteractionModel) deleteLike(ctx context.Context, postID, userID int) (bool, error) {
	query := `
		DELETE FROM likes
		WHERE post_id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// insertLike inserts a like for the (post, user) pair. The unique
// constraint on (post_id, user_id) makes a concurrent duplicate insert
// a no-op rather than a second row.
func (m *InteractionModel) insertLike(ctx context.Context, postID, userID int) error {
	query := `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT likes_post_id_user_id_key DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		switch {
		case foreignKeyViolation(err, "likes_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *InteractionModel) getLikesByPostID(ctx context.Context, postID int) ([]Like, error) {
	query := `
		SELECT l.id, l.post_id, l.user_id, l.created_at, u.id, u.username, u.email
		FROM likes l
		INNER JOIN users u ON l.user_id = u.id
		WHERE l.post_id = $1
		ORDER BY l.created_at ASC`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []Like{}
	for rows.Next() {
		var like Like
		var user userservice.User
		err := rows.Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt, &user.ID, &user.Username, &user.Email)
		if err != nil {
			return nil, err
		}
		like.User = &user
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return likes, nil
}

func (m *InteractionModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.PostID, c.UserID, c.Comment).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case foreignKeyViolation(err, "comments_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *InteractionModel) getCommentByID(ctx context.Context, id int) (*Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.comment, c.created_at, u.id, u.username, u.email
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.id = $1`

	var c Comment
	var user userservice.User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.CreatedAt, &user.ID, &user.Username, &user.Email)
	if err != nil {
		return nil, err
	}
	c.User = &user

	return &c, nil
}
