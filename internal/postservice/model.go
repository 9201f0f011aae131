package postservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/koyasong/bloghive/internal/interactionservice"
	"github.com/koyasong/bloghive/internal/userservice"
)

var (
	ErrBlogNotFound   = errors.New("blog not found")
	ErrPostNotFound   = errors.New("post not found")
	ErrPostNotInBlog  = errors.New("post not found in this blog")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

func foreignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == constraint
	}

	return false
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func (m *PostModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT id, title, description, image_url, user_id, created_at, updated_at
		FROM blogs
		WHERE id = $1`

	var blog Blog
	var imageURL sql.NullString

	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Description, &imageURL, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrBlogNotFound
		default:
			return nil, err
		}
	}
	blog.ImageURL = stringPtr(imageURL)

	return &blog, nil
}

func (m *PostModel) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT id, blog_id, user_id, title, content, image_url, created_at, updated_at
		FROM posts
		WHERE id = $1`

	var post Post
	var imageURL sql.NullString

	err := m.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.BlogID, &post.UserID, &post.Title, &post.Content, &imageURL, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}
	post.ImageURL = stringPtr(imageURL)

	return &post, nil
}

func (m *PostModel) getPostsByBlogID(ctx context.Context, blogID int) ([]Post, error) {
	query := `
		SELECT p.id, p.blog_id, p.user_id, p.title, p.content, p.image_url, p.created_at, p.updated_at, u.id, u.username, u.email
		FROM posts p
		INNER JOIN users u ON p.user_id = u.id
		WHERE p.blog_id = $1
		ORDER BY p.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		var imageURL sql.NullString
		var user userservice.User

		err := rows.Scan(&post.ID, &post.BlogID, &post.UserID, &post.Title, &post.Content, &imageURL, &post.CreatedAt, &post.UpdatedAt, &user.ID, &user.Username, &user.Email)
		if err != nil {
			return nil, err
		}

		post.ImageURL = stringPtr(imageURL)
		post.User = &user
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) insert(ctx context.Context, blogID int, req *CreatePostRequest) (int, error) {
	query := `
		INSERT INTO posts (blog_id, user_id, title, content, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int

	err := m.db.QueryRowContext(ctx, query, blogID, req.UserID, req.Title, req.Content, nullString(req.ImageURL)).Scan(&id)
	if err != nil {
		switch {
		case foreignKeyViolation(err, "posts_user_id_fkey"):
			return 0, ErrUserForeignKey
		default:
			return 0, err
		}
	}

	return id, nil
}

func (m *PostModel) update(ctx context.Context, id int, req *UpdatePostRequest) error {
	query := `
		UPDATE posts
		SET title = COALESCE($1, title), content = COALESCE($2, content), image_url = COALESCE($3, image_url), updated_at = now()
		WHERE id = $4`

	res, err := m.db.ExecContext(ctx, query, nullString(req.Title), nullString(req.Content), nullString(req.ImageURL), id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotFound
	}

	return nil
}

// delete removes the post only when it belongs to the given blog; the
// parent check is part of the predicate rather than a separate read.
func (m *PostModel) delete(ctx context.Context, postID, blogID int) error {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND blog_id = $2`

	res, err := m.db.ExecContext(ctx, query, postID, blogID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPostNotInBlog
	}

	return nil
}

// attachLikes loads the likes of every post in posts in one query.
func (m *PostModel) attachLikes(ctx context.Context, posts []Post, withUser bool) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	byID := make(map[int]*Post, len(posts))
	for i := range posts {
		ids[i] = int64(posts[i].ID)
		byID[posts[i].ID] = &posts[i]
		posts[i].Likes = []interactionservice.Like{}
	}

	query := `
		SELECT l.id, l.post_id, l.user_id, l.created_at, u.id, u.username, u.email
		FROM likes l
		INNER JOIN users u ON l.user_id = u.id
		WHERE l.post_id = ANY($1)
		ORDER BY l.created_at ASC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var like interactionservice.Like
		var user userservice.User

		err := rows.Scan(&like.ID, &like.PostID, &like.UserID, &like.CreatedAt, &user.ID, &user.Username, &user.Email)
		if err != nil {
			return err
		}

		if withUser {
			like.User = &user
		}

		post := byID[like.PostID]
		post.Likes = append(post.Likes, like)
	}

	return rows.Err()
}

// attachComments loads the comments (with their authors) of every post
// in posts in one query.
func (m *PostModel) attachComments(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	byID := make(map[int]*Post, len(posts))
	for i := range posts {
		ids[i] = int64(posts[i].ID)
		byID[posts[i].ID] = &posts[i]
		posts[i].Comments = []interactionservice.Comment{}
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.comment, c.created_at, u.id, u.username, u.email
		FROM comments c
		INNER JOIN users u ON c.user_id = u.id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at ASC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var comment interactionservice.Comment
		var user userservice.User

		err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Comment, &comment.CreatedAt, &user.ID, &user.Username, &user.Email)
		if err != nil {
			return err
		}

		comment.User = &user
		post := byID[comment.PostID]
		post.Comments = append(post.Comments, comment)
	}

	return rows.Err()
}

func (m *PostModel) attachUser(ctx context.Context, post *Post) error {
	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1`

	var user userservice.User

	err := m.db.QueryRowContext(ctx, query, post.UserID).Scan(&user.ID, &user.Username, &user.Email)
	if err != nil {
		return err
	}
	post.User = &user

	return nil
}
