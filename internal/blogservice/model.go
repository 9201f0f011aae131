package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/koyasong/bloghive/internal/interactionservice"
	"github.com/koyasong/bloghive/internal/postservice"
	"github.com/koyasong/bloghive/internal/userservice"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate blog title for user")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func pqViolation(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code && pqErr.Constraint == constraint
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

// insert creates the blog row. The unique constraint over
// (user_id, title) is the duplicate-title check: a violation surfaces
// as ErrDuplicateTitle instead of a racy pre-read.
func (m *BlogModel) insert(ctx context.Context, req *CreateBlogRequest) (int, error) {
	query := `
		INSERT INTO blogs (title, description, image_url, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int

	err := m.db.QueryRowContext(ctx, query, req.Title, req.Description, nullString(req.ImageURL), req.UserID).Scan(&id)
	if err != nil {
		switch {
		case pqViolation(err, "23505", "blogs_user_id_title_key"):
			return 0, ErrDuplicateTitle
		case pqViolation(err, "23503", "blogs_user_id_fkey"):
			return 0, ErrUserForeignKey
		default:
			return 0, err
		}
	}

	return id, nil
}

func (m *BlogModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.description, b.image_url, b.user_id, b.created_at, b.updated_at, u.id, u.username, u.email
		FROM blogs b
		INNER JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	var blog Blog
	var imageURL sql.NullString
	var user userservice.User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Description, &imageURL, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &user.ID, &user.Username, &user.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	blog.ImageURL = stringPtr(imageURL)
	blog.User = &user

	return &blog, nil
}

func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.description, b.image_url, b.user_id, b.created_at, b.updated_at, u.id, u.username, u.email
		FROM blogs b
		INNER JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		var imageURL sql.NullString
		var user userservice.User

		err := rows.Scan(&blog.ID, &blog.Title, &blog.Description, &imageURL, &blog.UserID, &blog.CreatedAt, &blog.UpdatedAt, &user.ID, &user.Username, &user.Email)
		if err != nil {
			return nil, err
		}

		blog.ImageURL = stringPtr(imageURL)
		blog.User = &user
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) update(ctx context.Context, id int, req *UpdateBlogRequest) error {
	query := `
		UPDATE blogs
		SET title = COALESCE($1, title), description = COALESCE($2, description), image_url = COALESCE($3, image_url), updated_at = now()
		WHERE id = $4`

	res, err := m.db.ExecContext(ctx, query, nullString(req.Title), nullString(req.Description), nullString(req.ImageURL), id)
	if err != nil {
		switch {
		case pqViolation(err, "23505", "blogs_user_id_title_key"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (m *BlogModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// attachPosts loads the bare posts of every blog in blogs in one
// query. Nested likes and comments are only loaded on the single-blog
// path.
func (m *BlogModel) attachPosts(ctx context.Context, blogs []Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	ids := make([]int64, len(blogs))
	byID := make(map[int]*Blog, len(blogs))
	for i := range blogs {
		ids[i] = int64(blogs[i].ID)
		byID[blogs[i].ID] = &blogs[i]
		blogs[i].Posts = []postservice.Post{}
	}

	query := `
		SELECT id, blog_id, user_id, title, content, image_url, created_at, updated_at
		FROM posts
		WHERE blog_id = ANY($1)
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var post postservice.Post
		var imageURL sql.NullString

		err := rows.Scan(&post.ID, &post.BlogID, &post.UserID, &post.Title, &post.Content, &imageURL, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return err
		}

		post.ImageURL = stringPtr(imageURL)
		post.Likes = []interactionservice.Like{}
		post.Comments = []interactionservice.Comment{}
		blog := byID[post.BlogID]
		blog.Posts = append(blog.Posts, post)
	}

	return rows.Err()
}
