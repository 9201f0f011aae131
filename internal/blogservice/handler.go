package blogservice

import (
	"context"
	"database/sql"

	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/postservice"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{
		m:  newBlogModel(db),
		ps: postservice.NewPostService(db),
	}
}

// ListBlogs returns every blog with its owner and posts attached.
func (s *BlogService) ListBlogs(ctx context.Context) ([]Blog, error) {
	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.m.attachPosts(ctx, blogs); err != nil {
		return nil, err
	}

	return blogs, nil
}

// CreateBlog creates a blog for the user. A second blog with the same
// (user, title) pair fails with ErrDuplicateTitle.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateDescription(v, req.Description)
	validateImageURL(v, req.ImageURL)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	id, err := s.m.insert(ctx, req)
	if err != nil {
		return nil, err
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.Posts = []postservice.Post{}

	return blog, nil
}

// GetBlog returns the blog with owner, posts, each post's likes, and
// each post's comments with their authors.
func (s *BlogService) GetBlog(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.ps.ListPosts(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Posts = posts

	return blog, nil
}

// UpdateBlog applies a partial update; supplied fields are validated,
// absent fields are untouched. A title collision with another blog of
// the same user surfaces as ErrDuplicateTitle via the storage
// constraint.
func (s *BlogService) UpdateBlog(ctx context.Context, id int, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Description != nil {
		validateDescription(v, *req.Description)
	}
	validateImageURL(v, req.ImageURL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err := s.m.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blogs := []Blog{*blog}
	if err := s.m.attachPosts(ctx, blogs); err != nil {
		return nil, err
	}

	return &blogs[0], nil
}

// DeleteBlog removes the blog; its posts and their likes and comments
// go with it via the cascade delete rules.
func (s *BlogService) DeleteBlog(ctx context.Context, id int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.delete(ctx, id)
}
