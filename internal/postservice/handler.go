package postservice

import (
	"context"
	"database/sql"

	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/interactionservice"
)

func NewPostService(db *sql.DB) *PostService {
	return &PostService{m: newPostModel(db)}
}

// ListPosts returns the posts of the blog with author, likes, and
// comments attached. The blog must exist; an empty post list is not an
// error.
func (s *PostService) ListPosts(ctx context.Context, blogID int) ([]Post, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	_, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	posts, err := s.m.getPostsByBlogID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if err := s.m.attachLikes(ctx, posts, false); err != nil {
		return nil, err
	}

	if err := s.m.attachComments(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

// CreatePost creates a post under the blog resolved from the request
// path and returns it with author, blog, likes, and comments loaded.
func (s *PostService) CreatePost(ctx context.Context, blogID int, req *CreatePostRequest) (*Post, error) {
	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateImageURL(v, req.ImageURL)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	id, err := s.m.insert(ctx, blogID, req)
	if err != nil {
		return nil, err
	}

	post, err := s.m.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.m.attachUser(ctx, post); err != nil {
		return nil, err
	}

	post.Blog = blog
	post.Likes = []interactionservice.Like{}
	post.Comments = []interactionservice.Comment{}

	return post, nil
}

// GetPost resolves the blog and post independently and asserts that the
// post belongs to the blog before loading its associations.
func (s *PostService) GetPost(ctx context.Context, blogID, postID int) (*Post, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	post, err := s.m.getPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.BlogID != blog.ID {
		return nil, ErrPostNotInBlog
	}

	if err := s.m.attachUser(ctx, post); err != nil {
		return nil, err
	}
	post.Blog = blog

	posts := []Post{*post}
	if err := s.m.attachLikes(ctx, posts, true); err != nil {
		return nil, err
	}
	if err := s.m.attachComments(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

// UpdatePost applies a partial update after the same parent check as
// GetPost. Fields left nil in the request are untouched.
func (s *PostService) UpdatePost(ctx context.Context, blogID, postID int, req *UpdatePostRequest) (*Post, error) {
	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	post, err := s.m.getPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.BlogID != blog.ID {
		return nil, ErrPostNotInBlog
	}

	v := common.NewValidator()
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Content != nil {
		validateContent(v, *req.Content)
	}
	validateImageURL(v, req.ImageURL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.update(ctx, postID, req)
	if err != nil {
		return nil, err
	}

	return s.GetPost(ctx, blogID, postID)
}

// DeletePost resolves the blog first, then deletes with a predicate on
// both the post id and the blog id so a post in another blog is never
// touched.
func (s *PostService) DeletePost(ctx context.Context, blogID, postID int) error {
	v := common.NewValidator()
	validateInt(v, blogID, "blog_id")
	validateInt(v, postID, "post_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	_, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return err
	}

	return s.m.delete(ctx, postID, blogID)
}
