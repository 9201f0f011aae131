package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/postservice"
)

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	posts, err := app.postService.ListPosts(r.Context(), blogID)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrBlogNotFound):
			app.notFoundErrorResponse(w, r, fmt.Sprintf("Blog with ID %d not found", blogID))
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	message := "Posts retrieved successfully"
	if len(posts) == 0 {
		message = "No posts found for this blog"
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "data": posts, "message": message}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createPostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
	UserID   int     `json:"user_id"`
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input createPostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.CreatePost(r.Context(), blogID, &postservice.CreatePostRequest{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		UserID:   input.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrBlogNotFound):
			app.notFoundErrorResponse(w, r, fmt.Sprintf("Blog with ID %d not found", blogID))
		case errors.Is(err, postservice.ErrUserForeignKey):
			app.failedValidationErrorResponse(w, r, map[string]string{"user_id": "user does not exist"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"status": "success", "data": post, "message": "Post created successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	postID, err := app.readIDParam(r, "postId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.GetPost(r.Context(), blogID, postID)
	if err != nil {
		app.postErrorResponse(w, r, err, blogID)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "data": post, "message": "Post retrieved successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	postID, err := app.readIDParam(r, "postId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input updatePostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.UpdatePost(r.Context(), blogID, postID, &postservice.UpdatePostRequest{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	})
	if err != nil {
		app.postErrorResponse(w, r, err, blogID)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "data": post, "message": "Post updated successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	postID, err := app.readIDParam(r, "postId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.DeletePost(r.Context(), blogID, postID)
	if err != nil {
		switch {
		case errors.Is(err, postservice.ErrBlogNotFound):
			app.notFoundErrorResponse(w, r, "Blog not found")
		case errors.Is(err, postservice.ErrPostNotInBlog):
			app.notFoundErrorResponse(w, r, "Post not found in this blog")
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "message": "Post deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// postErrorResponse maps the shared failure modes of the post show and
// update paths.
func (app *application) postErrorResponse(w http.ResponseWriter, r *http.Request, err error, blogID int) {
	switch {
	case errors.Is(err, postservice.ErrBlogNotFound):
		app.notFoundErrorResponse(w, r, fmt.Sprintf("Blog with ID %d not found", blogID))
	case errors.Is(err, postservice.ErrPostNotFound):
		app.notFoundErrorResponse(w, r, "Post not found")
	case errors.Is(err, postservice.ErrPostNotInBlog):
		app.notFoundErrorResponse(w, r, "Post not found in this blog")
	case errors.As(err, &common.ValidationError{}):
		validationErr := err.(common.ValidationError)
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
