package main

import (
	"errors"
	"net/http"

	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/interactionservice"
)

type toggleLikeRequest struct {
	UserID int `json:"user_id"`
}

func (app *application) toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input toggleLikeRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	result, err := app.interactionService.ToggleLike(r.Context(), postID, input.UserID)
	if err != nil {
		switch {
		case errors.Is(err, interactionservice.ErrPostNotFound):
			app.notFoundErrorResponse(w, r, "Post not found")
		case errors.Is(err, interactionservice.ErrUserForeignKey):
			app.failedValidationErrorResponse(w, r, map[string]string{"user_id": "user does not exist"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	message := "Post liked successfully"
	if result.Action == interactionservice.ActionUnliked {
		message = "Post unliked successfully"
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status":      "success",
		"action":      result.Action,
		"likes_count": result.LikesCount,
		"data":        result.Likes,
		"message":     message,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type addCommentRequest struct {
	UserID  int    `json:"user_id"`
	Comment string `json:"comment"`
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input addCommentRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comment, err := app.interactionService.AddComment(r.Context(), postID, input.UserID, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, interactionservice.ErrPostNotFound):
			app.notFoundErrorResponse(w, r, "Post not found")
		case errors.Is(err, interactionservice.ErrUserForeignKey):
			app.failedValidationErrorResponse(w, r, map[string]string{"user_id": "user does not exist"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"status": "success", "data": comment, "message": "Comment added successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
