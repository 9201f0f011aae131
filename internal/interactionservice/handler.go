package interactionservice

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/koyasong/bloghive/internal/common"
)

const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

func NewInteractionService(db *sql.DB, mb common.MessageProducer) *InteractionService {
	return &InteractionService{m: newInteractionModel(db), mb: mb}
}

// ToggleLike flips the like state for the (post, user) pair: an
// existing like is removed, a missing one is created. The unique
// constraint on (post_id, user_id) keeps concurrent toggles from ever
// producing two rows.
func (s *InteractionService) ToggleLike(ctx context.Context, postID, userID int) (*LikeResult, error) {
	_, err := s.m.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	v := common.NewValidator()
	validateUserID(v, userID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	deleted, err := s.m.deleteLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	action := ActionUnliked
	if !deleted {
		err = s.m.insertLike(ctx, postID, userID)
		if err != nil {
			return nil, err
		}
		action = ActionLiked
	}

	likes, err := s.m.getLikesByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{
		Action:     action,
		LikesCount: len(likes),
		Likes:      likes,
	}, nil
}

// AddComment creates a comment on the post and publishes a
// comment.created event so the blog owner can be notified.
func (s *InteractionService) AddComment(ctx context.Context, postID, userID int, comment string) (*Comment, error) {
	post, err := s.m.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	v := common.NewValidator()
	validateUserID(v, userID)
	validateComment(v, comment)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := Comment{
		PostID:  postID,
		UserID:  userID,
		Comment: comment,
	}

	err = s.m.insertComment(ctx, &c)
	if err != nil {
		return nil, err
	}

	created, err := s.m.getCommentByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if s.mb != nil {
		event := CommentCreatedEvent{
			OwnerEmail: post.OwnerEmail,
			PostTitle:  post.Title,
			Commenter:  created.User.Username,
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}

		err = s.mb.Publish(ctx, payload, common.CommentCreatedKey, common.InteractionExchange)
		if err != nil {
			return nil, err
		}
	}

	return created, nil
}
