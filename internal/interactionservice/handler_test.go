package interactionservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/koyasong/bloghive/internal/common"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(ctx, msg, key, exchange)
	return args.Error(0)
}

func setupTestUser(t *testing.T, db *sql.DB, username, email string) int {
	t.Helper()

	var id int
	err := db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`, username, email, []byte("not-a-real-hash")).Scan(&id)
	require.NoError(t, err)

	return id
}

func setupTestPost(t *testing.T, db *sql.DB, userID int) int {
	t.Helper()

	var blogID int
	err := db.QueryRow(`
		INSERT INTO blogs (title, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`, "Test Blog", "A blog about testing.", userID).Scan(&blogID)
	require.NoError(t, err)

	var postID int
	err = db.QueryRow(`
		INSERT INTO posts (blog_id, user_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, blogID, userID, "First Post", "Hello, world.").Scan(&postID)
	require.NoError(t, err)

	return postID
}

func setupTestEnvironment(t *testing.T) (*sql.DB, int, int) {
	db := common.TestDB("file://../../migrations", t)
	userID := setupTestUser(t, db, "testuser", "testuser@example.com")
	postID := setupTestPost(t, db, userID)

	return db, userID, postID
}

func TestToggleLike(t *testing.T) {
	db, userID, postID := setupTestEnvironment(t)
	s := NewInteractionService(db, nil)

	t.Run("post not found", func(t *testing.T) {
		_, err := s.ToggleLike(context.Background(), 99999, userID)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("invalid user id", func(t *testing.T) {
		_, err := s.ToggleLike(context.Background(), postID, 0)

		var validationErr common.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "user_id")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		_, err := s.ToggleLike(context.Background(), postID, 99999)
		assert.ErrorIs(t, err, ErrUserForeignKey)
	})

	t.Run("toggle flips between liked and unliked", func(t *testing.T) {
		result, err := s.ToggleLike(context.Background(), postID, userID)
		require.NoError(t, err)
		assert.Equal(t, ActionLiked, result.Action)
		assert.Equal(t, 1, result.LikesCount)
		require.Len(t, result.Likes, 1)
		require.NotNil(t, result.Likes[0].User)
		assert.Equal(t, "testuser", result.Likes[0].User.Username)

		result, err = s.ToggleLike(context.Background(), postID, userID)
		require.NoError(t, err)
		assert.Equal(t, ActionUnliked, result.Action)
		assert.Equal(t, 0, result.LikesCount)
		assert.Empty(t, result.Likes)
	})

	t.Run("even number of toggles is not liked, odd is liked", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, err := s.ToggleLike(context.Background(), postID, userID)
			require.NoError(t, err)
		}

		var count int
		err := db.QueryRow(`SELECT count(*) FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		result, err := s.ToggleLike(context.Background(), postID, userID)
		require.NoError(t, err)
		assert.Equal(t, ActionLiked, result.Action)

		err = db.QueryRow(`SELECT count(*) FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("at most one like row per pair", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
		assert.Error(t, err)
	})
}

func TestAddComment(t *testing.T) {
	db, userID, postID := setupTestEnvironment(t)

	t.Run("post not found", func(t *testing.T) {
		s := NewInteractionService(db, nil)
		_, err := s.AddComment(context.Background(), 99999, userID, "Nice post!")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("comment too long", func(t *testing.T) {
		s := NewInteractionService(db, nil)
		_, err := s.AddComment(context.Background(), postID, userID, strings.Repeat("a", 1001))

		var validationErr common.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "comment")
	})

	t.Run("comment created with author and event published", func(t *testing.T) {
		producer := new(mockProducer)
		producer.On("Publish", mock.Anything, mock.Anything, common.CommentCreatedKey, common.InteractionExchange).Return(nil)

		s := NewInteractionService(db, producer)

		comment, err := s.AddComment(context.Background(), postID, userID, "Nice post!")
		require.NoError(t, err)

		assert.Equal(t, postID, comment.PostID)
		assert.Equal(t, "Nice post!", comment.Comment)
		require.NotNil(t, comment.User)
		assert.Equal(t, "testuser", comment.User.Username)

		producer.AssertExpectations(t)

		payload := producer.Calls[0].Arguments.Get(1).([]byte)
		var event CommentCreatedEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "testuser@example.com", event.OwnerEmail)
		assert.Equal(t, "First Post", event.PostTitle)
		assert.Equal(t, "testuser", event.Commenter)
	})
}
