package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerAndLogin creates a user through the API and returns its id
// plus a valid access token.
func registerAndLogin(t *testing.T, ts *testServer, username, email string) (int, string) {
	t.Helper()

	code, _, env := ts.post(t, "/v1/users/register", map[string]any{
		"username": username,
		"email":    email,
		"password": "Password123!",
	}, nil)
	require.Equal(t, http.StatusCreated, code)

	userID := int(env["data"].(map[string]any)["id"].(float64))

	code, _, env = ts.post(t, "/v1/users/login", map[string]any{
		"username": username,
		"password": "Password123!",
	}, nil)
	require.Equal(t, http.StatusOK, code)

	token := env["data"].(map[string]any)["access_token"].(string)

	return userID, token
}

func createBlog(t *testing.T, ts *testServer, token string, userID int, title string) int {
	t.Helper()

	code, _, env := ts.post(t, "/v1/blogs", map[string]any{
		"title":       title,
		"description": "A blog about Go.",
		"user_id":     userID,
	}, &token)
	require.Equal(t, http.StatusCreated, code)

	return int(env["data"].(map[string]any)["id"].(float64))
}

func createPost(t *testing.T, ts *testServer, token string, userID, blogID int, title string) int {
	t.Helper()

	code, _, env := ts.post(t, fmt.Sprintf("/v1/blogs/%d/posts", blogID), map[string]any{
		"title":   title,
		"content": "Some content.",
		"user_id": userID,
	}, &token)
	require.Equal(t, http.StatusCreated, code)

	return int(env["data"].(map[string]any)["id"].(float64))
}

func TestHealthcheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, _, env := ts.get(t, "/v1/healthcheck", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", env["status"])
	assert.Equal(t, "test", env["system_info"].(map[string]any)["environment"])
}

func TestUserRegistrationAndLogin(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("register", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/users/register", map[string]any{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "Password123!",
		}, nil)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "success", env["status"])
		assert.Equal(t, "User registered successfully", env["message"])

		data := env["data"].(map[string]any)
		assert.Equal(t, "alice", data["username"])
		assert.NotContains(t, data, "password")
	})

	t.Run("duplicate username", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/users/register", map[string]any{
			"username": "alice",
			"email":    "alice2@example.com",
			"password": "Password123!",
		}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		errs := env["errors"].(map[string]any)
		assert.Equal(t, "this username is already taken", errs["username"])
	})

	t.Run("login wrong password", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/users/login", map[string]any{
			"username": "alice",
			"password": "WrongPassword123!",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid authentication credentials", env["message"])
	})

	t.Run("login success", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/users/login", map[string]any{
			"username": "alice",
			"password": "Password123!",
		}, nil)

		assert.Equal(t, http.StatusOK, code)
		data := env["data"].(map[string]any)
		assert.Len(t, data["access_token"].(string), 26)
		assert.Len(t, data["refresh_token"].(string), 26)
	})
}

func TestLogout(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := registerAndLogin(t, ts, "alice", "alice@example.com")

	code, _, env := ts.post(t, "/v1/users/logout", map[string]any{}, &token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", env["message"])

	code, _, _ = ts.get(t, "/v1/blogs", &token)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBlogEndpoints(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	userID, token := registerAndLogin(t, ts, "alice", "alice@example.com")

	t.Run("requires authentication", func(t *testing.T) {
		code, _, env := ts.get(t, "/v1/blogs", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid or missing authentication token", env["message"])
	})

	t.Run("create", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/blogs", map[string]any{
			"title":       "My Blog",
			"description": "A blog about Go.",
			"user_id":     userID,
		}, &token)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Blog created successfully", env["message"])

		data := env["data"].(map[string]any)
		assert.Equal(t, "My Blog", data["title"])
		assert.Empty(t, data["posts"])
	})

	t.Run("duplicate title is rejected and not inserted", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/blogs", map[string]any{
			"title":       "My Blog",
			"description": "Another description.",
			"user_id":     userID,
		}, &token)

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "Blog creation failed", env["message"])

		errs := env["errors"].(map[string]any)
		assert.Equal(t, "You already have a blog with this title. Please choose a different title.", errs["title"])

		var count int
		err := db.QueryRow(`SELECT count(*) FROM blogs WHERE user_id = $1 AND title = $2`, userID, "My Blog").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("same title by another user is allowed", func(t *testing.T) {
		otherID, otherToken := registerAndLogin(t, ts, "bob", "bob@example.com")

		code, _, _ := ts.post(t, "/v1/blogs", map[string]any{
			"title":       "My Blog",
			"description": "Bob's take.",
			"user_id":     otherID,
		}, &otherToken)

		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("show with nested posts", func(t *testing.T) {
		blogID := createBlog(t, ts, token, userID, "Nested Blog")
		createPost(t, ts, token, userID, blogID, "First Post")

		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d", blogID), &token)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Blog retrieved successfully", env["message"])

		data := env["data"].(map[string]any)
		posts := data["posts"].([]any)
		require.Len(t, posts, 1)

		post := posts[0].(map[string]any)
		assert.Equal(t, "First Post", post["title"])
		assert.NotNil(t, post["likes"])
		assert.NotNil(t, post["comments"])
	})

	t.Run("show missing blog", func(t *testing.T) {
		code, _, env := ts.get(t, "/v1/blogs/99999", &token)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Blog not found", env["message"])
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		blogID := createBlog(t, ts, token, userID, "Update Me")

		code, _, env := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogID), &token, map[string]any{
			"title": "Updated Title",
		})

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, fmt.Sprintf("Blog with ID %d updated successfully", blogID), env["message"])

		data := env["data"].(map[string]any)
		assert.Equal(t, "Updated Title", data["title"])
		assert.Equal(t, "A blog about Go.", data["description"])
	})

	t.Run("delete", func(t *testing.T) {
		blogID := createBlog(t, ts, token, userID, "Delete Me")

		code, _, env := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogID), &token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, fmt.Sprintf("Blog with ID %d deleted successfully", blogID), env["message"])

		code, _, _ = ts.get(t, fmt.Sprintf("/v1/blogs/%d", blogID), &token)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestPostEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	userID, token := registerAndLogin(t, ts, "alice", "alice@example.com")
	blogID := createBlog(t, ts, token, userID, "My Blog")
	otherBlogID := createBlog(t, ts, token, userID, "Other Blog")

	t.Run("list empty", func(t *testing.T) {
		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts", blogID), &token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "No posts found for this blog", env["message"])
	})

	postID := createPost(t, ts, token, userID, blogID, "First Post")

	t.Run("list", func(t *testing.T) {
		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts", blogID), &token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Posts retrieved successfully", env["message"])
		assert.Len(t, env["data"].([]any), 1)
	})

	t.Run("show", func(t *testing.T) {
		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", blogID, postID), &token)
		assert.Equal(t, http.StatusOK, code)

		data := env["data"].(map[string]any)
		assert.Equal(t, "First Post", data["title"])
	})

	t.Run("show under the wrong blog", func(t *testing.T) {
		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", otherBlogID, postID), &token)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Post not found in this blog", env["message"])
	})

	t.Run("show missing post", func(t *testing.T) {
		code, _, env := ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts/99999", blogID), &token)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Post not found", env["message"])
	})

	t.Run("partial update keeps content", func(t *testing.T) {
		code, _, env := ts.put(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", blogID, postID), &token, map[string]any{
			"title": "Renamed Post",
		})

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Post updated successfully", env["message"])

		data := env["data"].(map[string]any)
		assert.Equal(t, "Renamed Post", data["title"])
		assert.Equal(t, "Some content.", data["content"])
	})

	t.Run("delete under the wrong blog leaves the post", func(t *testing.T) {
		code, _, env := ts.delete(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", otherBlogID, postID), &token)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Post not found in this blog", env["message"])

		code, _, _ = ts.get(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", blogID, postID), &token)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("delete", func(t *testing.T) {
		code, _, env := ts.delete(t, fmt.Sprintf("/v1/blogs/%d/posts/%d", blogID, postID), &token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Post deleted successfully", env["message"])
	})
}

func TestInteractionEndpoints(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	userID, token := registerAndLogin(t, ts, "alice", "alice@example.com")
	blogID := createBlog(t, ts, token, userID, "My Blog")
	postID := createPost(t, ts, token, userID, blogID, "First Post")

	t.Run("like then unlike", func(t *testing.T) {
		code, _, env := ts.post(t, fmt.Sprintf("/v1/posts/%d/like", postID), map[string]any{"user_id": userID}, &token)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "liked", env["action"])
		assert.Equal(t, float64(1), env["likes_count"])
		assert.Equal(t, "Post liked successfully", env["message"])

		code, _, env = ts.post(t, fmt.Sprintf("/v1/posts/%d/like", postID), map[string]any{"user_id": userID}, &token)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "unliked", env["action"])
		assert.Equal(t, float64(0), env["likes_count"])
		assert.Equal(t, "Post unliked successfully", env["message"])
	})

	t.Run("like missing post", func(t *testing.T) {
		code, _, env := ts.post(t, "/v1/posts/99999/like", map[string]any{"user_id": userID}, &token)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Post not found", env["message"])
	})

	t.Run("comment", func(t *testing.T) {
		code, _, env := ts.post(t, fmt.Sprintf("/v1/posts/%d/comment", postID), map[string]any{
			"user_id": userID,
			"comment": "Nice post!",
		}, &token)

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Comment added successfully", env["message"])

		data := env["data"].(map[string]any)
		assert.Equal(t, "Nice post!", data["comment"])
		assert.Equal(t, "alice", data["user"].(map[string]any)["username"])
	})

	t.Run("comment validation", func(t *testing.T) {
		code, _, env := ts.post(t, fmt.Sprintf("/v1/posts/%d/comment", postID), map[string]any{
			"user_id": userID,
			"comment": "",
		}, &token)

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "Validation failed", env["message"])
		assert.Contains(t, env["errors"].(map[string]any), "comment")
	})
}
