package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundHandler)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.requireAuthUser(app.listBlogsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.requireAuthUser(app.showBlogHandler))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))

	// post service
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/posts", app.requireAuthUser(app.listPostsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/posts", app.requireAuthUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/posts/:postId", app.requireAuthUser(app.showPostHandler))
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id/posts/:postId", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/blogs/:id/posts/:postId", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id/posts/:postId", app.requireAuthUser(app.deletePostHandler))

	// interaction service
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/like", app.requireAuthUser(app.toggleLikeHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/comment", app.requireAuthUser(app.addCommentHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
