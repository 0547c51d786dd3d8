package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// listings
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/search", app.searchBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/featured", app.featuredBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/tags", app.listTagsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/:id/blogs", app.listUserBlogsHandler)

	// single blogs
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.requireUser(app.rateLimit(actionCreate, app.createBlogHandler)))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blogs/:id", app.requireUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id", app.requireUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/like", app.requireUser(app.rateLimit(actionLike, app.likeBlogHandler)))
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/related", app.relatedBlogsHandler)

	// comments
	router.HandlerFunc(http.MethodGet, "/v1/blogs/:id/comments", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blogs/:id/comments", app.requireUser(app.rateLimit(actionComment, app.createCommentHandler)))
	router.HandlerFunc(http.MethodDelete, "/v1/blogs/:id/comments/:commentID", app.requireUser(app.deleteCommentHandler))

	return app.recoverPanic(app.logRequest(app.identify(router)))
}
