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

	// auth
	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", app.requireAuthUser(app.logoutUserHandler))
	router.HandlerFunc(http.MethodGet, "/api/auth/user", app.requireAuthUser(app.getCurrentUserHandler))
	router.HandlerFunc(http.MethodPut, "/api/auth/user", app.requireAuthUser(app.updateCurrentUserHandler))

	// public
	router.HandlerFunc(http.MethodGet, "/api/posts", app.listPublishedPostsHandler)
	// "/api/posts/featured" is dispatched by getPostBySlugHandler; httprouter
	// does not allow a static segment next to :slug.
	router.HandlerFunc(http.MethodGet, "/api/posts/:slug", app.getPostBySlugHandler)
	router.HandlerFunc(http.MethodGet, "/api/categories", app.listCategoriesHandler)

	// admin
	router.HandlerFunc(http.MethodGet, "/api/admin/posts", app.requireAuthUser(app.listAuthorPostsHandler))
	router.HandlerFunc(http.MethodPost, "/api/admin/posts", app.requireAuthUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin/posts/:id", app.requireAuthUser(app.getAuthorPostHandler))
	router.HandlerFunc(http.MethodPut, "/api/admin/posts/:id", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/api/admin/posts/:id", app.requireAuthUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin/stats", app.requireAuthUser(app.getStatsHandler))
	router.HandlerFunc(http.MethodPost, "/api/admin/upload", app.requireAuthUser(app.uploadImageHandler))
	router.HandlerFunc(http.MethodPost, "/api/admin/categories", app.requireAuthUser(app.createCategoryHandler))
	router.HandlerFunc(http.MethodPut, "/api/admin/categories/:id", app.requireAuthUser(app.updateCategoryHandler))
	router.HandlerFunc(http.MethodDelete, "/api/admin/categories/:id", app.requireAuthUser(app.deleteCategoryHandler))

	if app.uploadDir != "" {
		router.ServeFiles("/uploads/*filepath", http.Dir(app.uploadDir))
	}

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(app.authenticate(router)))))
}
