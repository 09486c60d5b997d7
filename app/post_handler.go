package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/postservice"
)

const (
	publicPostsLimit = 20
	adminPostsLimit  = 50
)

// listPublishedPostsHandler serves the reading site: published posts only.
func (app *application) listPublishedPostsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r, publicPostsLimit)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	qs := r.URL.Query()

	filter := postservice.PostFilter{
		Status:     string(postservice.StatusPublished),
		CategoryID: qs.Get("category"),
		Search:     qs.Get("search"),
		Limit:      limit,
		Offset:     offset,
	}

	app.listPosts(w, r, filter)
}

// listAuthorPostsHandler lists the caller's own posts in any status.
func (app *application) listAuthorPostsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	limit, offset, err := app.readLimitOffsetParams(r, adminPostsLimit)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	qs := r.URL.Query()

	filter := postservice.PostFilter{
		Status:     qs.Get("status"),
		CategoryID: qs.Get("category"),
		AuthorID:   user.ID,
		Search:     qs.Get("search"),
		Limit:      limit,
		Offset:     offset,
	}

	app.listPosts(w, r, filter)
}

func (app *application) listPosts(w http.ResponseWriter, r *http.Request, filter postservice.PostFilter) {
	posts, err := app.postService.ListPosts(r.Context(), filter)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationErrorResponse(w, r, vErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getFeaturedPostHandler(w http.ResponseWriter, r *http.Request) {
	post, err := app.postService.GetFeaturedPost(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getPostBySlugHandler returns a post by slug and counts the view when it is published.
func (app *application) getPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := app.readIDParam(r, "slug")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	if slug == "featured" {
		app.getFeaturedPostHandler(w, r)
		return
	}

	post, err := app.postService.ViewPostBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getAuthorPostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	post, err := app.postService.GetAuthorPost(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotPostAuthor):
			app.forbiddenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	var input postservice.CreatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.AuthorID = user.ID

	post, err := app.postService.CreatePost(r.Context(), input)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationErrorResponse(w, r, vErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input postservice.UpdatePostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.postService.UpdatePost(r.Context(), id, user.ID, input)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotPostAuthor):
			app.forbiddenResponse(w, r)
		case errors.As(err, &vErr):
			app.failedValidationErrorResponse(w, r, vErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.postService.DeletePost(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, postservice.ErrNotPostAuthor):
			app.forbiddenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	stats, err := app.postService.GetStats(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
