package main

import (
	"fmt"
	"net/http"

	"github.com/sushihentaime/blogdeck/internal/blogservice"
	"github.com/sushihentaime/blogdeck/internal/commentservice"
	"github.com/sushihentaime/blogdeck/internal/store"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filters := blogservice.Filters{
		Published: store.Bool(true),
		AuthorID:  r.URL.Query().Get("author"),
		Tags:      app.readCSVParam(r, "tag"),
	}

	res, err := app.blogService.FetchPage(r.Context(), filters, page, pageSize)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": res.Data, "pagination": res.Pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) searchBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	res := app.searchService.Search(r.Context(), r.URL.Query().Get("q"), page, pageSize)

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": res.Data, "pagination": res.Pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) featuredBlogsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := app.readIntParam(r, "limit", blogservice.DefaultFeaturedLimit)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blogs := app.blogService.Featured(r.Context(), min(limit, maxPageSize))

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags := app.tagService.GetTags(r.Context(), r.URL.Query().Get("current"))

	err := app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listUserBlogsHandler(w http.ResponseWriter, r *http.Request) {
	authorID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	page, pageSize, err := app.readPageParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	res, err := app.blogService.ListByAuthor(r.Context(), authorID, user.ID, page, pageSize)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": res.Data, "pagination": res.Pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreateBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.Author = *app.getUserContext(r)

	blog, err := app.blogService.CreateBlog(r.Context(), &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/blogs/%s", blog.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	blog, err := app.blogService.GetBlog(r.Context(), id, app.getUserContext(r).ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input blogservice.UpdateBlogRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.ID = id
	input.AuthorID = app.getUserContext(r).ID

	blog, err := app.blogService.UpdateBlog(r.Context(), &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.blogService.DeleteBlog(r.Context(), id, app.getUserContext(r).ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) likeBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	blog, err := app.blogService.ToggleLike(r.Context(), id, app.getUserContext(r).ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) relatedBlogsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	limit, err := app.readIntParam(r, "limit", blogservice.DefaultRelatedLimit)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blogs, err := app.blogService.RelatedTo(r.Context(), id, app.getUserContext(r).ID, min(limit, maxPageSize))
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	limit, err := app.readIntParam(r, "limit", commentservice.DefaultListLimit)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.ListComments(r.Context(), id, app.getUserContext(r).ID, limit)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input commentservice.AddCommentRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.BlogID = id
	input.Author = *app.getUserContext(r)

	comment, err := app.commentService.AddComment(r.Context(), &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	commentID, err := app.readIDParam(r, "commentID")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.commentService.DeleteComment(r.Context(), id, commentID, app.getUserContext(r).ID)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "comment successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
