package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/blogdeck/internal/blogservice"
	"github.com/sushihentaime/blogdeck/internal/commentservice"
	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	app.writeErrorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "resource not found")
}

func (app *application) failedValidationErrorResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	app.writeErrorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "you must be authenticated to access this resource")
}

func (app *application) notOwnerErrorResponse(w http.ResponseWriter, r *http.Request, resource string) {
	app.writeErrorResponse(w, r, http.StatusForbidden, "you do not have permission to modify this "+resource)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// blogErrorResponse maps service errors to responses.
func (app *application) blogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	case errors.Is(err, store.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, blogservice.ErrNotOwner):
		app.notOwnerErrorResponse(w, r, "blog")
	case errors.Is(err, commentservice.ErrNotOwner):
		app.notOwnerErrorResponse(w, r, "comment")
	case errors.Is(err, store.ErrInvalidQuery):
		app.badRequestErrorResponse(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
