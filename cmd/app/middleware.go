package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sushihentaime/blogdeck/internal/store"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

// identify puts the caller named by the identity headers in the request
// context. Requests without them are anonymous.
func (app *application) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", headerUserID)

		id := strings.TrimSpace(r.Header.Get(headerUserID))
		if id == "" {
			next.ServeHTTP(w, app.createUserContext(r, anonymousUser))
			return
		}

		user := &store.Author{
			ID:        id,
			Name:      strings.TrimSpace(r.Header.Get(headerUserName)),
			AvatarURL: strings.TrimSpace(r.Header.Get(headerUserAvatar)),
		}

		next.ServeHTTP(w, app.createUserContext(r, user))
	})
}

func (app *application) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if isAnonymous(user) {
			app.authenticationRequiredResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimit must run behind requireUser.
func (app *application) rateLimit(a action, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if !app.limiter.allow(user.ID, a) {
			app.logger.Info("rate limit exceeded", slog.String("user_id", user.ID), slog.String("action", string(a)))
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
