package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/blogdeck/internal/store"
)

type contextKey string

const userContextKey = contextKey("user")

// Identity headers are set by the authentication proxy in front of the service.
const (
	headerUserID     = "X-User-ID"
	headerUserName   = "X-User-Name"
	headerUserAvatar = "X-User-Avatar"
)

var anonymousUser = &store.Author{}

func (app *application) createUserContext(r *http.Request, user *store.Author) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) *store.Author {
	user, ok := r.Context().Value(userContextKey).(*store.Author)
	if !ok {
		return anonymousUser
	}
	return user
}

func isAnonymous(user *store.Author) bool {
	return user.ID == ""
}
