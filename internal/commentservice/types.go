package commentservice

import (
	"errors"
	"log/slog"

	"github.com/sushihentaime/blogdeck/internal/store"
)

var ErrNotOwner = errors.New("comment belongs to another user")

const (
	MaxContentLength = 1000
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type CommentService struct {
	blogs    store.Store
	comments store.CommentStore
	logger   *slog.Logger
}

type AddCommentRequest struct {
	BlogID  string       `json:"-"`
	Author  store.Author `json:"-"`
	Content string       `json:"content"`
}
