package blogservice

import (
	"errors"
	"log/slog"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

var (
	// ErrFetchFailed wraps any store failure met while listing blogs.
	ErrFetchFailed = errors.New("could not fetch blogs")
	ErrNotOwner    = errors.New("blog belongs to another author")
)

const (
	DefaultPageSize      = 6
	DefaultFeaturedLimit = 3
	DefaultRelatedLimit  = 3
)

// Filters selects the blogs of a structured listing. Zero values mean no filter.
type Filters struct {
	Published *bool    `json:"published,omitempty"`
	AuthorID  string   `json:"author_id,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type BlogService struct {
	s        store.Store
	c        *common.Cache
	mb       common.MessageProducer
	logger   *slog.Logger
	pageSize int
}

type CreateBlogRequest struct {
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags"`
	Image     string       `json:"image"`
	Published *bool        `json:"published"`
	Author    store.Author `json:"-"`
}

type UpdateBlogRequest struct {
	ID        string   `json:"-"`
	AuthorID  string   `json:"-"`
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image"`
	Published *bool    `json:"published"`
}

// ViewedEvent is published on common.BlogViewedKey every time a blog is read.
type ViewedEvent struct {
	BlogID string `json:"blog_id"`
}
