package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidQuery   = errors.New("invalid query")
)

// Field names understood by predicates and orderings.
const (
	FieldPublished = "published"
	FieldAuthorID  = "authorId"
	FieldFeatured  = "featured"
	FieldTags      = "tags"
	FieldCreatedAt = "createdAt"
	FieldTitle     = "title"
)

// MaxAnyValues is the largest value list accepted by an array-contains-any predicate.
const MaxAnyValues = 10

type Op string

const (
	OpEqual            Op = "=="
	OpArrayContainsAny Op = "array-contains-any"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

type Predicate struct {
	Field string
	Op    Op
	Value any
}

type Order struct {
	Field     string
	Direction Direction
}

// Query describes a single scan over the blogs collection.
type Query struct {
	Predicates []Predicate
	OrderBy    []Order
	// Limit of zero means no limit.
	Limit      int
	StartAfter *Cursor
}

// Cursor is an opaque reference to a record; a scan started after it resumes
// immediately behind that record in the query's order.
type Cursor struct {
	id        string
	title     string
	createdAt time.Time
}

// CursorAfter returns a cursor positioned on b.
func CursorAfter(b Blog) *Cursor {
	return &Cursor{id: b.ID, title: b.Title, createdAt: b.CreatedAt}
}

type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Blog struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	Tags      []string   `json:"tags"`
	Image     string     `json:"image,omitempty"`
	Published *bool      `json:"published,omitempty"`
	Featured  bool       `json:"featured,omitempty"`
	ViewCount int64      `json:"view_count"`
	LikeCount int64      `json:"like_count"`
	Likes     []string   `json:"likes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Version   int        `json:"version"`
}

// IsPublished reports whether the blog is publicly visible. Records written
// before the flag existed have no value and count as published.
func (b Blog) IsPublished() bool {
	return b.Published == nil || *b.Published
}

// Clone returns a copy of b that shares no memory with it.
func (b Blog) Clone() Blog {
	b.Tags = append([]string{}, b.Tags...)
	b.Likes = append([]string{}, b.Likes...)
	if b.Published != nil {
		b.Published = Bool(*b.Published)
	}
	if b.UpdatedAt != nil {
		t := *b.UpdatedAt
		b.UpdatedAt = &t
	}
	return b
}

// Store is the document store holding blog records.
type Store interface {
	Find(ctx context.Context, q Query) ([]Blog, error)
	Get(ctx context.Context, id string) (*Blog, error)
	Insert(ctx context.Context, b *Blog) error
	Update(ctx context.Context, b *Blog) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string, n int64) error
	ToggleLike(ctx context.Context, id, userID string) (*Blog, error)
}

// Comment is a reader's note on a blog.
type Comment struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentStore holds comments. Deleting a blog deletes its comments.
type CommentStore interface {
	InsertComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	// ListComments returns up to limit comments of a blog, newest first.
	ListComments(ctx context.Context, blogID string, limit int) ([]Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

func Bool(v bool) *bool {
	return &v
}
