package blogservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

// NewBlogService builds the blog service. c holds pagination cursors; mb may
// be nil, in which case reads publish no view events.
func NewBlogService(s store.Store, c *common.Cache, mb common.MessageProducer, logger *slog.Logger, pageSize int) *BlogService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return &BlogService{s: s, c: c, mb: mb, logger: logger, pageSize: pageSize}
}

// PageSize is the page size used when a caller does not ask for one.
func (s *BlogService) PageSize() int {
	return s.pageSize
}

// CreateBlog validates and stores a new blog for req.Author.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*store.Blog, error) {
	tags := normalizeTags(req.Tags)

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateTags(v, tags)
	validateID(v, req.Author.ID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &store.Blog{
		Title:     req.Title,
		Content:   sanitizeMarkdown(req.Content),
		Author:    req.Author,
		Tags:      tags,
		Image:     req.Image,
		Published: req.Published,
	}
	if blog.Published == nil {
		blog.Published = store.Bool(true)
	}

	if err := s.s.Insert(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// GetBlog returns a blog by id. Unpublished blogs are only visible to their
// author. Every successful read publishes a view event.
func (s *BlogService) GetBlog(ctx context.Context, id, viewerID string) (*store.Blog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !blog.IsPublished() && blog.Author.ID != viewerID {
		return nil, store.ErrRecordNotFound
	}

	s.publishView(ctx, blog.ID)

	return blog, nil
}

func (s *BlogService) publishView(ctx context.Context, id string) {
	if s.mb == nil {
		return
	}

	data, err := json.Marshal(ViewedEvent{BlogID: id})
	if err != nil {
		s.logger.Error("could not marshal view event", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.mb.Publish(ctx, data, common.BlogViewedKey, common.BlogExchange); err != nil {
		s.logger.Error("could not publish view event", slog.String("blog_id", id), slog.String("error", err.Error()))
	}
}

// UpdateBlog applies the non-nil fields of req. Only the author may update a blog.
func (s *BlogService) UpdateBlog(ctx context.Context, req *UpdateBlogRequest) (*store.Blog, error) {
	v := common.NewValidator()
	validateID(v, req.ID, "id")
	validateID(v, req.AuthorID, "author_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if blog.Author.ID != req.AuthorID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Tags != nil {
		blog.Tags = normalizeTags(req.Tags)
	}
	if req.Image != nil {
		blog.Image = *req.Image
	}
	if req.Published != nil {
		blog.Published = req.Published
	}

	validateTitle(v, blog.Title)
	validateContent(v, blog.Content)
	validateTags(v, blog.Tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog.Content = sanitizeMarkdown(blog.Content)

	if err := s.s.Update(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes a blog. Only the author may delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, id, authorID string) error {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateID(v, authorID, "author_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	blog, err := s.s.Get(ctx, id)
	if err != nil {
		return err
	}

	if blog.Author.ID != authorID {
		return ErrNotOwner
	}

	return s.s.Delete(ctx, id)
}

// ToggleLike likes the blog for userID, or takes the like back.
func (s *BlogService) ToggleLike(ctx context.Context, id, userID string) (*store.Blog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	validateID(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !blog.IsPublished() && blog.Author.ID != userID {
		return nil, store.ErrRecordNotFound
	}

	return s.s.ToggleLike(ctx, id, userID)
}

// Featured returns up to limit featured blogs, newest first. Failures are
// logged and yield no blogs.
func (s *BlogService) Featured(ctx context.Context, limit int) []store.Blog {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}

	q := store.Query{}.
		Where(store.FieldPublished, true).
		Where(store.FieldFeatured, true)
	q.OrderBy = []store.Order{{Field: store.FieldCreatedAt, Direction: store.Desc}}
	q.Limit = limit

	blogs, err := s.s.Find(ctx, q)
	if err != nil {
		s.logger.Error("could not fetch featured blogs", slog.String("error", err.Error()))
		return []store.Blog{}
	}

	return blogs
}

// Related returns up to limit published blogs sharing a tag with tags,
// newest first, leaving out blogID itself.
func (s *BlogService) Related(ctx context.Context, blogID string, tags []string, limit int) []store.Blog {
	if limit < 1 {
		limit = DefaultRelatedLimit
	}

	tags = normalizeTags(tags)
	if len(tags) == 0 {
		return []store.Blog{}
	}
	if len(tags) > store.MaxAnyValues {
		tags = tags[:store.MaxAnyValues]
	}

	q := store.Query{}.
		Where(store.FieldPublished, true).
		WhereAny(store.FieldTags, tags)
	q.OrderBy = []store.Order{{Field: store.FieldCreatedAt, Direction: store.Desc}}
	q.Limit = limit + 1

	blogs, err := s.s.Find(ctx, q)
	if err != nil {
		s.logger.Error("could not fetch related blogs", slog.String("blog_id", blogID), slog.String("error", err.Error()))
		return []store.Blog{}
	}

	related := make([]store.Blog, 0, limit)
	for _, b := range blogs {
		if b.ID == blogID {
			continue
		}
		if len(related) == limit {
			break
		}
		related = append(related, b)
	}

	return related
}

// RelatedTo looks up blogID and returns the blogs related to it.
func (s *BlogService) RelatedTo(ctx context.Context, blogID, viewerID string, limit int) ([]store.Blog, error) {
	blog, err := s.s.Get(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if !blog.IsPublished() && blog.Author.ID != viewerID {
		return nil, store.ErrRecordNotFound
	}

	return s.Related(ctx, blog.ID, blog.Tags, limit), nil
}

// ListByAuthor pages through the blogs of authorID. Drafts are included only
// when the viewer is the author.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID, viewerID string, page, pageSize int) (common.PageResult[store.Blog], error) {
	v := common.NewValidator()
	validateID(v, authorID, "author_id")
	if !v.Valid() {
		return common.PageResult[store.Blog]{}, v.ValidationError()
	}

	f := Filters{AuthorID: authorID}
	if viewerID != authorID {
		f.Published = store.Bool(true)
	}

	return s.FetchPage(ctx, f, page, pageSize)
}
