package commentservice

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

// NewCommentService builds the comment service. blogs is consulted so that
// comments on drafts stay as hidden as the drafts themselves.
func NewCommentService(blogs store.Store, comments store.CommentStore, logger *slog.Logger) *CommentService {
	return &CommentService{blogs: blogs, comments: comments, logger: logger}
}

// AddComment stores a comment by req.Author on a blog the author can see.
func (s *CommentService) AddComment(ctx context.Context, req *AddCommentRequest) (*store.Comment, error) {
	content := strings.TrimSpace(req.Content)

	v := common.NewValidator()
	validateID(v, req.BlogID, "blog_id")
	validateID(v, req.Author.ID, "author_id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.visible(ctx, req.BlogID, req.Author.ID); err != nil {
		return nil, err
	}

	comment := &store.Comment{
		BlogID:  req.BlogID,
		Author:  req.Author,
		Content: content,
	}

	if err := s.comments.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added", slog.String("blog_id", comment.BlogID), slog.String("comment_id", comment.ID))

	return comment, nil
}

// ListComments returns up to limit comments of a blog, newest first. A
// limit below one means DefaultListLimit; it never exceeds MaxListLimit.
func (s *CommentService) ListComments(ctx context.Context, blogID, viewerID string, limit int) ([]store.Comment, error) {
	v := common.NewValidator()
	validateID(v, blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if limit < 1 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	if err := s.visible(ctx, blogID, viewerID); err != nil {
		return nil, err
	}

	return s.comments.ListComments(ctx, blogID, limit)
}

// DeleteComment removes a comment from a blog. Only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, blogID, commentID, userID string) error {
	v := common.NewValidator()
	validateID(v, blogID, "blog_id")
	validateID(v, commentID, "comment_id")
	validateID(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.BlogID != blogID {
		return store.ErrRecordNotFound
	}

	if comment.Author.ID != userID {
		return ErrNotOwner
	}

	return s.comments.DeleteComment(ctx, commentID)
}

// visible fails with ErrRecordNotFound unless the blog is published or
// viewerID wrote it.
func (s *CommentService) visible(ctx context.Context, blogID, viewerID string) error {
	blog, err := s.blogs.Get(ctx, blogID)
	if err != nil {
		return err
	}

	if !blog.IsPublished() && blog.Author.ID != viewerID {
		return store.ErrRecordNotFound
	}

	return nil
}
