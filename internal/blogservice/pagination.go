package blogservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

// FetchPage returns page number page of the blogs selected by f.
//
// Page N+1 resumes from the cursor left by page N. Without one (a deep link)
// the pages before are scanned to find where the page starts. Totals are exact
// on the last page; before it they are a lower bound of page*pageSize and
// Pagination.IsEstimate is set, so they may grow as the caller pages forward.
// A page whose offset does not fit in an int is empty without touching the
// store, and its zero total is flagged as an estimate.
func (s *BlogService) FetchPage(ctx context.Context, f Filters, page, pageSize int) (common.PageResult[store.Blog], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.pageSize
	}

	if page > math.MaxInt/pageSize {
		res := pastTheEnd(page, pageSize, 0)
		res.Pagination.IsEstimate = true
		return res, nil
	}

	q, err := BuildQuery(f)
	if err != nil {
		return common.PageResult[store.Blog]{}, err
	}

	key, err := cursorKey(f, pageSize)
	if err != nil {
		return common.PageResult[store.Blog]{}, err
	}

	if page > 1 {
		if c, ok := s.c.Get(common.CacheKeyCursor(key, page-1)); ok {
			q.StartAfter = c.(*store.Cursor)
		} else {
			skip := q
			skip.Limit = (page - 1) * pageSize

			before, err := s.find(ctx, skip)
			if err != nil {
				return common.PageResult[store.Blog]{}, err
			}

			if len(before) < skip.Limit {
				return pastTheEnd(page, pageSize, len(before)), nil
			}

			q.StartAfter = store.CursorAfter(before[len(before)-1])
		}
	}

	q.Limit = pageSize
	blogs, err := s.find(ctx, q)
	if err != nil {
		return common.PageResult[store.Blog]{}, err
	}

	if len(blogs) == 0 {
		return pastTheEnd(page, pageSize, (page-1)*pageSize), nil
	}

	last := store.CursorAfter(blogs[len(blogs)-1])
	s.c.Set(common.CacheKeyCursor(key, page), last)

	p := common.Pagination{
		CurrentPage:     page,
		HasPreviousPage: page > 1,
	}

	if len(blogs) < pageSize {
		p.TotalItems = (page-1)*pageSize + len(blogs)
	} else {
		lookahead := q
		lookahead.StartAfter = last
		lookahead.Limit = 1

		next, err := s.find(ctx, lookahead)
		if err != nil {
			return common.PageResult[store.Blog]{}, err
		}

		p.TotalItems = page * pageSize
		p.HasNextPage = len(next) > 0
		p.IsEstimate = p.HasNextPage
	}
	p.TotalPages = common.TotalPages(p.TotalItems, pageSize)

	s.logger.Debug("fetched page", slog.Int("page", page), slog.Int("page_size", pageSize), slog.Int("count", len(blogs)))

	return common.PageResult[store.Blog]{Data: blogs, Pagination: p}, nil
}

// pastTheEnd is the empty page returned when fewer than total records precede it.
func pastTheEnd(page, pageSize, total int) common.PageResult[store.Blog] {
	return common.PageResult[store.Blog]{
		Data: []store.Blog{},
		Pagination: common.Pagination{
			CurrentPage:     page,
			TotalPages:      common.TotalPages(total, pageSize),
			TotalItems:      total,
			HasPreviousPage: page > 1,
		},
	}
}

// find runs q, passing query rejections through and wrapping everything else
// as ErrFetchFailed.
func (s *BlogService) find(ctx context.Context, q store.Query) ([]store.Blog, error) {
	blogs, err := s.s.Find(ctx, q)
	if err != nil {
		if errors.Is(err, store.ErrInvalidQuery) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return blogs, nil
}
