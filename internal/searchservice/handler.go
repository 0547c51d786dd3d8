package searchservice

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

// NewSearchService builds the search engine. Ranked results live in c for
// c.TTL().
func NewSearchService(s store.Store, c *common.Cache, logger *slog.Logger, pageSize int) *SearchService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return &SearchService{s: s, c: c, logger: logger, pageSize: pageSize}
}

// Search ranks published blogs against query and returns page number page.
// Queries shorter than two characters and store failures give an empty
// result. Pagination is exact since the whole ranked list is known.
func (s *SearchService) Search(ctx context.Context, query string, page, pageSize int) common.PageResult[Hit] {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return common.EmptyPage[Hit]()
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.pageSize
	}

	query = strings.ToLower(query)
	key := common.CacheKeySearch(query)

	if cached, ok := s.c.Get(key); ok {
		return slicePage(cached.([]Hit), page, pageSize)
	}

	hits, err := s.rank(ctx, query)
	if err != nil {
		s.logger.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		return common.EmptyPage[Hit]()
	}

	s.c.Set(key, hits)
	s.c.DeleteExpired()

	return slicePage(hits, page, pageSize)
}

// slicePage cuts a page out of a cached ranking. The hits are copied so
// callers cannot reach the cached records.
func slicePage(hits []Hit, page, pageSize int) common.PageResult[Hit] {
	res := common.SlicePage(hits, page, pageSize)
	for i := range res.Data {
		res.Data[i].Blog = res.Data[i].Blog.Clone()
	}
	return res
}

func (s *SearchService) rank(ctx context.Context, query string) ([]Hit, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	terms := searchTerms(query)

	hits := make([]Hit, 0, len(candidates))
	for _, b := range candidates {
		if score := scoreBlog(b, terms); score > 0 {
			hits = append(hits, Hit{Blog: b, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	return hits, nil
}

// candidates returns the title sample followed by the recency sample, if
// one was needed, without repeats.
func (s *SearchService) candidates(ctx context.Context) ([]store.Blog, error) {
	q := store.Query{}.Where(store.FieldPublished, true)

	byTitle := q
	byTitle.OrderBy = []store.Order{{Field: store.FieldTitle, Direction: store.Asc}}
	byTitle.Limit = TitleSampleSize

	blogs, err := s.s.Find(ctx, byTitle)
	if err != nil {
		return nil, err
	}

	if len(blogs) < MinTitleSample {
		recent := q
		recent.OrderBy = []store.Order{{Field: store.FieldCreatedAt, Direction: store.Desc}}
		recent.Limit = RecentSampleSize

		more, err := s.s.Find(ctx, recent)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, more...)
	}

	seen := make(map[string]bool, len(blogs))
	unique := blogs[:0]
	for _, b := range blogs {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		unique = append(unique, b)
	}

	return unique, nil
}

// searchTerms splits a normalized query into terms, dropping single characters.
func searchTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(query) {
		if utf8.RuneCountInString(t) > 1 {
			terms = append(terms, t)
		}
	}
	return terms
}

// scoreBlog adds a field's weight once for every term the field contains.
func scoreBlog(b store.Blog, terms []string) int {
	title := strings.ToLower(b.Title)
	author := strings.ToLower(b.Author.Name)
	content := strings.ToLower(b.Content)

	tags := make([]string, 0, len(b.Tags))
	for _, t := range b.Tags {
		tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
	}
	tagText := strings.Join(tags, " ")

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if strings.Contains(author, term) {
			score += authorWeight
		}
		if strings.Contains(tagText, term) {
			score += tagWeight
		}
		if strings.Contains(content, term) {
			score += contentWeight
		}
	}

	return score
}
