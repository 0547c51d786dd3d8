package tagservice

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

func NewTagService(s store.Store, c *common.Cache, logger *slog.Logger) *TagService {
	return &TagService{s: s, c: c, logger: logger}
}

// GetTags returns the most used tags of recent published blogs, most used
// first. A non-empty pinned tag missing from the list is put in front of it.
// Store failures give an empty list.
func (s *TagService) GetTags(ctx context.Context, pinned string) []string {
	tags, ok := s.cachedTags()
	if !ok {
		var err error
		tags, err = s.rankTags(ctx)
		if err != nil {
			s.logger.Error("could not fetch tags", slog.String("error", err.Error()))
			return []string{}
		}
		s.c.Set(common.CacheKeyAllTags, tags)
	}

	return pin(tags, normalize(pinned))
}

func (s *TagService) cachedTags() ([]string, bool) {
	v, ok := s.c.Get(common.CacheKeyAllTags)
	if !ok {
		return nil, false
	}
	return v.([]string), true
}

func (s *TagService) rankTags(ctx context.Context) ([]string, error) {
	q := store.Query{}.Where(store.FieldPublished, true)
	q.OrderBy = []store.Order{{Field: store.FieldCreatedAt, Direction: store.Desc}}
	q.Limit = SampleSize

	blogs, err := s.s.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	var counts []tagCount
	index := make(map[string]int)

	for _, b := range blogs {
		for _, t := range b.Tags {
			t = normalize(t)
			if t == "" {
				continue
			}
			if i, ok := index[t]; ok {
				counts[i].count++
				continue
			}
			index[t] = len(counts)
			counts = append(counts, tagCount{tag: t, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if len(counts) > MaxTags {
		counts = counts[:MaxTags]
	}

	tags := make([]string, 0, len(counts))
	for _, c := range counts {
		tags = append(tags, c.tag)
	}

	return tags, nil
}

// pin returns tags with pinned in front when it is missing, keeping at most
// MaxTags. tags itself is never modified.
func pin(tags []string, pinned string) []string {
	if pinned == "" {
		return append([]string{}, tags...)
	}

	for _, t := range tags {
		if t == pinned {
			return append([]string{}, tags...)
		}
	}

	out := append([]string{pinned}, tags...)
	if len(out) > MaxTags {
		out = out[:MaxTags]
	}

	return out
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
