package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory. It applies the same query
// rules as PostgresStore and backs tests and the STORE=memory mode.
type MemoryStore struct {
	mu       sync.RWMutex
	blogs    map[string]Blog
	comments map[string]Comment
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blogs:    make(map[string]Blog),
		comments: make(map[string]Comment),
		now:      time.Now,
	}
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]Blog, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	o := q.order()

	var blogs []Blog
	for _, b := range s.blogs {
		if !q.matches(b) {
			continue
		}
		if q.StartAfter != nil && compareCursors(o, CursorAfter(b), q.StartAfter) <= 0 {
			continue
		}
		blogs = append(blogs, b.Clone())
	}

	sort.Slice(blogs, func(i, j int) bool {
		return compareCursors(o, CursorAfter(blogs[i]), CursorAfter(blogs[j])) < 0
	})

	if q.Limit > 0 && len(blogs) > q.Limit {
		blogs = blogs[:q.Limit]
	}

	return blogs, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	b = b.Clone()
	return &b, nil
}

// Insert stores b, assigning an id, creation time and version when unset.
func (s *MemoryStore) Insert(ctx context.Context, b *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}

	s.blogs[b.ID] = b.Clone()
	return nil
}

// Update overwrites the editable fields of b when its version is current.
func (s *MemoryStore) Update(ctx context.Context, b *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.blogs[b.ID]
	if !ok || cur.Version != b.Version {
		return ErrRecordNotFound
	}

	now := s.now().UTC()
	cur.Title = b.Title
	cur.Content = b.Content
	cur.Tags = append([]string{}, b.Tags...)
	cur.Image = b.Image
	cur.Published = b.Published
	cur.Featured = b.Featured
	cur.UpdatedAt = &now
	cur.Version++

	s.blogs[b.ID] = cur
	*b = cur.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[id]; !ok {
		return ErrRecordNotFound
	}

	delete(s.blogs, id)
	for cid, c := range s.comments {
		if c.BlogID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, id string, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok {
		return ErrRecordNotFound
	}

	b.ViewCount += n
	s.blogs[id] = b
	return nil
}

// ToggleLike adds userID to the like-voter set, or removes it when present.
func (s *MemoryStore) ToggleLike(ctx context.Context, id, userID string) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	likes := make([]string, 0, len(b.Likes)+1)
	removed := false
	for _, l := range b.Likes {
		if l == userID {
			removed = true
			continue
		}
		likes = append(likes, l)
	}

	if removed {
		b.LikeCount--
	} else {
		likes = append(likes, userID)
		b.LikeCount++
	}
	b.Likes = likes

	s.blogs[id] = b
	b = b.Clone()
	return &b, nil
}

// InsertComment stores c under an existing blog, assigning an id and
// creation time when unset.
func (s *MemoryStore) InsertComment(ctx context.Context, c *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[c.BlogID]; !ok {
		return ErrRecordNotFound
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}

	s.comments[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	return &c, nil
}

func (s *MemoryStore) ListComments(ctx context.Context, blogID string, limit int) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []Comment{}
	for _, c := range s.comments {
		if c.BlogID == blogID {
			comments = append(comments, c)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})

	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}

	return comments, nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return ErrRecordNotFound
	}

	delete(s.comments, id)
	return nil
}
