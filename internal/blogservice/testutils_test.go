package blogservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/store"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// countingStore records every Find and can be told to fail them.
type countingStore struct {
	store.Store
	mu      sync.Mutex
	queries []store.Query
	err     error
}

func (s *countingStore) Find(ctx context.Context, q store.Query) ([]store.Blog, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	err := s.err
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return s.Store.Find(ctx, q)
}

func (s *countingStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = nil
}

type MockMessageProducer struct {
	mock.Mock
}

func (m *MockMessageProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(msg, key, exchange)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedBlogs inserts n blogs created one minute apart. Every seventh blog,
// starting with the fourth, is a draft; authors alternate between u1 and u2.
func seedBlogs(t *testing.T, s store.Store, n int) []store.Blog {
	t.Helper()

	blogs := make([]store.Blog, 0, n)
	for i := 0; i < n; i++ {
		b := store.Blog{
			ID:        fmt.Sprintf("b%02d", i),
			Title:     fmt.Sprintf("Post number %d", i),
			Content:   "content",
			Author:    store.Author{ID: "u1", Name: "Ada"},
			Tags:      []string{"go"},
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 1 {
			b.Author = store.Author{ID: "u2", Name: "Linus"}
			b.Tags = []string{"rust", "systems"}
		}
		if i%7 == 3 {
			b.Published = store.Bool(false)
		}
		require.NoError(t, s.Insert(context.Background(), &b))
		blogs = append(blogs, b)
	}

	return blogs
}

// newestPublished returns the ids of the published blogs, newest first.
func newestPublished(blogs []store.Blog) []string {
	var ids []string
	for i := len(blogs) - 1; i >= 0; i-- {
		if blogs[i].IsPublished() {
			ids = append(ids, blogs[i].ID)
		}
	}
	return ids
}

func ids(blogs []store.Blog) []string {
	out := make([]string, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, b.ID)
	}
	return out
}

func setupTestEnvironment(t *testing.T, n int) (*BlogService, *countingStore, []store.Blog) {
	t.Helper()

	cs := &countingStore{Store: store.NewMemoryStore()}
	blogs := seedBlogs(t, cs, n)
	cache := common.NewCache(common.NoExpiration)
	t.Cleanup(cache.Flush)

	return NewBlogService(cs, cache, nil, testLogger(), DefaultPageSize), cs, blogs
}
