package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogdeck/internal/store"
)

// seedListing stores eight published blogs, newest last, and one draft.
func seedListing(t *testing.T, s store.Store) []store.Blog {
	t.Helper()

	var blogs []store.Blog
	for i := 0; i < 8; i++ {
		tags := []string{"go"}
		if i%2 == 1 {
			tags = []string{"rust"}
		}
		blogs = append(blogs, seedBlog(t, s, store.Blog{
			ID:        fmt.Sprintf("b%d", i),
			Title:     fmt.Sprintf("Post %d", i),
			Content:   "content",
			Author:    store.Author{ID: "u1", Name: "Ada"},
			Tags:      tags,
			Featured:  i < 2,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}))
	}

	blogs = append(blogs, seedBlog(t, s, store.Blog{
		ID:        "draft",
		Title:     "Draft",
		Content:   "content",
		Author:    store.Author{ID: "u1", Name: "Ada"},
		Tags:      []string{"go"},
		Published: store.Bool(false),
		CreatedAt: baseTime.Add(time.Hour),
	}))

	return blogs
}

func TestHealthCheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/healthcheck", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, map[string]any{"environment": "testing", "version": "1.0.0", "store": "memory", "view_counts": "disabled"}, body["system_info"])
}

func TestListBlogsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name           string
		path           string
		wantStatus     int
		wantIDs        []string
		wantPagination map[string]any
	}{
		{
			name:       "first page",
			path:       "/v1/blogs?page_size=3",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"b7", "b6", "b5"},
			wantPagination: map[string]any{
				"current_page": 1.0, "total_pages": 1.0, "total_items": 3.0,
				"has_next_page": true, "has_previous_page": false, "is_estimate": true,
			},
		},
		{
			name:       "last page",
			path:       "/v1/blogs?page=3&page_size=3",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"b1", "b0"},
			wantPagination: map[string]any{
				"current_page": 3.0, "total_pages": 3.0, "total_items": 8.0,
				"has_next_page": false, "has_previous_page": true, "is_estimate": false,
			},
		},
		{
			name:       "tag filter",
			path:       "/v1/blogs?tag=Rust&page_size=10",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"b7", "b5", "b3", "b1"},
		},
		{
			name:       "author filter hides drafts",
			path:       "/v1/blogs?author=u1&page_size=2",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"b7", "b6"},
		},
		{
			name:       "invalid page",
			path:       "/v1/blogs?page=zero",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "page size too large",
			path:       "/v1/blogs?page_size=1000",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "page beyond the limit",
			path:       "/v1/blogs?page=4611686018427387905&page_size=4",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "largest page",
			path:       "/v1/blogs?page=10000&page_size=3",
			wantStatus: http.StatusOK,
			wantIDs:    []string{},
		},
		{
			name:       "too many tags",
			path:       "/v1/blogs?tag=a,b,c,d,e,f,g,h,i,j,k",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, body := ts.get(t, tc.path, "")

			require.Equal(t, tc.wantStatus, code)
			if tc.wantStatus != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}

			assert.Equal(t, tc.wantIDs, blogIDs(t, body["blogs"]))
			if tc.wantPagination != nil {
				assert.Equal(t, tc.wantPagination, body["pagination"])
			}
		})
	}
}

func TestSearchBlogsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedBlog(t, s, store.Blog{ID: "title", Title: "Learning Golang", Content: "notes", CreatedAt: baseTime})
	seedBlog(t, s, store.Blog{ID: "content", Title: "Weekend", Content: "some golang", CreatedAt: baseTime.Add(time.Minute)})
	seedBlog(t, s, store.Blog{ID: "other", Title: "Rust", Content: "borrowing", CreatedAt: baseTime.Add(2 * time.Minute)})
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/search?q=GoLang", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"title", "content"}, blogIDs(t, body["blogs"]))

	first := body["blogs"].([]any)[0].(map[string]any)
	assert.Equal(t, 10.0, first["search_score"])

	code, _, body = ts.get(t, "/v1/search?q=golang&page=2305843009213693953", "")
	require.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])

	code, _, body = ts.get(t, "/v1/search?q=golang&page=10000", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["blogs"])
	assert.Equal(t, 2.0, body["pagination"].(map[string]any)["total_items"])

	code, _, body = ts.get(t, "/v1/search?q=g", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["blogs"])
	assert.Equal(t, 0.0, body["pagination"].(map[string]any)["total_pages"])
}

func TestFeaturedBlogsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/featured", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"b1", "b0"}, blogIDs(t, body["blogs"]))

	code, _, _ = ts.get(t, "/v1/featured?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListTagsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/tags", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"rust", "go"}, body["tags"])

	code, _, body = ts.get(t, "/v1/tags?current=Python", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"python", "rust", "go"}, body["tags"])
}

func TestCreateBlogHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		user       string
		payload    any
		wantStatus int
		wantError  any
	}{
		{
			name:       "valid blog",
			user:       "u1",
			payload:    map[string]any{"title": "Hello", "content": "World", "tags": []string{"Go"}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "anonymous",
			user:       "",
			payload:    map[string]any{"title": "Hello", "content": "World"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "you must be authenticated to access this resource",
		},
		{
			name:       "missing title",
			user:       "u1",
			payload:    map[string]any{"content": "World"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  map[string]any{"title": "must be provided"},
		},
		{
			name:       "unknown field",
			user:       "u1",
			payload:    map[string]any{"title": "Hello", "content": "World", "author": "someone"},
			wantStatus: http.StatusBadRequest,
			wantError:  `request body contains unknown field "author"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, headers, body := ts.post(t, "/v1/blogs", tc.user, tc.payload)

			require.Equal(t, tc.wantStatus, code)
			if tc.wantError != nil {
				assert.Equal(t, tc.wantError, body["error"])
				return
			}

			blog := body["blog"].(map[string]any)
			assert.Equal(t, "/v1/blogs/"+blog["id"].(string), headers.Get("Location"))
			assert.Equal(t, map[string]any{"id": "u1", "name": "User u1"}, blog["author"])
			assert.Equal(t, []any{"go"}, blog["tags"])
		})
	}
}

func TestBlogLifecycle(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/blogs/b3", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Post 3", body["blog"].(map[string]any)["title"])

	code, _, _ = ts.get(t, "/v1/blogs/missing", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.get(t, "/v1/blogs/draft", "u2")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, _ = ts.get(t, "/v1/blogs/draft", "u1")
	assert.Equal(t, http.StatusOK, code)

	code, _, body = ts.put(t, "/v1/blogs/b3", "u2", map[string]any{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "you do not have permission to modify this blog", body["error"])

	code, _, body = ts.put(t, "/v1/blogs/b3", "u1", map[string]any{"title": "Renamed", "tags": []string{"Go", "DB"}})
	require.Equal(t, http.StatusOK, code)
	updated := body["blog"].(map[string]any)
	assert.Equal(t, "Renamed", updated["title"])
	assert.Equal(t, []any{"go", "db"}, updated["tags"])
	assert.Equal(t, 2.0, updated["version"])

	code, _, _ = ts.delete(t, "/v1/blogs/b3", "u2")
	assert.Equal(t, http.StatusForbidden, code)

	code, _, body = ts.delete(t, "/v1/blogs/b3", "u1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "blog successfully deleted", body["message"])

	code, _, _ = ts.get(t, "/v1/blogs/b3", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLikeBlogHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.post(t, "/v1/blogs/b0/like", "reader", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["blog"].(map[string]any)["like_count"])

	code, _, body = ts.post(t, "/v1/blogs/b0/like", "reader", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["blog"].(map[string]any)["like_count"])

	code, _, _ = ts.post(t, "/v1/blogs/b0/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _, _ = ts.post(t, "/v1/blogs/missing/like", "reader", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRelatedBlogsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/blogs/b6/related", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"b4", "b2", "b0"}, blogIDs(t, body["blogs"]))

	code, _, body = ts.get(t, "/v1/blogs/b6/related?limit=1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"b4"}, blogIDs(t, body["blogs"]))

	code, _, _ = ts.get(t, "/v1/blogs/missing/related", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListUserBlogsHandler(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/users/u1/blogs?page_size=20", "u1")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["blogs"], 9)
	assert.Equal(t, "draft", blogIDs(t, body["blogs"])[0])

	code, _, body = ts.get(t, "/v1/users/u1/blogs?page_size=20", "u2")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["blogs"], 8)
	assert.NotContains(t, blogIDs(t, body["blogs"]), "draft")
}

func TestRateLimitedCreate(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	payload := map[string]any{"title": "Hello", "content": "World"}

	for i := 0; i < app.config.RateLimit.Requests; i++ {
		code, _, _ := ts.post(t, "/v1/blogs", "u1", payload)
		require.Equal(t, http.StatusCreated, code, "request %d", i)
	}

	code, _, body := ts.post(t, "/v1/blogs", "u1", payload)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", body["error"])

	// limits are per user and per action
	code, _, _ = ts.post(t, "/v1/blogs", "u2", payload)
	assert.Equal(t, http.StatusCreated, code)
}

func TestCommentHandlers(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	code, _, _ := ts.post(t, "/v1/blogs/b3/comments", "", map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _, body := ts.post(t, "/v1/blogs/b3/comments", "u2", map[string]any{"content": "  Great read  "})
	require.Equal(t, http.StatusCreated, code)
	comment := body["comment"].(map[string]any)
	assert.Equal(t, "Great read", comment["content"])
	assert.Equal(t, "b3", comment["blog_id"])
	assert.Equal(t, "u2", comment["author"].(map[string]any)["id"])
	commentID := comment["id"].(string)

	code, _, body = ts.post(t, "/v1/blogs/b3/comments", "u2", map[string]any{"content": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, map[string]any{"content": "must be provided"}, body["error"])

	code, _, _ = ts.post(t, "/v1/blogs/missing/comments", "u3", map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _, body = ts.get(t, "/v1/blogs/b3/comments", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{commentID}, blogIDs(t, body["comments"]))

	code, _, _ = ts.get(t, "/v1/blogs/b3/comments?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = ts.get(t, "/v1/blogs/draft/comments", "u2")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, body = ts.get(t, "/v1/blogs/draft/comments", "u1")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["comments"])

	code, _, body = ts.delete(t, "/v1/blogs/b3/comments/"+commentID, "u1")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "you do not have permission to modify this comment", body["error"])

	code, _, _ = ts.delete(t, "/v1/blogs/b2/comments/"+commentID, "u2")
	assert.Equal(t, http.StatusNotFound, code)

	code, _, body = ts.delete(t, "/v1/blogs/b3/comments/"+commentID, "u2")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "comment successfully deleted", body["message"])

	code, _, body = ts.get(t, "/v1/blogs/b3/comments", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["comments"])
}

func TestRateLimitedComments(t *testing.T) {
	app, s := newTestApplication(t)
	seedListing(t, s)
	ts := newTestServer(t, app.routes())

	payload := map[string]any{"content": "hello"}

	for i := 0; i < app.config.RateLimit.Requests; i++ {
		code, _, _ := ts.post(t, "/v1/blogs/b1/comments", "u2", payload)
		require.Equal(t, http.StatusCreated, code, "request %d", i)
	}

	code, _, body := ts.post(t, "/v1/blogs/b1/comments", "u2", payload)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", body["error"])

	// commenting does not use up the create allowance
	code, _, _ = ts.post(t, "/v1/blogs", "u2", map[string]any{"title": "Hello", "content": "World"})
	assert.Equal(t, http.StatusCreated, code)
}

func TestRouterErrors(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, _, body := ts.get(t, "/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "resource not found", body["error"])

	code, _, body = ts.do(t, http.MethodPatch, "/v1/blogs", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "method not allowed", body["error"])
}
