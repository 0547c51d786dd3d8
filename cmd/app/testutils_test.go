package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogdeck/internal/blogservice"
	"github.com/sushihentaime/blogdeck/internal/commentservice"
	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/searchservice"
	"github.com/sushihentaime/blogdeck/internal/store"
	"github.com/sushihentaime/blogdeck/internal/tagservice"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// newTestApplication wires an application over a memory store without a broker.
func newTestApplication(t *testing.T) (*application, *store.MemoryStore) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()

	cfg := &Config{Environment: "testing", Version: "1.0.0", Store: storeMemory}
	cfg.RateLimit.Requests = 3
	cfg.RateLimit.Window = time.Minute

	app := &application{
		config:         cfg,
		logger:         logger,
		blogService:    blogservice.NewBlogService(s, common.NewCache(common.NoExpiration), nil, logger, blogservice.DefaultPageSize),
		searchService:  searchservice.NewSearchService(s, common.NewCache(5*time.Minute), logger, blogservice.DefaultPageSize),
		tagService:     tagservice.NewTagService(s, common.NewCache(10*time.Minute), logger),
		commentService: commentservice.NewCommentService(s, s, logger),
		limiter:        newRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	}

	return app, s
}

func seedBlog(t *testing.T, s store.Store, b store.Blog) store.Blog {
	t.Helper()

	require.NoError(t, s.Insert(context.Background(), &b))
	return b
}

func (ts *testServer) do(t *testing.T, method, path, userID string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(headerUserID, userID)
		req.Header.Set(headerUserName, "User "+userID)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path, userID string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, userID, nil)
}

func (ts *testServer) post(t *testing.T, path, userID string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, userID, payload)
}

func (ts *testServer) put(t *testing.T, path, userID string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, userID, payload)
}

func (ts *testServer) delete(t *testing.T, path, userID string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, userID, nil)
}

// blogIDs pulls the ids out of a decoded list of blogs.
func blogIDs(t *testing.T, v any) []string {
	t.Helper()

	list, ok := v.([]any)
	require.True(t, ok, "expected a list, got %T", v)

	ids := make([]string, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}
