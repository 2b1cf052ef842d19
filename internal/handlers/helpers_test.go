package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/postboard/internal/db"
	"github.com/vaughan-dsouza/postboard/internal/middleware"
	"github.com/vaughan-dsouza/postboard/internal/models"
)

// countingStore records how many times the store was reached.
type countingStore struct {
	db.PostStore
	calls atomic.Int32
}

func (s *countingStore) List(ctx context.Context, title string) ([]models.Post, error) {
	s.calls.Add(1)
	return s.PostStore.List(ctx, title)
}

func (s *countingStore) Get(ctx context.Context, id string) (*models.Post, error) {
	s.calls.Add(1)
	return s.PostStore.Get(ctx, id)
}

func (s *countingStore) Insert(ctx context.Context, title, content string) (*models.Post, error) {
	s.calls.Add(1)
	return s.PostStore.Insert(ctx, title, content)
}

func (s *countingStore) Update(ctx context.Context, id, title, content string) (*models.Post, error) {
	s.calls.Add(1)
	return s.PostStore.Update(ctx, id, title, content)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.calls.Add(1)
	return s.PostStore.Delete(ctx, id)
}

var errStoreDown = errors.New("connection refused")

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) List(context.Context, string) ([]models.Post, error) { return nil, errStoreDown }
func (brokenStore) Get(context.Context, string) (*models.Post, error)  { return nil, errStoreDown }
func (brokenStore) Insert(context.Context, string, string) (*models.Post, error) {
	return nil, errStoreDown
}
func (brokenStore) Update(context.Context, string, string, string) (*models.Post, error) {
	return nil, errStoreDown
}
func (brokenStore) Delete(context.Context, string) error { return errStoreDown }
func (brokenStore) Ping(context.Context) error           { return errStoreDown }
func (brokenStore) Close(context.Context) error          { return nil }

const testSecret = "secreto123"

type testServer struct {
	store  *countingStore
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := &countingStore{PostStore: db.NewMemoryStore()}
	h := NewHandler(store)
	return &testServer{
		store:  store,
		router: h.Router(middleware.StaticValidator{Secret: testSecret}),
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) sendJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) createPost(t *testing.T, title, content string) models.Post {
	t.Helper()
	rec := s.sendJSON(t, http.MethodPost, "/post/create-json-data",
		map[string]string{"title": title, "content": content})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Post](t, rec.Body)
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}
