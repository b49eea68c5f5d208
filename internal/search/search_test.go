package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func newFakeES(t *testing.T, respond func(r *http.Request) (int, string)) (*Elastic, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		status, payload := respond(r)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)
	return NewElastic(client, "books"), &seen
}

func TestElastic_IndexActiveBook(t *testing.T) {
	e, seen := newFakeES(t, func(*http.Request) (int, string) { return 201, `{"result":"created"}` })

	b := &models.Book{ID: 7, Title: "Laut Bercerita", Author: "Leila S. Chudori", Status: models.BookActive,
		Category: &models.Category{Name: "Novel"}}
	require.NoError(t, e.Index(context.Background(), b))

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/books/_doc/7", req.Path)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Laut Bercerita", doc.Title)
	assert.Equal(t, "Novel", doc.Category)
}

func TestElastic_IndexRetiredBookDeletes(t *testing.T) {
	e, seen := newFakeES(t, func(*http.Request) (int, string) { return 404, `{"result":"not_found"}` })

	require.NoError(t, e.Index(context.Background(), &models.Book{ID: 3, Status: models.BookRetired}))
	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodDelete, (*seen)[0].Method)
	assert.Equal(t, "/books/_doc/3", (*seen)[0].Path)
}

func TestElastic_SearchReturnsIDsInOrder(t *testing.T) {
	e, seen := newFakeES(t, func(*http.Request) (int, string) {
		return 200, `{"hits":{"total":{"value":2},"hits":[{"_id":"9"},{"_id":"4"}]}}`
	})

	total, ids, err := e.Search(context.Background(), "pramoedya", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{9, 4}, ids)

	req := (*seen)[0]
	assert.Equal(t, "/books/_search", req.Path)
	assert.Contains(t, req.Body, `"title^3"`)
	assert.Contains(t, req.Body, `"fuzziness":"AUTO"`)
}

func TestElastic_SearchErrorStatus(t *testing.T) {
	e, _ := newFakeES(t, func(*http.Request) (int, string) { return 500, `{"error":"boom"}` })

	_, _, err := e.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestElastic_ReindexBulk(t *testing.T) {
	e, seen := newFakeES(t, func(*http.Request) (int, string) { return 200, `{"errors":false,"items":[]}` })

	books := []models.Book{
		{ID: 1, Title: "A", Status: models.BookActive},
		{ID: 2, Title: "B", Status: models.BookActive},
	}
	require.NoError(t, e.Reindex(context.Background(), books))

	req := (*seen)[0]
	assert.Equal(t, "/books/_bulk", req.Path)
	lines := strings.Split(strings.TrimSpace(req.Body), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"1"`)
}

func TestNop(t *testing.T) {
	var idx Indexer = Nop{}
	assert.False(t, idx.Enabled())
	total, ids, err := idx.Search(context.Background(), "x", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, ids)
}
