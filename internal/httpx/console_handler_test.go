package httpx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkyamr/order-console/internal/category"
	"github.com/rizkyamr/order-console/internal/journal"
)

type fakeCategorySource struct {
	flat []category.Category
}

func (f *fakeCategorySource) Categories(_ context.Context) ([]category.Category, error) {
	return f.flat, nil
}

type fakeJournal struct {
	entries []journal.Entry
}

func (f *fakeJournal) Recent(_ context.Context, _ int) ([]journal.Entry, error) {
	return f.entries, nil
}

func TestCategoryTreeEndpoint(t *testing.T) {
	parent := "c1"
	h := &ConsoleHandler{
		Categories: &category.Loader{Source: &fakeCategorySource{flat: []category.Category{
			{ID: "c1", Name: "Furniture", SortOrder: 1},
			{ID: "c2", ParentID: &parent, Name: "Tables", SortOrder: 1},
		}}},
		Journal: &fakeJournal{},
	}
	r := NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/categories/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var tree []*category.Node
	require.NoError(t, json.Unmarshal(body, &tree))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Tables", tree[0].Children[0].Name)
}

func TestRecentSubmissionsEndpoint(t *testing.T) {
	orderID := "ord-1"
	h := &ConsoleHandler{
		Categories: &category.Loader{Source: &fakeCategorySource{}},
		Journal: &fakeJournal{entries: []journal.Entry{{
			EventID:      "ev-1",
			SubmissionID: "sub-1",
			Status:       "succeeded",
			OrderID:      &orderID,
			OccurredAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		}}},
	}
	r := NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/submissions?limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var entries []journal.Entry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "sub-1", entries[0].SubmissionID)
}
