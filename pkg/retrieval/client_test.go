package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchDecodesHitList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "iClamp range", body["query"])
		w.Write([]byte(`[{"text":"iClamp(low, high)","score":0.91},{"text":"pmux modules","score":0.4}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	defer c.Close()

	docs, err := c.Search(context.Background(), "iClamp range")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "iClamp(low, high)", docs[0].Text)
	assert.InDelta(t, 0.91, docs[0].Score, 1e-9)
}

func TestSearchAcceptsWrappedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"text":"doc","score":0.5}]}`))
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL).Search(context.Background(), "q")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc", docs[0].Text)
}

func TestSearchEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL).Search(context.Background(), "q")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearchToleratesMissingAndStringScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"text":"no score"},{"text":"string score","score":"0.75"},{"text":"junk score","score":"n/a"}]`))
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL).Search(context.Background(), "q")

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, 0.0, docs[0].Score)
	assert.InDelta(t, 0.75, docs[1].Score, 1e-9)
	assert.Equal(t, 0.0, docs[2].Score)
}

func TestSearchNonListPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"unexpected"`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), "q")

	assert.Error(t, err)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearchUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/search")
	defer c.Close()

	_, err := c.Search(context.Background(), "q")

	assert.Error(t, err)
}
