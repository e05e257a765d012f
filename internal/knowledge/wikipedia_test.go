package knowledge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photosynthesisSummary = `{
  "title": "Photosynthesis",
  "extract": "Photosynthesis is a process used by plants to convert light energy into chemical energy.",
  "content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Photosynthesis"}}
}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewFetcher(server.URL+"/page/summary", 5*time.Second, nil)
}

func TestFetch_Summary(t *testing.T) {
	var gotPath, gotAgent string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(photosynthesisSummary))
	})

	s, err := f.Fetch(context.Background(), "Photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", s.Title)
	assert.Contains(t, s.Extract, "light energy")
	assert.Equal(t, "https://en.wikipedia.org/wiki/Photosynthesis", s.URL)
	assert.Equal(t, "/page/summary/Photosynthesis", gotPath)
	assert.NotEmpty(t, gotAgent)
}

func TestFetch_EscapesTopic(t *testing.T) {
	var gotPath string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"title":"AC/DC","extract":""}`))
	})

	s, err := f.Fetch(context.Background(), "AC/DC rock band")
	require.NoError(t, err)
	assert.Equal(t, "/page/summary/AC%2FDC%20rock%20band", gotPath)
	assert.Empty(t, s.URL)
}

func TestFetch_NotFound(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := f.Fetch(context.Background(), "Xyzzyplugh")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "Xyzzyplugh", nf.Topic)
	assert.Equal(t, `Topic "Xyzzyplugh" not found on Wikipedia`, err.Error())
}

func TestFetch_UpstreamError(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := f.Fetch(context.Background(), "Gravity")
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue), "got %v", err)
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
	assert.Equal(t, "Wikipedia API error: 502", err.Error())
}

func TestFetch_MalformedBody(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	_, err := f.Fetch(context.Background(), "Gravity")
	require.Error(t, err)
	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestFetch_OneRequestPerCall(t *testing.T) {
	calls := 0
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := f.Fetch(context.Background(), "Gravity")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
