package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/knowledge"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
)

const photosynthesisExtract = "Photosynthesis is a system of biological processes by which organisms convert light energy into chemical energy. " +
	"It supplies most of the energy necessary for life on Earth. " +
	"Light reactions take place in the thylakoid membranes of chloroplasts."

// newWiredServer assembles the real pipeline, history service and store
// behind the router, with Wikipedia served from httptest.
func newWiredServer(t *testing.T) http.Handler {
	t.Helper()

	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/") != "Photosynthesis" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"title":   "Photosynthesis",
			"extract": photosynthesisExtract,
			"content_urls": map[string]any{
				"desktop": map[string]any{"page": "https://en.wikipedia.org/wiki/Photosynthesis"},
			},
		})
	}))
	t.Cleanup(wiki.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "studybuddy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	hist := history.NewService(st.HistoryRepo(), history.Options{}, nil)
	t.Cleanup(hist.Close)

	pipeline := study.NewPipeline(study.PipelineConfig{
		Fetcher:  knowledge.NewFetcher(wiki.URL, 5*time.Second, nil),
		Recorder: hist,
	})
	return New(Options{Pipeline: pipeline, History: hist, JWTSecret: testSecret}).Handler()
}

func TestWired_StudyIsRecordedAndCleared(t *testing.T) {
	h := newWiredServer(t)
	token := userToken(t, "user-1")

	rec := do(t, h, http.MethodGet, "/study?topic=What+is+photosynthesis%3F", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pkt study.Packet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkt))
	assert.True(t, pkt.IsFrameworkAnswer)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Photosynthesis", pkt.WikipediaURL)

	var listed struct {
		History []history.Item `json:"history"`
	}
	require.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/study/history", token)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
			return false
		}
		return len(listed.History) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Photosynthesis", listed.History[0].Topic)
	assert.Equal(t, "framework", listed.History[0].Mode)

	rec = do(t, h, http.MethodDelete, "/study/history", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["deleted"])

	rec = do(t, h, http.MethodGet, "/study/history", token)
	assert.JSONEq(t, `{"history":[]}`, rec.Body.String())
}

func TestWired_MathAnsweredOffline(t *testing.T) {
	rec := do(t, newWiredServer(t), http.MethodGet, "/study?topic=5+%2B+3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pkt study.Packet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkt))
	require.NotNil(t, pkt.MathQuestion)
	assert.Equal(t, "8", pkt.MathQuestion.Answer)
	assert.True(t, pkt.IsBasicFallback)
}

func TestWired_UnknownTopicIs404(t *testing.T) {
	rec := do(t, newWiredServer(t), http.MethodGet, "/study?topic=Xyzzy+plugh", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `Topic "Xyzzy plugh" not found on Wikipedia`, decode(t, rec)["message"])
}
