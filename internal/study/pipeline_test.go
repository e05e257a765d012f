package study

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/classify"
	"github.com/abhisek/studybuddy/internal/knowledge"
	"github.com/abhisek/studybuddy/internal/llm"
)

const entanglementExtract = "Quantum entanglement is the phenomenon where particles share a single quantum state. " +
	"Measurements on entangled particles are correlated regardless of distance. " +
	"Entanglement is a primary feature of quantum mechanics not present in classical mechanics."

// fakeWikipedia serves page summaries for the given titles and 404s for
// everything else. It counts requests.
type fakeWikipedia struct {
	mu    sync.Mutex
	pages map[string]string
	hits  []string
}

func (f *fakeWikipedia) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimPrefix(r.URL.Path, "/")
	f.mu.Lock()
	f.hits = append(f.hits, title)
	f.mu.Unlock()

	extract, ok := f.pages[title]
	if !ok {
		http.NotFound(w, r)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"title":   title,
		"extract": extract,
		"content_urls": map[string]any{
			"desktop": map[string]any{"page": "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")},
		},
	})
}

func (f *fakeWikipedia) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

type recorderFunc func(ctx context.Context, e Entry)

func (f recorderFunc) Record(ctx context.Context, e Entry) { f(ctx, e) }

// chanRecorder collects entries on a channel.
func chanRecorder() (Recorder, <-chan Entry) {
	ch := make(chan Entry, 8)
	return recorderFunc(func(_ context.Context, e Entry) { ch <- e }), ch
}

type testPipeline struct {
	*Pipeline
	wiki    *fakeWikipedia
	entries <-chan Entry
}

func newTestPipeline(t *testing.T, ai llm.Provider) *testPipeline {
	t.Helper()
	wiki := &fakeWikipedia{pages: map[string]string{
		"Photosynthesis":       photosynthesisExtract,
		"Quantum entanglement": entanglementExtract,
	}}
	server := httptest.NewServer(wiki)
	t.Cleanup(server.Close)

	rec, entries := chanRecorder()
	cfg := PipelineConfig{
		Fetcher:  knowledge.NewFetcher(server.URL, 5*time.Second, nil),
		Recorder: rec,
	}
	if ai != nil {
		cfg.Generator = NewGenerator(ai, 50*time.Millisecond, nil)
		cfg.Tutor = NewTutor(ai, fastRetry(), 50*time.Millisecond, nil)
	} else {
		cfg.Generator = NewGenerator(nil, 0, nil)
		cfg.Tutor = NewTutor(nil, fastRetry(), 0, nil)
	}
	return &testPipeline{Pipeline: NewPipeline(cfg), wiki: wiki, entries: entries}
}

func (tp *testPipeline) nextEntry(t *testing.T) Entry {
	t.Helper()
	select {
	case e := <-tp.entries:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no history entry recorded")
		return Entry{}
	}
}

func TestPipeline_DefinitionalUsesFramework(t *testing.T) {
	tp := newTestPipeline(t, nil)

	p, err := tp.Produce(context.Background(), Request{Query: "What is photosynthesis?", UserID: "u1"})
	require.NoError(t, err)

	assert.True(t, p.IsFrameworkAnswer)
	assert.Equal(t, "Photosynthesis", p.Topic)
	require.Len(t, p.Summary, 3)
	assert.True(t, strings.HasPrefix(p.Summary[0], "WHAT: "))
	assert.True(t, strings.HasPrefix(p.Summary[1], "WHY: "))
	assert.True(t, strings.HasPrefix(p.Summary[2], "HOW: "))

	e := tp.nextEntry(t)
	assert.Equal(t, ModeFramework, e.Mode)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, "Photosynthesis", e.Topic)
}

func TestPipeline_MathWithoutAIUsesBasicSolver(t *testing.T) {
	tp := newTestPipeline(t, nil)

	p, err := tp.Produce(context.Background(), Request{Query: "5 + 3", UserID: "u1"})
	require.NoError(t, err)

	assert.True(t, p.IsBasicFallback)
	require.NotNil(t, p.MathQuestion)
	assert.Equal(t, "8", p.MathQuestion.Answer)
	assert.Empty(t, tp.wiki.requests(), "math path never fetches")
	assert.Equal(t, ModeMath, tp.nextEntry(t).Mode)
}

func TestPipeline_MathWithAI(t *testing.T) {
	ai := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tutorJSON)})
	tp := newTestPipeline(t, ai)

	p, err := tp.Produce(context.Background(), Request{Query: "5 + 3"})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, p.Source)
	assert.True(t, p.IsMathSolution)
	assert.False(t, p.IsBasicFallback)
}

func TestPipeline_GeneralTimeoutFallsBackToSynthesizer(t *testing.T) {
	ai := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(aiPacketJSON), Delay: 5 * time.Second})
	tp := newTestPipeline(t, ai)

	start := time.Now()
	p, err := tp.Produce(context.Background(), Request{Query: "Quantum entanglement", Mode: "normal", UserID: "u2"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, SourceWikipedia, p.Source)
	assert.Equal(t, "Quantum entanglement", p.Topic)
	assert.Equal(t, "Quantum entanglement is the phenomenon where particles share a single quantum state.", p.Summary[0])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Quantum_entanglement", p.WikipediaURL)
	assert.Equal(t, ModeNormal, tp.nextEntry(t).Mode)
}

func TestPipeline_GeneralWithAI(t *testing.T) {
	ai := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(aiPacketJSON)})
	tp := newTestPipeline(t, ai)

	p, err := tp.Produce(context.Background(), Request{Query: "Quantum entanglement", Mode: "math"})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, p.Source)
	require.NotNil(t, p.MathQuestion)
	assert.Contains(t, ai.Calls[0].Messages[0].Content, entanglementExtract)
}

func TestPipeline_SynthesizerMathModeAddsPracticeQuestion(t *testing.T) {
	tp := newTestPipeline(t, nil)

	p, err := tp.Produce(context.Background(), Request{Query: "Quantum entanglement", Mode: "math", UserID: "u3"})
	require.NoError(t, err)
	assert.Equal(t, SourceWikipedia, p.Source)
	require.NotNil(t, p.MathQuestion)
	assert.Equal(t, ModeMath, tp.nextEntry(t).Mode)
}

func TestPipeline_DefinitionalFetchFailureDemotes(t *testing.T) {
	tp := newTestPipeline(t, nil)

	// "The mean of 2,3,4" has no page, so the request falls to the math route.
	p, err := tp.Produce(context.Background(), Request{Query: "What is the mean of 2,3,4?"})
	require.NoError(t, err)
	assert.True(t, p.IsBasicFallback)
	assert.Equal(t, "3", p.MathQuestion.Answer)
	assert.Equal(t, []string{"The mean of 2,3,4"}, tp.wiki.requests())
}

func TestPipeline_DefinitionalDemotesToGeneral(t *testing.T) {
	tp := newTestPipeline(t, nil)

	_, err := tp.Produce(context.Background(), Request{Query: "Who is Nobody Atall?"})
	var nf *knowledge.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "Who is Nobody Atall?", nf.Topic)
	assert.Equal(t, []string{"Nobody Atall", "Who is Nobody Atall?"}, tp.wiki.requests())
}

func TestPipeline_NotFoundSurfaces(t *testing.T) {
	tp := newTestPipeline(t, nil)

	_, err := tp.Produce(context.Background(), Request{Query: "Xyzzyplugh", UserID: "u1"})
	var nf *knowledge.NotFoundError
	assert.True(t, errors.As(err, &nf), "got %v", err)

	select {
	case e := <-tp.entries:
		t.Fatalf("failed request recorded history: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPipeline_EmptyQuery(t *testing.T) {
	tp := newTestPipeline(t, nil)

	for _, q := range []string{"", "   "} {
		_, err := tp.Produce(context.Background(), Request{Query: q})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Empty(t, tp.wiki.requests())
}

func TestPipeline_InvalidMode(t *testing.T) {
	tp := newTestPipeline(t, nil)

	_, err := tp.Produce(context.Background(), Request{Query: "Photosynthesis", Mode: "trivia"})
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Empty(t, tp.wiki.requests())
}

func TestPipeline_AnonymousNotRecorded(t *testing.T) {
	tp := newTestPipeline(t, nil)

	_, err := tp.Produce(context.Background(), Request{Query: "Photosynthesis"})
	require.NoError(t, err)

	select {
	case e := <-tp.entries:
		t.Fatalf("anonymous request recorded history: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPipeline_PlanFollowsClassification(t *testing.T) {
	p := NewPipeline(PipelineConfig{})

	tests := []struct {
		query string
		want  []string
	}{
		{"What is photosynthesis?", []string{"framework", "general"}},
		{"What is the mean of 2,3,4?", []string{"framework", "math", "general"}},
		{"5 + 3", []string{"math", "general"}},
		{"Quantum entanglement", []string{"general"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var names []string
			for _, r := range p.plan(classify.Classify(tt.query)) {
				names = append(names, r.name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
