package study

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_SummaryFromSentences(t *testing.T) {
	s := NewSynthesizer()
	p := s.Synthesize("Photosynthesis", "https://en.wikipedia.org/wiki/Photosynthesis", photosynthesisExtract, ModeNormal)

	require.Len(t, p.Summary, 3)
	for _, line := range p.Summary {
		assert.True(t, strings.HasSuffix(line, "."), line)
	}
	assert.Equal(t, "It Supplies most of the energy necessary for life on Earth.", p.Summary[1])
	assert.Nil(t, p.MathQuestion)
	assert.Equal(t, SourceWikipedia, p.Source)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Photosynthesis", p.WikipediaURL)

	require.Len(t, p.Quiz, 3)
	for _, q := range p.Quiz {
		assert.True(t, q.Valid(), q.Question)
		assert.Equal(t, "A", q.CorrectAnswer)
	}
	assert.Contains(t, p.StudyTip, "Photosynthesis")
}

func TestSynthesize_FewSentencesNoPadding(t *testing.T) {
	p := NewSynthesizer().Synthesize("Gravity", "", "Gravity is the attraction between masses. Tiny.", ModeNormal)
	assert.Equal(t, []string{"Gravity is the attraction between masses."}, p.Summary)
	assert.Equal(t, "A) "+defaultKeyword, p.Quiz[1].Options[0])
}

func TestSynthesize_Keyword(t *testing.T) {
	tests := []struct {
		sentence string
		want     string
	}{
		{"It Supplies most of the energy necessary for life on Earth", "energy"},
		{"Light reactions happen in chloroplasts", "happen"},
		{"A cat sat on a mat", defaultKeyword},
		{"", defaultKeyword},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keywordOf(tt.sentence), tt.sentence)
	}
}

func TestSynthesize_DeterministicInNormalMode(t *testing.T) {
	s := NewSynthesizer()
	a := s.Synthesize("Photosynthesis", "", photosynthesisExtract, ModeNormal)
	b := s.Synthesize("Photosynthesis", "", photosynthesisExtract, ModeNormal)
	assert.Equal(t, a, b)
}

var practiceNumbers = regexp.MustCompile(`(\d+) hours on Monday and (\d+) hours`)

func TestSynthesize_MathQuestionAnswerIsSum(t *testing.T) {
	s := NewSynthesizer()
	for i := 0; i < 50; i++ {
		p := s.Synthesize("Algebra", "", photosynthesisExtract, ModeMath)
		require.NotNil(t, p.MathQuestion)

		m := practiceNumbers.FindStringSubmatch(p.MathQuestion.Question)
		require.NotNil(t, m, p.MathQuestion.Question)
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		assert.True(t, a >= 1 && a <= 10 && b >= 1 && b <= 10, "%d %d", a, b)
		assert.Equal(t, strconv.Itoa(a+b), p.MathQuestion.Answer)
		assert.Contains(t, p.MathQuestion.Explanation, fmt.Sprintf("%d + %d = %d", a, b, a+b))
	}
}

func TestSynthesize_InjectedRandomness(t *testing.T) {
	s := &Synthesizer{IntN: func(n int) int { return n - 1 }}
	p, err := s.Produce(context.Background(), Input{Topic: "Algebra", Extract: photosynthesisExtract, Mode: ModeMath})
	require.NoError(t, err)
	assert.Equal(t, "20", p.MathQuestion.Answer)
}
