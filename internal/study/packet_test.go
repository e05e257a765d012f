package study

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"", ModeNormal, false},
		{"normal", ModeNormal, false},
		{" MATH ", ModeMath, false},
		{"framework", "", true},
		{"quiz", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.err {
			assert.True(t, errors.Is(err, ErrInvalidMode), "ParseMode(%q) = %v", tt.in, err)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestQuizItemValid(t *testing.T) {
	opts := []string{"A) 1", "B) 2", "C) 3", "D) 4"}
	tests := []struct {
		name string
		item QuizItem
		want bool
		idx  int
	}{
		{"ok", QuizItem{Question: "q", Options: opts, CorrectAnswer: "C"}, true, 2},
		{"padded answer", QuizItem{Question: "q", Options: opts, CorrectAnswer: " D "}, true, 3},
		{"lowercase answer", QuizItem{Question: "q", Options: opts, CorrectAnswer: "a"}, false, -1},
		{"answer out of range", QuizItem{Question: "q", Options: opts, CorrectAnswer: "E"}, false, -1},
		{"three options", QuizItem{Question: "q", Options: opts[:3], CorrectAnswer: "A"}, false, 0},
		{"no question", QuizItem{Options: opts, CorrectAnswer: "A"}, false, 0},
		{"word answer", QuizItem{Question: "q", Options: opts, CorrectAnswer: "AB"}, false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Valid())
			assert.Equal(t, tt.idx, tt.item.AnswerIndex())
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Short one. This sentence is long enough to keep! Is this one long enough too?? Tiny.")
	assert.Equal(t, []string{"This sentence is long enough to keep", "Is this one long enough too"}, got)
	assert.Empty(t, splitSentences(""))
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo wörld", 5))
	assert.Equal(t, "abc", truncate("abc", 60))
	assert.Equal(t, 60, len([]rune(truncate(strings.Repeat("é", 100), 60))))
}
