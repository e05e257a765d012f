package study

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
)

// defaultKeyword stands in when the second sentence has no long word.
const defaultKeyword = "concept"

// minKeywordLen is the exclusive lower bound on keyword length.
const minKeywordLen = 5

// Synthesizer derives a packet from extract text alone. Output is fully
// determined by its input except for the math-mode practice question.
type Synthesizer struct {
	// IntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	IntN func(n int) int
}

// NewSynthesizer returns a Synthesizer using the global random source.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{IntN: rand.IntN}
}

func (s *Synthesizer) Name() string { return string(SourceWikipedia) }

// Produce never fails.
func (s *Synthesizer) Produce(_ context.Context, in Input) (*Packet, error) {
	return s.Synthesize(in.Topic, in.URL, in.Extract, in.Mode), nil
}

// Synthesize builds a packet from the first three qualifying sentences of
// extract.
func (s *Synthesizer) Synthesize(topic, pageURL, extract string, mode Mode) *Packet {
	sentences := splitSentences(extract)

	summary := make([]string, 0, 3)
	for _, sent := range sentences[:min(3, len(sentences))] {
		summary = append(summary, sent+".")
	}

	first, ok := sentenceAt(sentences, 0)
	if !ok {
		first = fmt.Sprintf("%s is a subject covered on Wikipedia", topic)
	}
	second, _ := sentenceAt(sentences, 1)
	keyword := keywordOf(second)

	p := &Packet{
		Topic:        topic,
		WikipediaURL: pageURL,
		Summary:      summary,
		Quiz: []QuizItem{
			{
				Question: fmt.Sprintf("Which statement about %s is correct?", topic),
				Options: []string{
					"A) " + truncate(first, excerptLen) + "...",
					fmt.Sprintf("B) %s is a type of musical instrument", topic),
					fmt.Sprintf("C) %s was discovered last year", topic),
					fmt.Sprintf("D) %s has no known uses", topic),
				},
				CorrectAnswer: "A",
			},
			{
				Question: fmt.Sprintf("Which term is closely associated with %s?", topic),
				Options: []string{
					"A) " + keyword,
					"B) Unrelated term",
					"C) Random word",
					"D) None of the above",
				},
				CorrectAnswer: "A",
			},
			{
				Question: fmt.Sprintf("What is the best way to learn more about %s?", topic),
				Options: []string{
					"A) Read reliable sources and review the key points",
					"B) Ignore the basics",
					"C) Memorize without understanding",
					"D) Avoid asking questions",
				},
				CorrectAnswer: "A",
			},
		},
		StudyTip: fmt.Sprintf("Break %s into smaller ideas, summarize each one in your own words, "+
			"and revisit the summary points over the next few days.", topic),
		Source: SourceWikipedia,
	}

	if mode == ModeMath {
		p.MathQuestion = s.practiceQuestion(topic)
	}
	return p
}

// practiceQuestion is an addition word problem with two integers in [1, 10].
func (s *Synthesizer) practiceQuestion(topic string) *MathQuestion {
	intn := s.IntN
	if intn == nil {
		intn = rand.IntN
	}
	a, b := intn(10)+1, intn(10)+1
	sum := strconv.Itoa(a + b)

	return &MathQuestion{
		Question: fmt.Sprintf("If you study %s for %d hours on Monday and %d hours on Tuesday, "+
			"how many hours did you study in total?", topic, a, b),
		Answer:      sum,
		Explanation: fmt.Sprintf("Add the hours together: %d + %d = %s hours.", a, b, sum),
	}
}

// keywordOf returns the middle word (by index) among the words of sentence
// longer than minKeywordLen, or defaultKeyword.
func keywordOf(sentence string) string {
	var words []string
	for _, w := range strings.Fields(sentence) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if len(w) > minKeywordLen {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return defaultKeyword
	}
	return words[len(words)/2]
}
