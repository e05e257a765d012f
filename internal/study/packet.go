// Package study builds study packets: a short summary, a three-question
// quiz, a study tip and, for math requests, a worked question. Packets come
// from an AI provider when one is reachable and from deterministic,
// text-derived fallbacks otherwise.
package study

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the flavor of packet the caller wants. ModeFramework is
// only ever recorded, never requested.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeMath      Mode = "math"
	ModeFramework Mode = "framework"
)

// Source names the producer of a packet.
type Source string

const (
	SourceAI        Source = "ai"
	SourceWikipedia Source = "wikipedia"
	SourceFramework Source = "framework"
	SourceBasic     Source = "basic"
)

var (
	// ErrEmptyQuery is returned for a blank topic before any network call.
	ErrEmptyQuery = errors.New("topic parameter is required")

	// ErrInvalidMode is returned for a mode other than normal or math.
	ErrInvalidMode = errors.New("mode must be \"normal\" or \"math\"")
)

// ParseMode maps a request value to a Mode. Empty means ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeMath:
		return ModeMath, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
	}
}

// Packet is the response body for one study request. It is not modified
// after construction.
type Packet struct {
	Topic        string        `json:"topic"`
	WikipediaURL string        `json:"wikipediaUrl,omitempty"`
	Summary      []string      `json:"summary"`
	Quiz         []QuizItem    `json:"quiz"`
	StudyTip     string        `json:"studyTip"`
	MathQuestion *MathQuestion `json:"mathQuestion,omitempty"`

	Framework         *Framework `json:"framework,omitempty"`
	IsFrameworkAnswer bool       `json:"isFrameworkAnswer,omitempty"`
	IsMathSolution    bool       `json:"isMathSolution,omitempty"`
	IsBasicFallback   bool       `json:"isBasicFallback,omitempty"`
	Source            Source     `json:"source"`
}

// QuizItem is a four-option multiple choice question.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// answerLetters are the labels of the four options, in order.
const answerLetters = "ABCD"

// Valid reports whether the item has a question, exactly four options and
// a correct answer that names one of them.
func (q QuizItem) Valid() bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != len(answerLetters) {
		return false
	}
	a := strings.TrimSpace(q.CorrectAnswer)
	return len(a) == 1 && strings.Contains(answerLetters, a)
}

// AnswerIndex returns the option index of CorrectAnswer, or -1.
func (q QuizItem) AnswerIndex() int {
	a := strings.TrimSpace(q.CorrectAnswer)
	if len(a) != 1 {
		return -1
	}
	return strings.Index(answerLetters, a)
}

func validQuiz(items []QuizItem) []QuizItem {
	out := make([]QuizItem, 0, len(items))
	for _, q := range items {
		if q.Valid() {
			q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
			out = append(out, q)
		}
	}
	return out
}

// MathQuestion is a practice or solved problem with its answer.
type MathQuestion struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// Framework is the "7 W's and How" breakdown of a topic.
type Framework struct {
	What  string `json:"what"`
	Why   string `json:"why"`
	When  string `json:"when"`
	Where string `json:"where"`
	Who   string `json:"who"`
	Which string `json:"which"`
	Whom  string `json:"whom"`
	How   string `json:"how"`
}

// Data is the subset of a packet kept in history.
type Data struct {
	Summary      []string      `json:"summary"`
	Quiz         []QuizItem    `json:"quiz"`
	StudyTip     string        `json:"studyTip"`
	MathQuestion *MathQuestion `json:"mathQuestion,omitempty"`
	WikipediaURL string        `json:"wikipediaUrl,omitempty"`
}

// HistoryData extracts the fields persisted with a history entry.
func (p *Packet) HistoryData() Data {
	return Data{
		Summary:      p.Summary,
		Quiz:         p.Quiz,
		StudyTip:     p.StudyTip,
		MathQuestion: p.MathQuestion,
		WikipediaURL: p.WikipediaURL,
	}
}
