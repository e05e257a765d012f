package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// QuizCard renders one multiple-choice question. Options already carry
// their "A) " labels.
type QuizCard struct {
	Number       int
	Question     string
	Options      []string
	CorrectIndex int // -1 when the answer key is unusable

	// Reveal highlights the correct option and dims the rest.
	Reveal bool
}

func (q QuizCard) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", q.Number, q.Question)))
	b.WriteString("\n")

	for i, opt := range q.Options {
		line := "   " + opt
		switch {
		case !q.Reveal:
			b.WriteString(theme.Body.Render(line))
		case i == q.CorrectIndex:
			b.WriteString(theme.Correct.Render(" ✓ " + opt))
		default:
			b.WriteString(theme.Dim.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
