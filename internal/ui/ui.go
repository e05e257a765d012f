// Package ui renders study packets and history listings for the terminal.
package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/study"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// PacketOptions control RenderPacket.
type PacketOptions struct {
	Width         int  // wrap width; 0 disables wrapping
	RevealAnswers bool // mark the correct quiz option
}

// RenderPacket lays out a packet as titled sections.
func RenderPacket(p *study.Packet, opts PacketOptions) string {
	body := theme.Body
	if opts.Width > 0 {
		body = body.Width(opts.Width)
	}

	var sections []string

	title := theme.Title.Render(p.Topic)
	if badge := sourceBadge(p); badge != "" {
		title += "  " + theme.Badge.Render(badge)
	}
	sections = append(sections, title)
	if p.WikipediaURL != "" {
		sections = append(sections, theme.Link.Render(p.WikipediaURL))
	}

	if p.Framework != nil {
		sections = append(sections, theme.Heading.Render("The 7 W's"))
		for _, row := range frameworkRows(p.Framework) {
			sections = append(sections, body.Render(theme.Correct.Render(row[0]+": ")+row[1]))
		}
	}

	sections = append(sections, theme.Heading.Render("Summary"))
	for _, s := range p.Summary {
		sections = append(sections, body.Render("• "+s))
	}

	if len(p.Quiz) > 0 {
		sections = append(sections, theme.Heading.Render("Quiz"))
		for i, q := range p.Quiz {
			sections = append(sections, components.QuizCard{
				Number:       i + 1,
				Question:     q.Question,
				Options:      q.Options,
				CorrectIndex: q.AnswerIndex(),
				Reveal:       opts.RevealAnswers,
			}.View())
		}
	}

	if mq := p.MathQuestion; mq != nil {
		sections = append(sections, theme.Heading.Render("Math"))
		sections = append(sections, body.Render(mq.Question))
		sections = append(sections, theme.Correct.Render("Answer: "+mq.Answer))
		if mq.Explanation != "" {
			sections = append(sections, theme.Dim.Render(mq.Explanation))
		}
	}

	if p.StudyTip != "" {
		sections = append(sections, theme.Heading.Render("Study tip"))
		sections = append(sections, theme.Tip.Render(p.StudyTip))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func sourceBadge(p *study.Packet) string {
	switch {
	case p.IsFrameworkAnswer:
		return "7 W's"
	case p.IsBasicFallback:
		return "offline solver"
	case p.Source == study.SourceWikipedia:
		return "offline"
	case p.Source == study.SourceAI:
		return "AI"
	}
	return ""
}

func frameworkRows(f *study.Framework) [][2]string {
	return [][2]string{
		{"What", f.What},
		{"Why", f.Why},
		{"When", f.When},
		{"Where", f.Where},
		{"Who", f.Who},
		{"Which", f.Which},
		{"Whom", f.Whom},
		{"How", f.How},
	}
}

// RenderHistory lists history items newest first, one per line.
func RenderHistory(items []history.Item) string {
	if len(items) == 0 {
		return theme.Hint.Render("No study history yet.") + "\n"
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Study history (%d)", len(items))))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(fmt.Sprintf("%s  %-9s  %s\n",
			theme.Dim.Render(it.CreatedAt.Local().Format("2006-01-02 15:04")),
			it.Mode,
			theme.Body.Render(it.Topic),
		))
	}
	return b.String()
}
