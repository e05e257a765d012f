package ui

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const ruleWidth = 72

// RenderEvents prints one line per journaled provider call, newest first.
func RenderEvents(events []store.LLMEvent) string {
	if len(events) == 0 {
		return theme.Hint.Render("No LLM events found.") + "\n"
	}
	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("%-5s  %-19s  %-13s  %-26s  %6s  %6s  %6s  %s",
		"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")))
	b.WriteString("\n" + rule(100) + "\n")
	for _, e := range events {
		mark := theme.Correct.Render("✓")
		if !e.Success {
			mark = theme.Warn.Render("✗")
		}
		fmt.Fprintf(&b, "%-5d  %-19s  %-13s  %-26s  %6d  %6d  %6d  %s\n",
			e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), clip(e.Purpose, 13),
			clip(e.Model, 26), e.InputTokens, e.OutputTokens, e.LatencyMs, mark)
	}
	return b.String()
}

// RenderEvent prints a single call with its captured prompt and reply.
func RenderEvent(e *store.LLMEvent) string {
	var b strings.Builder
	row := func(k string, v any) {
		fmt.Fprintf(&b, "%s %v\n", theme.Dim.Render(fmt.Sprintf("%-9s", k+":")), v)
	}
	row("ID", e.ID)
	row("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	row("Provider", e.Provider)
	row("Model", e.Model)
	row("Purpose", e.Purpose)
	row("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	row("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	row("Success", e.Success)
	if e.ErrorMessage != "" {
		row("Error", theme.Warn.Render(e.ErrorMessage))
	}
	for _, part := range [][2]string{{"Request", e.RequestBody}, {"Response", e.ResponseBody}} {
		b.WriteString(theme.Heading.Render(part[0]) + "\n" + rule(60) + "\n")
		if part[1] == "" {
			b.WriteString(theme.Hint.Render("(not captured)") + "\n")
			continue
		}
		b.WriteString(part[1] + "\n")
	}
	return b.String()
}

// RenderUsage prints token totals per purpose and an estimated bill per
// model. Models missing from the pricing table are listed separately and
// mark the total as partial.
func RenderUsage(purposes []store.PurposeUsage, models []store.ModelUsage) string {
	if len(purposes) == 0 {
		return theme.Hint.Render("No LLM usage recorded yet.") + "\n"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Usage by purpose") + "\n" + rule(ruleWidth) + "\n")
	fmt.Fprintf(&b, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	var calls, in, out int
	for _, u := range purposes {
		fmt.Fprintf(&b, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			clip(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	b.WriteString(rule(ruleWidth) + "\n")
	fmt.Fprintf(&b, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	if len(models) == 0 {
		return b.String()
	}

	b.WriteString("\n" + theme.Title.Render("Estimated cost (USD)") + "\n" + rule(ruleWidth) + "\n")
	var total float64
	var unpriced []string
	for _, m := range models {
		price := "?"
		if c := llm.LookupCost(m.Model); c != nil {
			usd := c.Cost(m.InputTokens, m.OutputTokens)
			total += usd
			price = FormatCost(usd)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		fmt.Fprintf(&b, "%-32s  %6d  %10d  %10d  %10s\n", clip(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, price)
	}
	b.WriteString(rule(ruleWidth) + "\n")
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(&b, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", FormatCost(total))
	if len(unpriced) > 0 {
		b.WriteString(theme.Warn.Render("Pricing unavailable for: "+strings.Join(unpriced, ", ")) + "\n")
	}
	return b.String()
}

// FormatCost keeps four decimals for sub-cent amounts.
func FormatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func rule(n int) string {
	return theme.Dim.Render(strings.Repeat("─", n))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
