package study

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// minSentenceLen drops fragments such as abbreviations and headings.
const minSentenceLen = 20

// splitSentences splits text on runs of . ! or ?, trims each piece and
// keeps only those longer than minSentenceLen bytes.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBreak.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLen {
			out = append(out, s)
		}
	}
	return out
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func sentenceAt(sentences []string, i int) (string, bool) {
	if i < len(sentences) {
		return sentences[i], true
	}
	return "", false
}
