// Package classify tags a raw study query as a definitional question, a
// math problem or a general topic using static, ordered rule tables.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the classification outcome.
type Kind string

const (
	Definitional Kind = "definitional"
	Math         Kind = "math"
	General      Kind = "general"
)

// Result is the tagged classification of a query.
type Result struct {
	Kind Kind

	// Topic is the extracted subject for definitional questions and the
	// trimmed query otherwise.
	Topic string

	// Query is the trimmed input.
	Query string

	// Rule names the table entry that matched, for logging.
	Rule string

	// MathRule names the math table entry the query matches, if any. It
	// is set for definitional questions too, so a caller can demote a
	// definitional query to the math route without classifying again.
	MathRule string
}

type definitionalRule struct {
	name    string
	pattern *regexp.Regexp
}

// definitionalRules are leading interrogative phrases, matched case-insensitively.
var definitionalRules = []definitionalRule{
	{"what-is", regexp.MustCompile(`(?i)^what\s+is\s+`)},
	{"what-are", regexp.MustCompile(`(?i)^what\s+are\s+`)},
	{"whats", regexp.MustCompile(`(?i)^what's\s+`)},
	{"define", regexp.MustCompile(`(?i)^define\s+`)},
	{"explain", regexp.MustCompile(`(?i)^explain\s+`)},
	{"describe", regexp.MustCompile(`(?i)^describe\s+`)},
	{"tell-me-about", regexp.MustCompile(`(?i)^tell\s+me\s+about\s+`)},
	{"who-is", regexp.MustCompile(`(?i)^who\s+is\s+`)},
	{"who-are", regexp.MustCompile(`(?i)^who\s+are\s+`)},
	{"whos", regexp.MustCompile(`(?i)^who's\s+`)},
	{"when-is", regexp.MustCompile(`(?i)^when\s+is\s+`)},
	{"when-was", regexp.MustCompile(`(?i)^when\s+was\s+`)},
	{"where-is", regexp.MustCompile(`(?i)^where\s+is\s+`)},
	{"where-are", regexp.MustCompile(`(?i)^where\s+are\s+`)},
	{"why-is", regexp.MustCompile(`(?i)^why\s+is\s+`)},
	{"why-are", regexp.MustCompile(`(?i)^why\s+are\s+`)},
	{"how-does", regexp.MustCompile(`(?i)^how\s+does\s+`)},
	{"how-do", regexp.MustCompile(`(?i)^how\s+do\s+`)},
	{"which-is", regexp.MustCompile(`(?i)^which\s+is\s+`)},
	{"which-are", regexp.MustCompile(`(?i)^which\s+are\s+`)},
}

var trailingQuestionMarks = regexp.MustCompile(`[?\s]+$`)

// mathKeywords only count when the query also contains a digit.
var mathKeywords = []string{
	"solve", "calculate", "compute", "find", "what is",
	"mean", "median", "mode", "average", "sum", "product",
	"derivative", "integral", "equation", "simplify",
	"factor", "expand", "evaluate", "prove",
}

const mathOperators = "+-*/=^()[]√∫∑"

type mathRule struct {
	name  string
	match func(lower string) bool
}

func patternRule(name, expr string) mathRule {
	re := regexp.MustCompile(expr)
	return mathRule{name: name, match: re.MatchString}
}

// mathRules are evaluated top to bottom against the lowercased query.
var mathRules = []mathRule{
	{"keyword-with-digit", func(lower string) bool {
		return hasDigit(lower) && containsAny(lower, mathKeywords)
	}},
	{"operator", func(lower string) bool {
		return strings.ContainsAny(lower, mathOperators)
	}},
	patternRule("arithmetic", `\d+\s*[+\-*/]\s*\d+`),
	patternRule("statistics", `(mean|average|median|mode).*\d`),
	patternRule("solve-for-variable", `solve.*\b[x-z]\b`),
	patternRule("calculus", `derivative|integral`),
	patternRule("number-list", `\d+\s*,\s*\d+`),
}

// Classify tags a query. The definitional table is consulted first, then
// the math table; anything else is General. It is a pure function.
func Classify(raw string) Result {
	query := strings.TrimSpace(raw)
	mathRule, _ := IsMath(query)

	if topic, rule, ok := definitional(query); ok {
		return Result{Kind: Definitional, Topic: topic, Query: query, Rule: rule, MathRule: mathRule}
	}
	if mathRule != "" {
		return Result{Kind: Math, Topic: query, Query: query, Rule: mathRule, MathRule: mathRule}
	}
	return Result{Kind: General, Topic: query, Query: query, Rule: "default"}
}

// IsMath reports whether query looks like a math problem and which rule
// matched first.
func IsMath(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, r := range mathRules {
		if r.match(lower) {
			return r.name, true
		}
	}
	return "", false
}

// ExtractTopic strips leading interrogative phrases and trailing question
// marks from a definitional query and capitalizes the first letter. It
// returns false when the query is not definitional or nothing remains.
func ExtractTopic(query string) (string, bool) {
	topic, _, ok := definitional(strings.TrimSpace(query))
	return topic, ok
}

func definitional(query string) (topic, rule string, ok bool) {
	rest := query
	for {
		matched := false
		for _, r := range definitionalRules {
			if loc := r.pattern.FindStringIndex(rest); loc != nil {
				if rule == "" {
					rule = r.name
				}
				rest = rest[loc[1]:]
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	if rule == "" {
		return "", "", false
	}

	rest = strings.TrimSpace(trailingQuestionMarks.ReplaceAllString(rest, ""))
	if rest == "" {
		return "", "", false
	}
	return capitalize(rest), rule, true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
