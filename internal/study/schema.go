package study

import (
	"slices"

	"github.com/abhisek/studybuddy/internal/llm"
)

// Schemas sent to vendors are strict: every property is required and no
// extras are allowed, which is what OpenAI structured output demands.
// Replies are checked against a relaxed copy (see relaxed) so that only
// the fields a packet cannot do without are enforced.

func strictObject(props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// relaxed deep-copies a strict definition for reply validation. Nested
// required lists, enums and additionalProperties are dropped; the top
// level requires only the given fields. Quiz items that break the strict
// shape are filtered by QuizItem.Valid afterwards instead of failing the
// whole reply.
func relaxed(def map[string]any, required ...string) map[string]any {
	out := loosen(def)
	req := make([]any, 0, len(required))
	for _, r := range required {
		req = append(req, r)
	}
	out["required"] = req
	return out
}

func loosen(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		switch k {
		case "required", "enum", "additionalProperties":
			continue
		case "properties":
			props := make(map[string]any)
			for name, sub := range v.(map[string]any) {
				props[name] = loosen(sub.(map[string]any))
			}
			out[k] = props
		case "items":
			out[k] = loosen(v.(map[string]any))
		default:
			out[k] = v
		}
	}
	return out
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func quizItemDef() map[string]any {
	return strictObject(map[string]any{
		"question": stringProp("The question text"),
		"options":  arrayOf(stringProp("An option prefixed with its letter, e.g. \"A) ...\"")),
		"correctAnswer": map[string]any{
			"type":        "string",
			"description": "The letter of the correct option",
			"enum":        []any{"A", "B", "C", "D"},
		},
	})
}

func mathQuestionDef() map[string]any {
	return strictObject(map[string]any{
		"question":    stringProp("A quantitative or logic question"),
		"answer":      stringProp("The correct answer"),
		"explanation": stringProp("Step-by-step explanation"),
	})
}

var (
	packetDef = strictObject(map[string]any{
		"summary":  arrayOf(stringProp("A concise bullet point")),
		"quiz":     arrayOf(quizItemDef()),
		"studyTip": stringProp("One practical study tip related to the topic"),
	})

	mathPacketDef = strictObject(map[string]any{
		"summary":      arrayOf(stringProp("A concise bullet point")),
		"quiz":         arrayOf(quizItemDef()),
		"studyTip":     stringProp("One practical study tip related to the topic"),
		"mathQuestion": mathQuestionDef(),
	})

	tutorDef = strictObject(map[string]any{
		"summary": arrayOf(stringProp("What the problem asks, the key concepts, or the final answer")),
		"solution": strictObject(map[string]any{
			"steps":       arrayOf(stringProp("One solution step")),
			"answer":      stringProp("The final answer"),
			"explanation": stringProp("Brief explanation of the solution method"),
		}),
		"quiz":     arrayOf(quizItemDef()),
		"studyTip": stringProp("A helpful tip for solving similar problems"),
	})

	packetSchema = &llm.Schema{
		Name:        "study-packet",
		Description: "A three point summary, a three question quiz and a study tip for a topic",
		Definition:  packetDef,
		Accept:      relaxed(packetDef, "summary", "quiz", "studyTip"),
	}

	// mathQuestion stays optional on the way back; the packet is still
	// served without one.
	mathPacketSchema = &llm.Schema{
		Name:        "study-packet-math",
		Description: "A study packet that also carries a practice math question",
		Definition:  mathPacketDef,
		Accept:      relaxed(mathPacketDef, "summary", "quiz", "studyTip"),
	}

	tutorSchema = &llm.Schema{
		Name:        "math-solution",
		Description: "A step by step solution to a math problem with practice questions",
		Definition:  tutorDef,
		Accept:      relaxed(tutorDef, "summary", "quiz"),
	}
)

func schemaFor(mode Mode) *llm.Schema {
	if mode == ModeMath {
		return mathPacketSchema
	}
	return packetSchema
}
