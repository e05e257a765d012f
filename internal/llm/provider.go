package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider generates one structured reply per call. Implementations talk
// to a single vendor; cross-cutting behavior (journaling, rate limits,
// deadlines, retries) is layered on with the With* decorators.
type Provider interface {
	// Generate returns JSON matching req.Schema when one is set, already
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved vendor model name, used for journaling
	// and pricing.
	ModelID() string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a single-turn prompt. Study packets and tutor answers both
// send one user message under a system prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema requests native structured output. Nil means free text,
	// returned as a JSON string.
	Schema *Schema

	MaxTokens int

	// Temperature of zero leaves the vendor default in place.
	Temperature float64
}

// Transcript renders the request the way it is stored in the event
// journal: role-tagged blocks followed by the schema, if any.
func (r Request) Transcript() string {
	var b strings.Builder
	if r.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", r.System)
	}
	for _, m := range r.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if r.Schema != nil {
		if def, err := json.Marshal(r.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", r.Schema.Name, def)
		}
	}
	return b.String()
}

// Schema is a named JSON Schema. Name doubles as the OpenAI schema name
// and the validator cache key, so it must be unique per shape
// ("study-packet", "math-tutor").
type Schema struct {
	Name        string
	Description string

	// Definition is sent to the vendor. Strict structured output modes
	// require every property and forbid extras.
	Definition map[string]any

	// Accept, when set, replaces Definition for checking the reply, so a
	// reply with extra keys or optional parts left out is still usable.
	Accept map[string]any
}

// acceptance is the definition replies are validated against.
func (s *Schema) acceptance() map[string]any {
	if s.Accept != nil {
		return s.Accept
	}
	return s.Definition
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end", or "error" when a vendor filter cut the reply
	// short. Truncation surfaces as ErrMaxTokensExceeded instead.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
