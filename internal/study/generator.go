package study

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logger"
)

const (
	// DefaultGenerateTimeout bounds one AI packet request. Exceeding it is a
	// failure, not a retry, so the caller can fall back promptly.
	DefaultGenerateTimeout = 15 * time.Second

	generateMaxTokens   = 2048
	generateTemperature = 0.3

	purposePacket = "study-packet"
	purposeTutor  = "math-tutor"
)

// Generator asks an AI provider for a study packet built on a topic and
// its encyclopedia extract.
type Generator struct {
	provider llm.Provider
	log      *logger.Logger
}

// NewGenerator wraps p with a hard timeout. A nil provider yields a
// Generator that always fails with llm.ErrNotConfigured.
func NewGenerator(p llm.Provider, timeout time.Duration, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if p != nil {
		p = llm.WithTimeout(p, timeout)
	}
	return &Generator{provider: p, log: log.With("component", "generator")}
}

func (g *Generator) Name() string { return string(SourceAI) }

type generatedPacket struct {
	Summary      []string      `json:"summary"`
	Quiz         []QuizItem    `json:"quiz"`
	StudyTip     string        `json:"studyTip"`
	MathQuestion *MathQuestion `json:"mathQuestion"`
}

// Produce makes exactly one provider call.
func (g *Generator) Produce(ctx context.Context, in Input) (*Packet, error) {
	if g.provider == nil {
		return nil, llm.ErrNotConfigured
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, purposePacket), llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: packetPrompt(in.Topic, in.Extract, in.Mode)}},
		Schema:      schemaFor(in.Mode),
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, err
	}

	var out generatedPacket
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	quiz := validQuiz(out.Quiz)
	if len(out.Summary) == 0 || len(quiz) == 0 || strings.TrimSpace(out.StudyTip) == "" {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     errors.New("invalid response format from AI: summary, quiz and studyTip are required"),
		}
	}
	if dropped := len(out.Quiz) - len(quiz); dropped > 0 {
		g.log.Debug("dropped malformed quiz items", "topic", in.Topic, "dropped", dropped)
	}

	p := &Packet{
		Topic:        in.Topic,
		WikipediaURL: in.URL,
		Summary:      out.Summary,
		Quiz:         quiz,
		StudyTip:     out.StudyTip,
		Source:       SourceAI,
	}
	if in.Mode == ModeMath {
		p.MathQuestion = out.MathQuestion
	}
	return p, nil
}
