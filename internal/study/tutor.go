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

const defaultTutorTip = "Practice similar problems to master this concept."

// DefaultTutorRetry allows three attempts with 2s then 4s between them.
func DefaultTutorRetry() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts: 3,
		InitialWait: 2 * time.Second,
		Multiplier:  2,
	}
}

// Tutor asks an AI provider to solve a math problem step by step. Only
// overload-class failures are retried.
type Tutor struct {
	provider llm.Provider
	log      *logger.Logger
}

// NewTutor wraps p with a per-attempt timeout and the overload-only retry
// policy. A nil provider yields a Tutor that fails with llm.ErrNotConfigured.
func NewTutor(p llm.Provider, retry llm.RetryConfig, timeout time.Duration, log *logger.Logger) *Tutor {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "tutor")
	if p != nil {
		retry.RetryOn = llm.IsOverloaded
		retry.OnRetry = func(attempt int, err error, wait time.Duration) {
			log.Warn("math tutor overloaded, retrying",
				"attempt", attempt,
				"max_attempts", retry.MaxAttempts,
				"wait", wait,
				"error", err,
			)
		}
		p = llm.WithRetry(llm.WithTimeout(p, timeout), retry)
	}
	return &Tutor{provider: p, log: log}
}

func (t *Tutor) Name() string { return string(SourceAI) }

type tutorReply struct {
	Summary  []string `json:"summary"`
	Solution *struct {
		Steps       []string `json:"steps"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	} `json:"solution"`
	Quiz     []QuizItem `json:"quiz"`
	StudyTip string     `json:"studyTip"`
}

// Produce solves in.Topic as a math problem.
func (t *Tutor) Produce(ctx context.Context, in Input) (*Packet, error) {
	if t.provider == nil {
		return nil, llm.ErrNotConfigured
	}
	problem := in.Topic

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, purposeTutor), llm.Request{
		System:      tutorSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: tutorPrompt(problem)}},
		Schema:      tutorSchema,
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, err
	}

	var out tutorReply
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	quiz := validQuiz(out.Quiz)
	if len(out.Summary) == 0 || len(quiz) == 0 {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     errors.New("math solution is missing summary or quiz"),
		}
	}

	tip := out.StudyTip
	if strings.TrimSpace(tip) == "" {
		tip = defaultTutorTip
	}

	p := &Packet{
		Topic:          problem,
		Summary:        out.Summary,
		Quiz:           quiz,
		StudyTip:       tip,
		IsMathSolution: true,
		Source:         SourceAI,
	}
	if s := out.Solution; s != nil {
		explanation := s.Explanation
		if len(s.Steps) > 0 {
			explanation = strings.Join(s.Steps, "\n")
		}
		p.MathQuestion = &MathQuestion{
			Question:    problem,
			Answer:      s.Answer,
			Explanation: explanation,
		}
	}
	return p, nil
}
