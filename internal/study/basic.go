package study

import (
	"context"
	"strings"

	"github.com/abhisek/studybuddy/internal/mathsolve"
)

// BasicSolver is the offline last resort for math problems. It wraps
// mathsolve in a full packet and never fails.
type BasicSolver struct{}

func (BasicSolver) Name() string { return string(SourceBasic) }

func (b BasicSolver) Produce(_ context.Context, in Input) (*Packet, error) {
	return BasicPacket(in.Topic), nil
}

// BasicPacket solves problem without AI. The mathQuestion is only set when
// a pattern matched.
func BasicPacket(problem string) *Packet {
	sol := mathsolve.Solve(problem)

	outcome := "For complex problems, please try again when the AI service is available."
	if sol.Solved {
		outcome = "The problem has been solved using basic arithmetic."
	}

	p := &Packet{
		Topic: problem,
		Summary: []string{
			"This is a basic solution generated without AI assistance.",
			outcome,
			"Answer: " + sol.Answer,
		},
		Quiz: []QuizItem{
			{
				Question:      "What type of problem is this?",
				Options:       []string{"A) Mathematical problem", "B) History question", "C) Science question", "D) Literature question"},
				CorrectAnswer: "A",
			},
			{
				Question:      "Why might the AI service be unavailable?",
				Options:       []string{"A) High server load", "B) Maintenance", "C) Network issues", "D) All of the above"},
				CorrectAnswer: "D",
			},
			{
				Question:      "What should you do if the service is unavailable?",
				Options:       []string{"A) Try again later", "B) Check your internet connection", "C) Verify the problem format", "D) All of the above"},
				CorrectAnswer: "D",
			},
		},
		StudyTip: "For complex math problems, try breaking them down into smaller steps. " +
			"If the AI service is unavailable, you can use online calculators or math tools as alternatives.",
		IsMathSolution:  true,
		IsBasicFallback: true,
		Source:          SourceBasic,
	}

	if sol.Solved {
		p.MathQuestion = &MathQuestion{
			Question:    problem,
			Answer:      sol.Answer,
			Explanation: strings.Join(sol.Steps, "\n"),
		}
	}
	return p
}
