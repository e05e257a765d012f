package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicPacket_Solved(t *testing.T) {
	p, err := BasicSolver{}.Produce(context.Background(), Input{Topic: "5 + 3"})
	require.NoError(t, err)

	assert.Equal(t, "5 + 3", p.Topic)
	assert.Equal(t, []string{
		"This is a basic solution generated without AI assistance.",
		"The problem has been solved using basic arithmetic.",
		"Answer: 8",
	}, p.Summary)
	require.NotNil(t, p.MathQuestion)
	assert.Equal(t, "8", p.MathQuestion.Answer)
	assert.Equal(t, "Add the numbers: 5 + 3 = 8", p.MathQuestion.Explanation)
	assert.True(t, p.IsMathSolution)
	assert.True(t, p.IsBasicFallback)
	assert.Equal(t, SourceBasic, p.Source)

	require.Len(t, p.Quiz, 3)
	assert.Equal(t, "A", p.Quiz[0].CorrectAnswer)
	assert.Equal(t, "D", p.Quiz[1].CorrectAnswer)
	assert.Equal(t, "D", p.Quiz[2].CorrectAnswer)
}

func TestBasicPacket_Unsolved(t *testing.T) {
	p := BasicPacket("prove that primes are infinite")

	assert.Equal(t, "For complex problems, please try again when the AI service is available.", p.Summary[1])
	assert.Equal(t, "Answer: Unable to solve automatically", p.Summary[2])
	assert.Nil(t, p.MathQuestion)
	assert.True(t, p.IsBasicFallback)
}

func TestBasicPacket_MultiStepExplanation(t *testing.T) {
	p := BasicPacket("Solve 3x + 4 = 19")
	require.NotNil(t, p.MathQuestion)
	assert.Equal(t, "x = 5", p.MathQuestion.Answer)
	assert.Equal(t, "Start with: 3x + 4 = 19\nSubtract 4 from both sides: 3x = 15\nDivide by 3: x = 5", p.MathQuestion.Explanation)
}
