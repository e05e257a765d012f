package mathsolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolve(t *testing.T) {
	tests := []struct {
		problem string
		answer  string
		steps   []string
	}{
		{"5 + 3", "8", []string{"Add the numbers: 5 + 3 = 8"}},
		{"12 + 7", "19", []string{"Add the numbers: 12 + 7 = 19"}},
		{"3 - 10", "-7", []string{"Subtract: 3 - 10 = -7"}},
		{"what is 6*7", "42", []string{"Multiply: 6 × 7 = 42"}},
		{"10 / 4", "2.5", []string{"Divide: 10 ÷ 4 = 2.5"}},
		{"Find the mean of 2, 4, 9", "5", []string{
			"Add all numbers: 2 + 4 + 9 = 15",
			"Count the numbers: 3 numbers",
			"Divide sum by count: 15 ÷ 3 = 5",
		}},
		{"average 1,2", "1.5", []string{
			"Add all numbers: 1 + 2 = 3",
			"Count the numbers: 2 numbers",
			"Divide sum by count: 3 ÷ 2 = 1.5",
		}},
		{"average of 2.5, 3.5", "3", []string{
			"Add all numbers: 2.5 + 3.5 = 6",
			"Count the numbers: 2 numbers",
			"Divide sum by count: 6 ÷ 2 = 3",
		}},
		{"mean of -4, 10", "3", []string{
			"Add all numbers: -4 + 10 = 6",
			"Count the numbers: 2 numbers",
			"Divide sum by count: 6 ÷ 2 = 3",
		}},
		{"-5 + 3", "-2", []string{"Add the numbers: -5 + 3 = -2"}},
		{"2.5 * 4", "10", []string{"Multiply: 2.5 × 4 = 10"}},
		{"9007199254740993 + 0", "9007199254740993", []string{"Add the numbers: 9007199254740993 + 0 = 9007199254740993"}},
		{"1 / 3", "0.3333333333333333", []string{"Divide: 1 ÷ 3 = 0.3333333333333333"}},
		{"Solve 2x + 3 = 11", "x = 4", []string{
			"Start with: 2x + 3 = 11",
			"Subtract 3 from both sides: 2x = 8",
			"Divide by 2: x = 4",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.problem, func(t *testing.T) {
			got := Solve(tt.problem)
			assert.True(t, got.Solved)
			assert.Equal(t, tt.answer, got.Answer)
			assert.Equal(t, tt.steps, got.Steps)
		})
	}
}

func TestSolve_Unsolvable(t *testing.T) {
	for _, p := range []string{"prove the Riemann hypothesis", "integral of sin(x)", "7 / 0"} {
		got := Solve(p)
		assert.False(t, got.Solved, p)
		assert.Equal(t, Unsolved, got.Answer, p)
		assert.Empty(t, got.Steps, p)
	}
}

func TestSolve_ArithmeticMatchesLiteralResult(t *testing.T) {
	ops := []struct {
		sym string
		fn  func(a, b int) int
	}{
		{"+", func(a, b int) int { return a + b }},
		{"-", func(a, b int) int { return a - b }},
		{"*", func(a, b int) int { return a * b }},
	}
	for a := 0; a <= 40; a += 7 {
		for b := 1; b <= 30; b += 6 {
			for _, op := range ops {
				problem := fmt.Sprintf("%d %s %d", a, op.sym, b)
				got := Solve(problem)
				assert.Equal(t, fmt.Sprint(op.fn(a, b)), got.Answer, problem)
			}
		}
	}
}

func TestSolve_LargeIntegersAreExact(t *testing.T) {
	tests := []struct{ problem, answer string }{
		{"123456789012345678 * 1000", "123456789012345678000"},
		{"9007199254740993 - 9007199254740992", "1"},
		{"99999999999999999 / 3", "33333333333333333"},
	}
	for _, tt := range tests {
		got := Solve(tt.problem)
		assert.True(t, got.Solved, tt.problem)
		assert.Equal(t, tt.answer, got.Answer, tt.problem)
	}
}

func TestSolve_LinearWithDecimals(t *testing.T) {
	got := Solve("0.5x + 1.5 = 4")
	assert.True(t, got.Solved)
	assert.Equal(t, "x = 5", got.Answer)
}
