// Package mathsolve is a small offline solver for the problems the AI
// tutor usually handles: a mean of a number list, one binary arithmetic
// operation, or a linear equation of the form ax + b = c.
package mathsolve

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Unsolved is the answer reported when no pattern matches.
const Unsolved = "Unable to solve automatically"

// Solution is the outcome of Solve. Steps is empty when Solved is false.
type Solution struct {
	Answer string
	Steps  []string
	Solved bool
}

// number is a signed integer or decimal literal.
const number = `-?\d+(?:\.\d+)?`

var (
	meanPattern       = regexp.MustCompile(`(?i)(mean|average).*?(` + number + `(?:\s*,\s*` + number + `)+)`)
	arithmeticPattern = regexp.MustCompile(`(` + number + `)\s*([+\-*/])\s*(` + number + `)`)
	linearPattern     = regexp.MustCompile(`(?i)(` + number + `)x\s*\+\s*(` + number + `)\s*=\s*(` + number + `)`)
)

type rule func(problem string) (Solution, bool)

// rules are tried in order; the first match wins.
var rules = []rule{solveMean, solveArithmetic, solveLinear}

// Solve attempts each rule in order against problem.
func Solve(problem string) Solution {
	for _, r := range rules {
		if sol, ok := r(problem); ok {
			sol.Solved = true
			return sol
		}
	}
	return Solution{Answer: Unsolved}
}

func solveMean(problem string) (Solution, bool) {
	m := meanPattern.FindStringSubmatch(problem)
	if m == nil {
		return Solution{}, false
	}

	parts := strings.Split(m[2], ",")
	nums := make([]string, 0, len(parts))
	sum := new(big.Rat)
	for _, p := range parts {
		v, ok := parse(strings.TrimSpace(p))
		if !ok {
			return Solution{}, false
		}
		sum.Add(sum, v)
		nums = append(nums, format(v))
	}
	mean := new(big.Rat).Quo(sum, big.NewRat(int64(len(nums)), 1))

	return Solution{
		Answer: format(mean),
		Steps: []string{
			fmt.Sprintf("Add all numbers: %s = %s", strings.Join(nums, " + "), format(sum)),
			fmt.Sprintf("Count the numbers: %d numbers", len(nums)),
			fmt.Sprintf("Divide sum by count: %s ÷ %d = %s", format(sum), len(nums), format(mean)),
		},
	}, true
}

func solveArithmetic(problem string) (Solution, bool) {
	m := arithmeticPattern.FindStringSubmatch(problem)
	if m == nil {
		return Solution{}, false
	}
	a, okA := parse(m[1])
	b, okB := parse(m[3])
	if !okA || !okB {
		return Solution{}, false
	}

	result := new(big.Rat)
	var step string
	switch m[2] {
	case "+":
		result.Add(a, b)
		step = "Add the numbers: %s + %s = %s"
	case "-":
		result.Sub(a, b)
		step = "Subtract: %s - %s = %s"
	case "*":
		result.Mul(a, b)
		step = "Multiply: %s × %s = %s"
	case "/":
		if b.Sign() == 0 {
			return Solution{}, false
		}
		result.Quo(a, b)
		step = "Divide: %s ÷ %s = %s"
	}

	answer := format(result)
	return Solution{
		Answer: answer,
		Steps:  []string{fmt.Sprintf(step, format(a), format(b), answer)},
	}, true
}

func solveLinear(problem string) (Solution, bool) {
	m := linearPattern.FindStringSubmatch(problem)
	if m == nil {
		return Solution{}, false
	}
	a, okA := parse(m[1])
	b, okB := parse(m[2])
	c, okC := parse(m[3])
	if !okA || !okB || !okC || a.Sign() == 0 {
		return Solution{}, false
	}
	rhs := new(big.Rat).Sub(c, b)
	x := new(big.Rat).Quo(rhs, a)

	return Solution{
		Answer: "x = " + format(x),
		Steps: []string{
			fmt.Sprintf("Start with: %sx + %s = %s", format(a), format(b), format(c)),
			fmt.Sprintf("Subtract %s from both sides: %sx = %s", format(b), format(a), format(rhs)),
			fmt.Sprintf("Divide by %s: x = %s", format(a), format(x)),
		},
	}, true
}

// Operands are exact rationals so integer results never lose digits to
// float64 rounding.
func parse(s string) (*big.Rat, bool) {
	return new(big.Rat).SetString(s)
}

// format prints integers in full and other values as the shortest
// decimal that round-trips through float64.
func format(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	f, _ := v.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}
