package alg

import "math/rand"

// Operator perturbs an encoding into a neighbor. Operators are stateless
// and never mutate their input; the returned solution is always a fresh
// copy.
type Operator interface {
	Apply(solution *Solution, rng *rand.Rand) *Solution
	Name() string
}

// MoveOperator overwrites one random cell with a fresh uniform value.
type MoveOperator struct{}

func (MoveOperator) Apply(solution *Solution, rng *rand.Rand) *Solution {
	neighbor := solution.Clone()
	taskIdx := rng.Intn(neighbor.NumTasks())
	codeIdx := rng.Intn(encodingColumns)
	neighbor.Encoding.Set(taskIdx, codeIdx, rng.Float64())
	return neighbor
}

func (MoveOperator) Name() string { return "move" }

// SamePositionExchangeOperator swaps one column's values between two tasks.
type SamePositionExchangeOperator struct{}

func (SamePositionExchangeOperator) Apply(solution *Solution, rng *rand.Rand) *Solution {
	neighbor := solution.Clone()
	if neighbor.NumTasks() < 2 {
		return neighbor
	}
	task1, task2 := pickTwoTasks(neighbor.NumTasks(), rng)
	codeIdx := rng.Intn(encodingColumns)

	v1 := neighbor.Encoding.At(task1, codeIdx)
	neighbor.Encoding.Set(task1, codeIdx, neighbor.Encoding.At(task2, codeIdx))
	neighbor.Encoding.Set(task2, codeIdx, v1)
	return neighbor
}

func (SamePositionExchangeOperator) Name() string { return "same_position_exchange" }

// RandomExchangeOperator swaps two independently chosen cells of two tasks.
type RandomExchangeOperator struct{}

func (RandomExchangeOperator) Apply(solution *Solution, rng *rand.Rand) *Solution {
	neighbor := solution.Clone()
	if neighbor.NumTasks() < 2 {
		return neighbor
	}
	task1, task2 := pickTwoTasks(neighbor.NumTasks(), rng)
	codeIdx1 := rng.Intn(encodingColumns)
	codeIdx2 := rng.Intn(encodingColumns)

	v1 := neighbor.Encoding.At(task1, codeIdx1)
	neighbor.Encoding.Set(task1, codeIdx1, neighbor.Encoding.At(task2, codeIdx2))
	neighbor.Encoding.Set(task2, codeIdx2, v1)
	return neighbor
}

func (RandomExchangeOperator) Name() string { return "random_exchange" }

// WholeRowExchangeOperator swaps the full 3-value rows of two tasks.
type WholeRowExchangeOperator struct{}

func (WholeRowExchangeOperator) Apply(solution *Solution, rng *rand.Rand) *Solution {
	neighbor := solution.Clone()
	if neighbor.NumTasks() < 2 {
		return neighbor
	}
	task1, task2 := pickTwoTasks(neighbor.NumTasks(), rng)
	for j := 0; j < encodingColumns; j++ {
		v1 := neighbor.Encoding.At(task1, j)
		neighbor.Encoding.Set(task1, j, neighbor.Encoding.At(task2, j))
		neighbor.Encoding.Set(task2, j, v1)
	}
	return neighbor
}

func (WholeRowExchangeOperator) Name() string { return "whole_row_exchange" }

func pickTwoTasks(numTasks int, rng *rand.Rand) (int, int) {
	first := rng.Intn(numTasks)
	second := rng.Intn(numTasks - 1)
	if second >= first {
		second++
	}
	return first, second
}

// OperatorSet selects uniformly among its operators per invocation.
type OperatorSet struct {
	operators []Operator
}

// NewOperatorSet builds the default four-operator neighborhood.
func NewOperatorSet() *OperatorSet {
	return &OperatorSet{operators: []Operator{
		MoveOperator{},
		SamePositionExchangeOperator{},
		RandomExchangeOperator{},
		WholeRowExchangeOperator{},
	}}
}

// ApplyRandom picks one operator uniformly, applies it, and reports which
// one ran.
func (set *OperatorSet) ApplyRandom(solution *Solution, rng *rand.Rand) (*Solution, string) {
	op := set.operators[rng.Intn(len(set.operators))]
	return op.Apply(solution, rng), op.Name()
}

// Len returns the number of operators in the set.
func (set *OperatorSet) Len() int { return len(set.operators) }
