package alg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// diffCells counts the encoding cells that differ between two solutions.
func diffCells(a, b *Solution) int {
	rows, cols := a.Encoding.Dims()
	count := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if a.Encoding.At(i, j) != b.Encoding.At(i, j) {
				count++
			}
		}
	}
	return count
}

func TestOperatorsNeverMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	original := NewRandomSolution(6, rng)
	snapshot := mat.DenseCopyOf(original.Encoding)

	for _, op := range []Operator{
		MoveOperator{},
		SamePositionExchangeOperator{},
		RandomExchangeOperator{},
		WholeRowExchangeOperator{},
	} {
		t.Run(op.Name(), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				neighbor := op.Apply(original, rng)
				require.NotSame(t, original, neighbor)
			}
			assert.True(t, mat.Equal(snapshot, original.Encoding))
		})
	}
}

func TestMoveOperatorChangesAtMostOneCell(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	original := NewRandomSolution(5, rng)

	for i := 0; i < 100; i++ {
		neighbor := MoveOperator{}.Apply(original, rng)
		assert.LessOrEqual(t, diffCells(original, neighbor), 1)
	}
}

func TestSamePositionExchangeSwapsOneColumn(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	original := NewRandomSolution(5, rng)

	for i := 0; i < 100; i++ {
		neighbor := SamePositionExchangeOperator{}.Apply(original, rng)
		assert.Equal(t, 2, diffCells(original, neighbor))
	}
}

func TestWholeRowExchangeSwapsRows(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	original := NewRandomSolution(5, rng)

	neighbor := WholeRowExchangeOperator{}.Apply(original, rng)
	assert.Equal(t, 6, diffCells(original, neighbor))
}

func TestExchangeOperatorsNoOpBelowTwoTasks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original := NewRandomSolution(1, rng)

	for _, op := range []Operator{
		SamePositionExchangeOperator{},
		RandomExchangeOperator{},
		WholeRowExchangeOperator{},
	} {
		neighbor := op.Apply(original, rng)
		assert.Equal(t, 0, diffCells(original, neighbor), op.Name())
	}
}

func TestPickTwoTasksDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 1000; i++ {
		a, b := pickTwoTasks(4, rng)
		require.NotEqual(t, a, b)
		require.GreaterOrEqual(t, a, 0)
		require.Less(t, a, 4)
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, 4)
	}
}

func TestOperatorSet(t *testing.T) {
	set := NewOperatorSet()
	require.Equal(t, 4, set.Len())

	rng := rand.New(rand.NewSource(9))
	original := NewRandomSolution(5, rng)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		_, name := set.ApplyRandom(original, rng)
		seen[name] = true
	}
	assert.Len(t, seen, 4)
}
