package alg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabuListEviction(t *testing.T) {
	tabu := newTabuList(3)

	tabu.Push(1)
	tabu.Push(2)
	tabu.Push(3)
	assert.Equal(t, 3, tabu.Len())
	assert.True(t, tabu.Contains(1))

	// Oldest entry leaves once capacity is exceeded.
	tabu.Push(4)
	assert.Equal(t, 3, tabu.Len())
	assert.False(t, tabu.Contains(1))
	assert.True(t, tabu.Contains(2))
	assert.True(t, tabu.Contains(4))
}

func TestTabuListDuplicates(t *testing.T) {
	tabu := newTabuList(3)

	tabu.Push(7)
	tabu.Push(7)
	tabu.Push(8)

	// Evicts one occurrence of 7, the other still forbids it.
	tabu.Push(9)
	assert.True(t, tabu.Contains(7))

	tabu.Push(10)
	assert.False(t, tabu.Contains(7))
}

func TestTabuListClear(t *testing.T) {
	tabu := newTabuList(2)
	tabu.Push(5)
	tabu.Push(6)

	tabu.Clear()
	assert.Equal(t, 0, tabu.Len())
	assert.False(t, tabu.Contains(5))
	assert.False(t, tabu.Contains(6))
}
