package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashInts(t *testing.T) {
	a := HashInts([]int64{1, 2, 3})
	b := HashInts([]int64{1, 2, 3})
	c := HashInts([]int64{3, 2, 1})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Negative values hash, order matters.
	assert.NotEqual(t, HashInts([]int64{-1}), HashInts([]int64{1}))
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash("SAT_1/GS_1"), Hash("SAT_1/GS_1"))
	assert.NotEqual(t, Hash("SAT_1/GS_1"), Hash("SAT_1/GS_2"))
}
