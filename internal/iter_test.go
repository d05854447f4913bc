package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq(t *testing.T) {
	assert := assert.New(t)

	all := IterSeqConcat(slices.Values([]int{1, 2, 3}), slices.Values([]int{4, 5}))
	assert.Equal([]int{1, 2, 3, 4, 5}, slices.Collect(all))

	odd := IterSeqFilter(all, func(n int) bool { return n%2 == 1 })
	assert.Equal([]int{1, 3, 5}, slices.Collect(odd))

	// Early stop.
	var first []int
	for n := range odd {
		first = append(first, n)
		break
	}
	assert.Equal([]int{1}, first)
}
