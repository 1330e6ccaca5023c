package chunked

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ChunksAllItems(t *testing.T) {
	p := New(10, 0)
	var seen []int
	err := p.Process(25, func(start, end int) error {
		for i := start; i < end; i++ {
			seen = append(seen, i)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 25)
}

func TestProcessor_BoundedChunkSize(t *testing.T) {
	p := New(10, 0)
	var chunkSizes []int
	_ = p.Process(25, func(start, end int) error {
		chunkSizes = append(chunkSizes, end-start)
		return nil
	})
	assert.Equal(t, []int{10, 10, 5}, chunkSizes)
}

func TestProcessor_PropagatesCallbackError(t *testing.T) {
	p := New(10, 0)
	err := p.Process(25, func(start, end int) error {
		return assert.AnError
	})
	require.Error(t, err)
}

func TestProcessor_ZeroChunkSizeDefaults(t *testing.T) {
	p := New(0, 0)
	assert.Equal(t, 1000, p.ChunkSize)
}
