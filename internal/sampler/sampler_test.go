package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpack/vaitp-auditor-go/internal/model"
)

func makePairs(n int) []model.CodePair {
	pairs := make([]model.CodePair, n)
	for i := range pairs {
		pairs[i] = model.CodePair{Identifier: string(rune('a' + i))}
	}
	return pairs
}

func TestSample_FullPercentageReturnsAll(t *testing.T) {
	pairs := makePairs(10)
	out := Sample(pairs, 100, "session-1")
	assert.Len(t, out, 10)
}

func TestSample_ZeroPercentageReturnsNone(t *testing.T) {
	pairs := makePairs(10)
	out := Sample(pairs, 0, "session-1")
	assert.Empty(t, out)
}

func TestSample_PartialPercentageSizesCorrectly(t *testing.T) {
	pairs := makePairs(100)
	out := Sample(pairs, 25, "session-1")
	assert.Len(t, out, 25)
}

func TestSample_DeterministicForSameSeed(t *testing.T) {
	pairs := makePairs(50)
	a := Sample(pairs, 40, "session-xyz")
	b := Sample(pairs, 40, "session-xyz")
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Identifier, b[i].Identifier)
	}
}

func TestSample_LowPercentageStillYieldsOnePair(t *testing.T) {
	pairs := makePairs(19)
	out := Sample(pairs, 1, "session-1")
	assert.Len(t, out, 1, "rounding below 0.5 must still clamp to at least one pair")
}

func TestSample_PartialResultOrderedByAscendingIdentifierHash(t *testing.T) {
	pairs := makePairs(100)
	out := Sample(pairs, 30, "session-order")
	require.True(t, len(out) > 1)

	last := identifierHash(out[0].Identifier)
	for _, p := range out[1:] {
		h := identifierHash(p.Identifier)
		assert.LessOrEqual(t, last, h, "sampled subset must be ordered by ascending identifier hash")
		last = h
	}
}

func TestSample_DifferentSeedsCanDiffer(t *testing.T) {
	pairs := makePairs(200)
	a := Sample(pairs, 30, "session-A")
	b := Sample(pairs, 30, "session-B")

	identical := true
	for i := range a {
		if a[i].Identifier != b[i].Identifier {
			identical = false
			break
		}
	}
	assert.False(t, identical, "different session ids should usually produce different samples")
}
