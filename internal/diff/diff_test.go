package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Equal(t *testing.T) {
	engine := NewEngine(nil)
	result := engine.Compute("line1\nline2", "line1\nline2")

	require.False(t, result.Failed)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Removed)
	for _, l := range result.Lines {
		assert.Equal(t, TagEqual, l.Tag)
	}
}

func TestCompute_SimpleAddition(t *testing.T) {
	engine := NewEngine(nil)
	result := engine.Compute("line1\nline2\nline3", "line1\nline2\nline2.5\nline3")

	require.False(t, result.Failed)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Removed)
}

func TestCompute_Replace_TaggedRemoveThenAdd(t *testing.T) {
	engine := NewEngine(nil)
	result := engine.Compute("foo\nbar\nbaz", "foo\nqux\nbaz")

	require.False(t, result.Failed)
	assert.Equal(t, 0, result.Modified, "replace opcodes must never be tagged modify")
	require.Equal(t, 1, result.Removed)
	require.Equal(t, 1, result.Added)

	var removeIdx, addIdx = -1, -1
	for i, l := range result.Lines {
		switch l.Content {
		case "bar":
			assert.Equal(t, TagRemove, l.Tag)
			removeIdx = i
		case "qux":
			assert.Equal(t, TagAdd, l.Tag)
			addIdx = i
		}
	}
	require.NotEqual(t, -1, removeIdx)
	require.NotEqual(t, -1, addIdx)
	assert.Less(t, removeIdx, addIdx, "replace must emit the remove before the add")
}

// TestCompute_RoundTrip_GeneratedReconstructsFromEqualAndAdd guards the §8
// invariant: concatenating equal and add lines, in emission order,
// reproduces the generated input exactly — including across a replace.
func TestCompute_RoundTrip_GeneratedReconstructsFromEqualAndAdd(t *testing.T) {
	engine := NewEngine(nil)
	generated := "foo\nqux\nbaz\nnew"
	result := engine.Compute("foo\nbar\nbaz", generated)

	var rebuilt []string
	for _, l := range result.Lines {
		if l.Tag == TagEqual || l.Tag == TagAdd {
			rebuilt = append(rebuilt, l.Content)
		}
	}
	assert.Equal(t, generated, strings.Join(rebuilt, "\n"))
}

func TestCompute_LineNumbersMonotonic(t *testing.T) {
	engine := NewEngine(nil)
	result := engine.Compute("a\nb\nc", "a\nx\nc")

	last := 0
	for _, l := range result.Lines {
		assert.Greater(t, l.LineNumber, last)
		last = l.LineNumber
	}
}

func TestCompute_CachesResult(t *testing.T) {
	engine := NewEngine(nil)
	r1 := engine.Compute("alpha\nbeta", "alpha\ngamma")
	_, ok := engine.lookup(cacheKeyOf("alpha\nbeta", "alpha\ngamma"))
	require.True(t, ok)

	r2 := engine.Compute("alpha\nbeta", "alpha\ngamma")
	assert.Equal(t, r1.Added, r2.Added)
	assert.Equal(t, r1.Removed, r2.Removed)
}

func TestCompute_CacheBounded(t *testing.T) {
	engine := NewEngine(nil)
	for i := 0; i < cacheMaxEntries+10; i++ {
		engine.Compute(strings.Repeat("a", i+1), strings.Repeat("b", i+1))
	}
	engine.mu.Lock()
	size := len(engine.cache)
	engine.mu.Unlock()
	assert.LessOrEqual(t, size, cacheMaxEntries)
}

func TestCompute_ChunkedLargeInput(t *testing.T) {
	engine := NewEngine(nil)
	var oldLines, newLines []string
	for i := 0; i < largeInputLineThreshold+50; i++ {
		oldLines = append(oldLines, "line")
		newLines = append(newLines, "line")
	}
	newLines[5] = "changed"

	result := engine.Compute(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"))
	require.False(t, result.Failed)
	assert.True(t, result.Chunked)
}

type countingCache struct{ puts int }

func (f *countingCache) Put(key, value string) { f.puts++ }

func TestUnified_PopulatesContentCache(t *testing.T) {
	cc := &countingCache{}
	engine := NewEngine(cc)
	text := engine.Unified("old.py", "new.py", "foo\nbar", "foo\nbaz")

	assert.Contains(t, text, "--- old.py")
	assert.Contains(t, text, "+++ new.py")
	assert.Equal(t, 1, cc.puts)
}

func TestUnified_ChunkedProducesSummary(t *testing.T) {
	engine := NewEngine(nil)
	big := strings.Repeat("x\n", largeInputLineThreshold+1)
	text := engine.Unified("old.py", "new.py", big, big+"y\n")

	assert.Contains(t, text, "@@ summary @@")
}

func TestCompute_FailureFallback(t *testing.T) {
	engine := NewEngine(nil)
	engine.dmp = nil // force a panic inside the line-diff computation

	result := engine.Compute("a", "b")
	require.True(t, result.Failed)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "<diff failed>", result.Lines[0].Content)
	assert.Equal(t, TagEqual, result.Lines[0].Tag)
}
