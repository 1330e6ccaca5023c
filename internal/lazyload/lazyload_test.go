package lazyload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpack/vaitp-auditor-go/internal/cache"
)

func TestLoader_CachesAfterFirstLoad(t *testing.T) {
	c := cache.New(10, 1<<20)
	l := New(c)

	calls := 0
	source := func() (string, error) {
		calls++
		return "content", nil
	}

	v1, err := l.Load("ns", "id1", source)
	require.NoError(t, err)
	v2, err := l.Load("ns", "id1", source)
	require.NoError(t, err)

	assert.Equal(t, "content", v1)
	assert.Equal(t, "content", v2)
	assert.Equal(t, 1, calls, "source should only be invoked on the first load")
}

func TestLoader_PropagatesSourceError(t *testing.T) {
	l := New(nil)
	_, err := l.Load("ns", "id1", func() (string, error) {
		return "", assert.AnError
	})
	require.Error(t, err)
}

func TestLoader_WorksWithoutCache(t *testing.T) {
	l := New(nil)
	calls := 0
	source := func() (string, error) {
		calls++
		return "v", nil
	}

	_, _ = l.Load("ns", "id1", source)
	_, _ = l.Load("ns", "id1", source)
	assert.Equal(t, 2, calls, "with no cache wired, every load re-invokes the source")
}

func TestHandle_SizeEstimateUsesHintWithoutLoading(t *testing.T) {
	l := New(nil)
	sourceCalls := 0
	h := l.Resolve("ns", "id1", func() (int64, error) { return 42, nil },
		func() (string, error) { sourceCalls++; return "ignored", nil }, nil)

	size, err := h.SizeEstimate()
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)
	assert.Equal(t, 0, sourceCalls, "size estimate must not invoke the full-content source")
}

func TestHandle_IsLargeComparesAgainstThreshold(t *testing.T) {
	l := New(nil)
	h := l.Resolve("ns", "id1", func() (int64, error) { return 2 << 20, nil },
		func() (string, error) { return "", nil }, nil)

	large, err := h.IsLarge()
	require.NoError(t, err)
	assert.True(t, large)
}

func TestHandle_IsLargeFalseUnderThreshold(t *testing.T) {
	l := New(nil)
	h := l.Resolve("ns", "id1", func() (int64, error) { return 10, nil },
		func() (string, error) { return "", nil }, nil)

	large, err := h.IsLarge()
	require.NoError(t, err)
	assert.False(t, large)
}

func TestHandle_ContentIsIdempotent(t *testing.T) {
	l := New(nil)
	calls := 0
	h := l.Resolve("ns", "id1", nil, func() (string, error) {
		calls++
		return "body", nil
	}, nil)

	v1, err := h.Content()
	require.NoError(t, err)
	v2, err := h.Content()
	require.NoError(t, err)

	assert.Equal(t, "body", v1)
	assert.Equal(t, "body", v2)
	assert.Equal(t, 1, calls, "content must only be materialized once")
}

func TestHandle_PreviewUsesShortCircuitWithoutLoadingFullContent(t *testing.T) {
	l := New(nil)
	sourceCalls := 0
	h := l.Resolve("ns", "id1", nil,
		func() (string, error) { sourceCalls++; return "full body", nil },
		func(n int) (string, error) { return "line1\nline2", nil })

	preview, err := h.Preview(2)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", preview)
	assert.Equal(t, 0, sourceCalls, "a preview source must short-circuit the full-content load")
}

func TestHandle_PreviewFallsBackToContentWithoutPreviewSource(t *testing.T) {
	l := New(nil)
	h := l.Resolve("ns", "id1", nil,
		func() (string, error) { return "line1\nline2\nline3", nil }, nil)

	preview, err := h.Preview(2)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", preview)
}

func TestHandle_PreviewSlicesAlreadyLoadedContent(t *testing.T) {
	l := New(nil)
	previewCalls := 0
	h := l.Resolve("ns", "id1", nil,
		func() (string, error) { return "line1\nline2\nline3", nil },
		func(n int) (string, error) { previewCalls++; return "", nil })

	_, err := h.Content()
	require.NoError(t, err)

	preview, err := h.Preview(2)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", preview)
	assert.Equal(t, 0, previewCalls, "once content is loaded, preview must slice it instead of re-invoking the preview source")
}
