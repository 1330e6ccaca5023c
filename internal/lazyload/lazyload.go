// Package lazyload implements the Lazy Loader (C5): resolves a CodePair's
// full content on first access and memoizes it in the Content Cache (C4).
package lazyload

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/netpack/vaitp-auditor-go/internal/logging"
)

var log = logging.Get("lazyload")

// DefaultLargeThreshold is the size_estimate above which a Handle reports
// is_large, per §4.5's default of 1 MB.
const DefaultLargeThreshold = 1 << 20

// ContentCache is the subset of internal/cache.Cache the loader needs.
type ContentCache interface {
	Get(key string) (string, bool)
	Put(key string, value string)
}

// Source produces content for an identifier on demand (e.g. re-reading a
// file, re-querying a database row).
type Source func() (string, error)

// SizeEstimate obtains a handle's content length without materializing it
// (e.g. os.Stat). May be nil if no cheap estimate is available.
type SizeEstimate func() (int64, error)

// PreviewSource produces only the first n lines of content, for handles
// that can satisfy a preview without reading the whole body (e.g. a bounded
// file read). May be nil, in which case Preview falls back to loading full
// content via Source and truncating it.
type PreviewSource func(nLines int) (string, error)

// Loader resolves content lazily, memoizing results in a shared cache.
type Loader struct {
	cache ContentCache
}

// New builds a Loader backed by cache.
func New(cache ContentCache) *Loader {
	return &Loader{cache: cache}
}

// Load returns the content keyed by namespace+identifier, invoking source
// only on a cache miss. Convenience wrapper for callers that only need
// content and have no size estimate or preview source to offer — equivalent
// to Resolve(...).Content().
func (l *Loader) Load(namespace, identifier string, source Source) (string, error) {
	return l.Resolve(namespace, identifier, nil, source, nil).Content()
}

// Resolve builds a Handle over a thunk, deferring materialization until
// Content or Preview is called. sizeEstimate and preview may both be nil.
func (l *Loader) Resolve(namespace, identifier string, sizeEstimate SizeEstimate, source Source, preview PreviewSource) *Handle {
	return &Handle{
		cache:        l.cache,
		key:          cacheKey(namespace, identifier),
		source:       source,
		sizeEstimate: sizeEstimate,
		preview:      preview,
		threshold:    DefaultLargeThreshold,
	}
}

// Handle is one lazily-resolved content body (§4.5 C5 operations).
type Handle struct {
	cache        ContentCache
	key          string
	source       Source
	sizeEstimate SizeEstimate
	preview      PreviewSource
	threshold    int64

	mu      sync.Mutex
	loaded  bool
	content string
}

// SetThreshold overrides the is_large byte threshold (default 1 MB).
func (h *Handle) SetThreshold(threshold int64) {
	h.threshold = threshold
}

// SizeEstimate returns the handle's size without materializing content when
// possible: the already-loaded content's length, else the cache's cached
// value, else the caller-supplied size estimator, else a full load.
func (h *Handle) SizeEstimate() (int64, error) {
	h.mu.Lock()
	if h.loaded {
		defer h.mu.Unlock()
		return int64(len(h.content)), nil
	}
	h.mu.Unlock()

	if h.cache != nil {
		if v, ok := h.cache.Get(h.key); ok {
			return int64(len(v)), nil
		}
	}

	if h.sizeEstimate != nil {
		return h.sizeEstimate()
	}

	content, err := h.Content()
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

// IsLarge reports whether the handle's size estimate exceeds its threshold.
func (h *Handle) IsLarge() (bool, error) {
	size, err := h.SizeEstimate()
	if err != nil {
		return false, err
	}
	return size > h.threshold, nil
}

// Content returns the full content, invoking the source thunk only once and
// memoizing the result both locally and in the shared cache.
func (h *Handle) Content() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loaded {
		return h.content, nil
	}

	if h.cache != nil {
		if v, ok := h.cache.Get(h.key); ok {
			log.Debug("cache hit for %s", h.key)
			h.content = v
			h.loaded = true
			return v, nil
		}
	}

	content, err := h.source()
	if err != nil {
		return "", err
	}

	h.content = content
	h.loaded = true
	if h.cache != nil {
		h.cache.Put(h.key, content)
	}
	return content, nil
}

// Preview returns the first nLines lines. If content has already been
// materialized, it is sliced from memory; otherwise the handle's
// PreviewSource is used if set, short-circuiting a full load for large
// files; with no PreviewSource, Preview falls back to a full Content load.
func (h *Handle) Preview(nLines int) (string, error) {
	h.mu.Lock()
	loaded, content := h.loaded, h.content
	h.mu.Unlock()

	if loaded {
		return firstLines(content, nLines), nil
	}

	if h.preview != nil {
		return h.preview(nLines)
	}

	full, err := h.Content()
	if err != nil {
		return "", err
	}
	return firstLines(full, nLines), nil
}

func firstLines(content string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.SplitN(content, "\n", n+1)
	if len(lines) <= n {
		return content
	}
	return strings.Join(lines[:n], "\n")
}

func cacheKey(namespace, identifier string) string {
	h := md5.Sum([]byte(namespace + "\x00" + identifier))
	return hex.EncodeToString(h[:])
}
