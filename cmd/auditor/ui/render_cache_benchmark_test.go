package ui

import (
	"testing"

	"github.com/netpack/vaitp-auditor-go/internal/diff"
)

// BenchmarkComputeHash benchmarks the hash computation with mixed inputs
func BenchmarkComputeHash(b *testing.B) {
	// Setup typical inputs for a diff pane cache key
	traceVersion := 1
	width := 100
	height := 50
	showActivation := true
	selectedNode := 123
	scrollOffset := 10
	searchQuery := "some query"
	filterSource := "idb"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		computeHash(traceVersion, width, height, showActivation, selectedNode, scrollOffset, searchQuery, filterSource)
	}
}

// BenchmarkComputeHashIntegersOnly benchmarks the hash computation with only integers (worst case for allocation)
func BenchmarkComputeHashIntegersOnly(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		computeHash(1, 2, 3, 4, 5, 6, 7, 8)
	}
}

func BenchmarkRenderCacheCall(b *testing.B) {
    rc := NewRenderCache(100)
    cr := NewCachedRender(rc)

	traceVersion := 1
	width := 100
	height := 50
	showActivation := true
	selectedNode := 123
	scrollOffset := 10
	searchQuery := "some query"
	filterSource := "idb"

    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        // simulate the call in DiffApprovalView.updateContent
		cacheKey := []interface{}{
			traceVersion,
			width,
			height,
			showActivation,
			selectedNode,
			scrollOffset,
			searchQuery,
			filterSource,
		}
        cr.Render(cacheKey, func() string { return "content" })
    }
}

func BenchmarkRenderCodePane(b *testing.B) {
	styles := NewStyles(LightTheme())
	pane := NewCodePane(styles, "Expected", 100, 50)

	lineCount := 1000
	lines := make([]CodeLine, lineCount)
	for i := 0; i < lineCount; i++ {
		lines[i] = CodeLine{Number: i + 1, Content: "some line of code content here", Tag: diff.TagEqual}
	}
	pane.Lines = lines

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pane.invalidateCache()
		pane.renderContent()
	}
}
